package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictBackendHeavy(t *testing.T) {
	d := Predict([]any{"python_code", "sql_query", "shell_command"}, nil)

	assert.Equal(t, "Backend Development", d.Name)
	assert.InDelta(t, 0.65, d.Confidence, 0.001)
	assert.Contains(t, d.Reasoning, "Backend Development")
	assert.Contains(t, d.Reasoning, "5.0")
}

func TestPredictWeakSignal(t *testing.T) {
	d := Predict([]any{"url"}, nil)

	assert.Equal(t, "General", d.Name)
	assert.Equal(t, 0.3, d.Confidence)
	assert.Equal(t, "Not enough specific patterns.", d.Reasoning)
}

func TestPredictEmpty(t *testing.T) {
	d := Predict(nil, nil)
	assert.Equal(t, "General", d.Name)
}

func TestPredictTieBreaksByCategoryOrder(t *testing.T) {
	d := Predict([]any{"json_data", "json_data"}, nil)

	assert.Equal(t, "Frontend Development", d.Name)
	assert.InDelta(t, 0.5, d.Confidence, 0.001)
}

func TestPredictSecondaryTextPass(t *testing.T) {
	d := Predict(
		[]any{"shell_command"},
		[]any{"deploy with docker to aws", map[string]any{"text": "django views"}},
	)

	// shell_command: DevOps 3.0 + Backend 1.0; docker/aws/deploy adds 2.0 once.
	assert.Equal(t, "DevOps/SRE", d.Name)
	require.NotEmpty(t, d.Reasoning)
	assert.Contains(t, d.Reasoning, "5.0")
}

func TestPredictConfidenceCapped(t *testing.T) {
	labels := make([]any, 0, 20)
	for i := 0; i < 20; i++ {
		labels = append(labels, "frontend_code")
	}
	d := Predict(labels, nil)

	assert.Equal(t, "Frontend Development", d.Name)
	assert.LessOrEqual(t, d.Confidence, 0.95)
}

func TestRunInputShapes(t *testing.T) {
	s := New()

	out, err := s.Run(map[string]any{"types": []any{"python_code", "sql_query", "shell_command"}})
	require.NoError(t, err)
	d, ok := out.(Decision)
	require.True(t, ok, "Run should return a Decision")
	assert.Equal(t, "Backend Development", d.Name)

	out, err = s.Run(map[string]any{
		"labels":  []string{"shell_command"},
		"entries": []any{"docker build ."},
	})
	require.NoError(t, err)
	d = out.(Decision)
	assert.Equal(t, "DevOps/SRE", d.Name)
}
