package rhythm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictSteadyRhythm(t *testing.T) {
	// An event every hour for five hours; now is the last event.
	events := []float64{1000, 4600, 8200, 11800, 15400}

	p := Predict(events, 15400)

	assert.InDelta(t, 3600, p.Interval, 0.001)
	assert.InDelta(t, 19000, p.Next, 0.001)
	assert.Equal(t, 5, p.Events)
	assert.InDelta(t, 0, p.Spread, 0.001)
}

func TestPredictProjectsPastNow(t *testing.T) {
	events := []float64{1000, 2000}

	// Two intervals of 1000 have already elapsed since the last event.
	p := Predict(events, 4500)

	assert.InDelta(t, 5000, p.Next, 0.001)
	assert.GreaterOrEqual(t, p.Next, 4500.0)
}

func TestPredictInsufficientData(t *testing.T) {
	p := Predict([]float64{1000}, 2000)

	assert.InDelta(t, 2000+defaultHorizon, p.Next, 0.001)
	assert.Equal(t, 1, p.Events)
	assert.Zero(t, p.Interval)
}

func TestPredictZeroInterval(t *testing.T) {
	// Duplicate timestamps must not loop forever.
	p := Predict([]float64{5000, 5000, 5000}, 9000)

	assert.GreaterOrEqual(t, p.Next, 9000.0)
}

func TestRunWithNowOverride(t *testing.T) {
	r := New()

	out, err := r.Run(map[string]any{
		"events": []any{1000.0, 4600.0, 8200.0},
		"now":    8200.0,
	})
	require.NoError(t, err)

	p, ok := out.(Prediction)
	require.True(t, ok)
	assert.InDelta(t, 11800, p.Next, 0.001)
}

func TestRunMixedNumericTypes(t *testing.T) {
	r := New()

	out, err := r.Run(map[string]any{"events": []any{1000, int64(2000), 3000.0}, "now": 3000})
	require.NoError(t, err)

	p := out.(Prediction)
	assert.Equal(t, 3, p.Events)
	assert.InDelta(t, 1000, p.Interval, 0.001)
}
