// Package score implements the workflow-scoring capability: a weighted
// heuristic that maps a set of content-type labels (plus optional raw texts)
// to the workflow the user is most likely in.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/klipworks/klipflow/internal/capability"
)

// Name is the registered capability name.
const Name = "workflow-scoring"

// Decision is the scored-decision record the capability returns.
type Decision struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// categories in tie-break order: when two workflows score equally, the
// earlier one wins.
var categories = []string{
	"Frontend Development",
	"Backend Development",
	"Data Science",
	"DevOps/SRE",
	"Research",
}

// labelWeights maps a content-type label to per-category score increments.
var labelWeights = map[string]map[string]float64{
	"frontend_code": {"Frontend Development": 3.0},
	"css_style":     {"Frontend Development": 2.0},
	"python_code":   {"Backend Development": 2.0, "Data Science": 1.0},
	"sql_query":     {"Backend Development": 2.0, "Data Science": 2.5},
	"shell_command": {"DevOps/SRE": 3.0, "Backend Development": 1.0},
	"json_data":     {"Backend Development": 1.0, "Frontend Development": 1.0},
	"url":           {"Research": 1.5},
}

// textSignals are substring cues applied to lowercased raw texts.
var textSignals = []struct {
	keywords []string
	category string
	weight   float64
}{
	{[]string{"pandas", "notebook", "csv"}, "Data Science", 1.0},
	{[]string{"react", "hook"}, "Frontend Development", 1.0},
	{[]string{"docker", "aws", "deploy"}, "DevOps/SRE", 2.0},
	{[]string{"django", "fastapi", "flask"}, "Backend Development", 2.0},
}

// Scorer predicts the active workflow. Pure function of its input.
type Scorer struct{}

// New creates the scorer capability.
func New() *Scorer { return &Scorer{} }

// Name implements capability.Capability.
func (s *Scorer) Name() string { return Name }

// Run scores the "types" argument (a list of content-type labels) with an
// optional secondary pass over "texts"/"entries" raw records, and returns a
// Decision.
func (s *Scorer) Run(input map[string]any) (any, error) {
	typesVal, ok := capability.First(input, "types", "labels")
	if !ok {
		typesVal, _ = capability.Sole(input)
	}
	labels := capability.Records(typesVal)

	var texts []any
	if textsVal, ok := capability.First(input, "texts", "entries"); ok {
		texts = capability.Records(textsVal)
	}

	return Predict(labels, texts), nil
}

// Predict computes the decision for a label set and optional raw texts.
func Predict(labels []any, texts []any) Decision {
	scores := make(map[string]float64, len(categories))

	for _, label := range labels {
		weights, ok := labelWeights[capability.Text(label)]
		if !ok {
			continue
		}
		for category, w := range weights {
			scores[category] += w
		}
	}

	for _, record := range texts {
		txt := strings.ToLower(capability.Text(record))
		if txt == "" {
			continue
		}
		for _, sig := range textSignals {
			for _, k := range sig.keywords {
				if strings.Contains(txt, k) {
					scores[sig.category] += sig.weight
					break
				}
			}
		}
	}

	best := categories[0]
	for _, category := range categories[1:] {
		if scores[category] > scores[best] {
			best = category
		}
	}
	maxScore := scores[best]

	if maxScore < 2.0 {
		return Decision{Name: "General", Confidence: 0.3, Reasoning: "Not enough specific patterns."}
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}
	if total == 0 {
		total = 1
	}
	confidence := math.Min(maxScore/(total*0.5+2.0), 0.95)

	return Decision{
		Name:       best,
		Confidence: math.Round(confidence*100) / 100,
		Reasoning:  fmt.Sprintf("Detected %s patterns (score: %.1f).", best, maxScore),
	}
}
