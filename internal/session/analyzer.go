package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Content kinds produced by ContentKind.
const (
	KindBinary = "binary"
	KindURL    = "url"
	KindCode   = "code_snippet"
	KindSQL    = "sql_query"
	KindEmail  = "email"
	KindText   = "text"
)

// Analyzer defaults.
const (
	DefaultRecentCount      = 5
	DefaultClusterThreshold = 60.0 // seconds
)

// Prediction describes the user's likely active workflow.
type Prediction struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

var (
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	codeIndicators = []string{"def ", "class ", "import ", "return ", "{", "}", ";", "SELECT ", "FROM "}
)

// ContentKind determines the primary type of a text payload.
func ContentKind(text string) string {
	if text == "" {
		return KindBinary
	}

	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return KindURL
	}

	if strings.Contains(text, "\n") {
		for _, indicator := range codeIndicators {
			if strings.Contains(text, indicator) {
				return KindCode
			}
		}
	}

	upper := strings.ToUpper(text)
	if strings.Contains(upper, "SELECT") && strings.Contains(upper, "FROM") {
		return KindSQL
	}

	if emailPattern.MatchString(text) {
		return KindEmail
	}

	return KindText
}

// EntryKind classifies a history entry; entries without text are binary.
func EntryKind(e Entry) string {
	return ContentKind(e.TextValue())
}

// Analyzer derives insight from clipboard history entries.
type Analyzer struct {
	entries []Entry
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Ingest loads entries and keeps the set ordered newest first.
func (a *Analyzer) Ingest(entries []Entry) {
	a.entries = append(a.entries, entries...)
	sort.SliceStable(a.entries, func(i, j int) bool {
		return a.entries[i].AddedTime > a.entries[j].AddedTime
	})
}

// Entries returns the ingested entries, newest first.
func (a *Analyzer) Entries() []Entry {
	return a.entries
}

// ClusterByTime groups entries added within threshold seconds of their
// neighbor. Entries are walked newest first, so each cluster is one burst
// of copy activity.
func (a *Analyzer) ClusterByTime(threshold float64) [][]Entry {
	if len(a.entries) == 0 {
		return nil
	}

	var clusters [][]Entry
	current := []Entry{a.entries[0]}

	for i := 1; i < len(a.entries); i++ {
		prev := a.entries[i-1]
		curr := a.entries[i]

		if prev.AddedTime-curr.AddedTime <= threshold {
			current = append(current, curr)
		} else {
			clusters = append(clusters, current)
			current = []Entry{curr}
		}
	}

	clusters = append(clusters, current)
	return clusters
}

// PredictWorkflow predicts the active workflow from the most recent
// entries.
func (a *Analyzer) PredictWorkflow(recentCount int) Prediction {
	if len(a.entries) == 0 {
		return Prediction{Name: "Unknown", Confidence: 0.0, Reasoning: "No data"}
	}
	if recentCount <= 0 {
		recentCount = DefaultRecentCount
	}
	if recentCount > len(a.entries) {
		recentCount = len(a.entries)
	}

	recent := a.entries[:recentCount]
	counts := make(map[string]int, len(recent))
	for _, entry := range recent {
		counts[EntryKind(entry)]++
	}
	total := len(recent)

	if float64(counts[KindURL])/float64(total) >= 0.6 {
		return Prediction{
			Name:       "Research",
			Confidence: 0.8,
			Reasoning:  fmt.Sprintf("Majority of recent items (%d of %d) are URLs.", counts[KindURL], total),
		}
	}

	if float64(counts[KindCode])/float64(total) >= 0.4 || counts[KindSQL] > 0 {
		return Prediction{
			Name:       "Development",
			Confidence: 0.7,
			Reasoning:  "Recent items contain code snippets or SQL queries.",
		}
	}

	if counts[KindEmail] > 0 {
		return Prediction{
			Name:       "Communication",
			Confidence: 0.6,
			Reasoning:  "Recent items contain email addresses.",
		}
	}

	return Prediction{Name: "General", Confidence: 0.3, Reasoning: "Mixed content types."}
}
