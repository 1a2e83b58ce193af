package session

import (
	"testing"
)

func textEntry(uuid string, added float64, text string) Entry {
	return Entry{UUID: uuid, AddedTime: added, Text: &text, Mimetypes: []string{"text/plain"}}
}

func TestContentKind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty is binary", "", KindBinary},
		{"http url", "http://example.com/page", KindURL},
		{"https url", "https://example.com", KindURL},
		{"multiline code", "def handler(x):\n    return x", KindCode},
		{"multiline braces", "{\n  \"key\": 1\n}", KindCode},
		{"single line sql", "SELECT id FROM users WHERE active", KindSQL},
		{"lowercase sql", "select name from accounts", KindSQL},
		{"email address", "reach me at dev@example.org please", KindEmail},
		{"plain prose", "remember to buy milk", KindText},
		{"single line with brace is text", "func() {}", KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentKind(tt.text); got != tt.want {
				t.Errorf("ContentKind(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestEntryKindBinary(t *testing.T) {
	entry := Entry{UUID: "a", AddedTime: 1, Mimetypes: []string{"image/png"}}

	if got := EntryKind(entry); got != KindBinary {
		t.Errorf("Entry without text should be binary, got %s", got)
	}
}

func TestIngestSortsNewestFirst(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("old", 100, "first"),
		textEntry("new", 300, "third"),
		textEntry("mid", 200, "second"),
	})

	entries := a.Entries()
	if entries[0].UUID != "new" || entries[1].UUID != "mid" || entries[2].UUID != "old" {
		t.Errorf("Entries should be newest first, got %v", []string{entries[0].UUID, entries[1].UUID, entries[2].UUID})
	}
}

func TestClusterByTime(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("a", 1000, "x"),
		textEntry("b", 990, "x"),
		textEntry("c", 950, "x"),
		textEntry("d", 100, "x"),
	})

	clusters := a.ClusterByTime(60)

	if len(clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(clusters))
	}
	if len(clusters[0]) != 3 {
		t.Errorf("First burst should hold 3 entries, got %d", len(clusters[0]))
	}
	if clusters[1][0].UUID != "d" {
		t.Errorf("Second cluster should hold the old entry, got %s", clusters[1][0].UUID)
	}
}

func TestClusterByTimeEmpty(t *testing.T) {
	a := NewAnalyzer()

	if clusters := a.ClusterByTime(60); clusters != nil {
		t.Errorf("Expected no clusters, got %v", clusters)
	}
}

func TestPredictWorkflowNoData(t *testing.T) {
	a := NewAnalyzer()

	p := a.PredictWorkflow(DefaultRecentCount)
	if p.Name != "Unknown" || p.Confidence != 0.0 || p.Reasoning != "No data" {
		t.Errorf("Unexpected empty prediction: %+v", p)
	}
}

func TestPredictWorkflowResearch(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("1", 500, "https://google.com"),
		textEntry("2", 495, "https://wikipedia.org"),
		textEntry("3", 490, "https://news.ycombinator.com"),
		textEntry("4", 485, "Interesting fact about LLMs"),
		textEntry("5", 480, "https://arxiv.org/abs/1234"),
	})

	p := a.PredictWorkflow(5)
	if p.Name != "Research" {
		t.Fatalf("Expected Research, got %s (%s)", p.Name, p.Reasoning)
	}
	if p.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", p.Confidence)
	}
	if p.Reasoning != "Majority of recent items (4 of 5) are URLs." {
		t.Errorf("Unexpected reasoning: %s", p.Reasoning)
	}
}

func TestPredictWorkflowDevelopment(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("1", 500, "SELECT * FROM users"),
		textEntry("2", 495, "shopping list"),
		textEntry("3", 490, "another note"),
	})

	p := a.PredictWorkflow(5)
	if p.Name != "Development" || p.Confidence != 0.7 {
		t.Errorf("Single SQL query should force Development, got %+v", p)
	}
}

func TestPredictWorkflowCommunication(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("1", 500, "contact alice@example.com about the invoice"),
		textEntry("2", 495, "meeting notes"),
	})

	p := a.PredictWorkflow(5)
	if p.Name != "Communication" || p.Confidence != 0.6 {
		t.Errorf("Email content should predict Communication, got %+v", p)
	}
}

func TestPredictWorkflowGeneral(t *testing.T) {
	a := NewAnalyzer()
	a.Ingest([]Entry{
		textEntry("1", 500, "shopping list"),
		textEntry("2", 495, "call mom"),
	})

	p := a.PredictWorkflow(5)
	if p.Name != "General" || p.Confidence != 0.3 || p.Reasoning != "Mixed content types." {
		t.Errorf("Mixed content should predict General, got %+v", p)
	}
}

func TestPredictWorkflowUsesOnlyRecent(t *testing.T) {
	a := NewAnalyzer()
	// Newest five are URLs; a pile of old code must not dilute them.
	a.Ingest([]Entry{
		textEntry("u1", 500, "https://a.example"),
		textEntry("u2", 499, "https://b.example"),
		textEntry("u3", 498, "https://c.example"),
		textEntry("u4", 497, "https://d.example"),
		textEntry("u5", 496, "https://e.example"),
		textEntry("old1", 10, "def f():\n    pass"),
		textEntry("old2", 9, "def g():\n    pass"),
	})

	p := a.PredictWorkflow(5)
	if p.Name != "Research" {
		t.Errorf("Old entries should be ignored, got %s", p.Name)
	}
}
