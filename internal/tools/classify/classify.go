// Package classify implements the content-classification capability: a
// hand-coded heuristic that labels clipboard text by kind (url, sql_query,
// python_code, frontend_code, css_style, shell_command, json_data,
// code_snippet, text, binary).
package classify

import (
	"regexp"
	"strings"

	"github.com/klipworks/klipflow/internal/capability"
)

// Name is the registered capability name.
const Name = "content-classification"

var urlPattern = regexp.MustCompile(`^https?://`)

var (
	sqlKeywords = []string{"SELECT ", "INSERT INTO ", "UPDATE ", "DELETE FROM ", "CREATE TABLE", "ALTER TABLE"}
	pyKeywords  = []string{"def ", "import ", "class ", "print(", "__name__", "if __name__", "pandas", "numpy"}
	feKeywords  = []string{"import React", "export const", "interface ", "function ", "console.log", "<div>", "className="}
	cssKeywords = []string{"margin:", "padding:", "color:", "background:", "display:"}
	shKeywords  = []string{"sudo ", "npm install", "pip install", "docker ", "kubectl ", "git "}

	codeIndicators = []string{"{", "}", ";", "(", ")", "[", "]", "=", "return"}
)

// Classifier labels text content. Pure function of its input; safe to share.
type Classifier struct{}

// New creates the classifier capability.
func New() *Classifier { return &Classifier{} }

// Name implements capability.Capability.
func (c *Classifier) Name() string { return Name }

// Run labels the input payload. A list value yields one label per record; a
// single record yields a bare label string. The payload is taken from the
// "text" argument, falling back to "entries", "items", or a sole argument.
func (c *Classifier) Run(input map[string]any) (any, error) {
	payload, ok := capability.First(input, "text", "entries", "items")
	if !ok {
		payload, ok = capability.Sole(input)
	}
	if !ok {
		payload = input
	}

	if capability.IsList(payload) {
		records := capability.Records(payload)
		labels := make([]string, len(records))
		for i, record := range records {
			labels[i] = Label(capability.Text(record))
		}
		return labels, nil
	}
	return Label(capability.Text(payload)), nil
}

// Label classifies a single text value.
func Label(text string) string {
	if text == "" {
		return "binary"
	}
	text = strings.TrimSpace(text)

	if urlPattern.MatchString(text) {
		return "url"
	}

	upper := strings.ToUpper(text)
	if containsAny(upper, sqlKeywords) && strings.Contains(upper, "FROM") {
		return "sql_query"
	}

	if containsAny(text, pyKeywords) && (strings.Contains(text, ":") || strings.Contains(text, "=")) {
		return "python_code"
	}

	if containsAny(text, feKeywords) {
		return "frontend_code"
	}

	if strings.Contains(text, "{") && strings.Contains(text, "}") &&
		strings.Contains(text, ":") && strings.Contains(text, ";") &&
		!strings.Contains(text, "function") && containsAny(text, cssKeywords) {
		return "css_style"
	}

	if strings.HasPrefix(text, "#!") || containsAny(text, shKeywords) {
		return "shell_command"
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") && strings.Contains(text, `"`) {
		return "json_data"
	}

	if strings.Contains(text, "\n") && indicatorCount(text) > 3 {
		return "code_snippet"
	}

	return "text"
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func indicatorCount(text string) int {
	total := 0
	for _, ind := range codeIndicators {
		total += strings.Count(text, ind)
	}
	return total
}
