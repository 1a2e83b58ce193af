package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Entry is one clipboard history record.
type Entry struct {
	UUID         string   `json:"uuid"`
	AddedTime    float64  `json:"added_time"`
	LastUsedTime *float64 `json:"last_used_time"`
	Mimetypes    []string `json:"mimetypes"`
	Text         *string  `json:"text"`
	Starred      bool     `json:"starred"`
}

// NewEntry creates a history entry for freshly captured text. Mimetypes are
// sniffed from the content when the caller passes none.
func NewEntry(text string, mimetypes []string) Entry {
	entry := Entry{
		UUID:      uuid.NewString(),
		AddedTime: float64(time.Now().UnixNano()) / 1e9,
		Mimetypes: mimetypes,
		Text:      &text,
	}
	if len(entry.Mimetypes) == 0 {
		entry.Mimetypes = normalizeMimetypes("", entry.Text)
	}
	return entry
}

// AddedAt converts the raw Unix timestamp to a time.Time.
func (e Entry) AddedAt() time.Time {
	sec := int64(e.AddedTime)
	nsec := int64((e.AddedTime - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// TextValue returns the entry text, or "" for binary entries.
func (e Entry) TextValue() string {
	if e.Text == nil {
		return ""
	}
	return *e.Text
}

// normalizeTimes repairs timestamps from older history databases: a missing
// or zero added_time becomes a small epsilon so ordering stays stable, and
// non-positive last_used values collapse to nil.
func normalizeTimes(added float64, lastUsed *float64) (float64, *float64) {
	if added <= 0 {
		added = 0.1
	}
	if lastUsed != nil && *lastUsed <= 0 {
		lastUsed = nil
	}
	return added, lastUsed
}

// normalizeMimetypes decodes the stored mimetypes column. Depending on the
// writer's version the column holds either a JSON array or a bare mimetype
// string; when it is empty the type is sniffed from the text itself.
func normalizeMimetypes(raw string, text *string) []string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	if raw != "" {
		return []string{raw}
	}

	if text != nil && *text != "" {
		detected := mimetype.Detect([]byte(*text)).String()
		if base, _, found := strings.Cut(detected, ";"); found {
			detected = strings.TrimSpace(base)
		}
		return []string{detected}
	}
	return []string{"application/octet-stream"}
}
