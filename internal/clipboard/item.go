package clipboard

import (
	"fmt"
	"time"

	"github.com/klipworks/klipflow/internal/shared/utils"
)

const previewLimit = 50

var itemHasher = utils.NewHasher(utils.MD5)

// Item is a single clipboard history entry as seen through the bridge.
type Item struct {
	ID       string    `json:"id"`
	Content  string    `json:"content"`
	Preview  string    `json:"preview"`
	Mimetype string    `json:"mimetype,omitempty"`
	Seen     time.Time `json:"seen"`
}

// FromRaw builds an Item from bridge content. The ID combines the history
// index with a short content hash so re-copied text keeps a stable suffix.
func FromRaw(index int, content string) Item {
	return Item{
		ID:      fmt.Sprintf("%d_%s", index, utils.ShortHash(itemHasher.HashString(content))),
		Content: content,
		Preview: Preview(content),
		Seen:    time.Now(),
	}
}

// Preview truncates content to a short display string.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewLimit]) + "..."
}
