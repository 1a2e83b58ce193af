package clipboard

import (
	"context"
	"fmt"

	"github.com/klipworks/klipflow/internal/capability"
)

// Capability names bound in blueprint steps.
const (
	CopyName  = "clipboard-copy"
	PasteName = "clipboard-paste"
)

// CopyCapability places a step's text input on the clipboard and echoes it
// back so downstream steps can keep chaining on the value.
type CopyCapability struct {
	client *Client
}

// NewCopyCapability wraps client as a workflow capability.
func NewCopyCapability(client *Client) *CopyCapability {
	return &CopyCapability{client: client}
}

// Name implements capability.Capability.
func (c *CopyCapability) Name() string { return CopyName }

// Run implements capability.Capability.
func (c *CopyCapability) Run(input map[string]any) (any, error) {
	v, ok := capability.First(input, "text", "content")
	if !ok {
		v, _ = capability.Sole(input)
	}
	text := capability.Text(v)
	if text == "" {
		return nil, fmt.Errorf("no text to copy")
	}

	if err := c.client.Copy(context.Background(), text); err != nil {
		return nil, err
	}
	return text, nil
}

// PasteCapability reads the current clipboard content into workflow state.
type PasteCapability struct {
	client *Client
}

// NewPasteCapability wraps client as a workflow capability.
func NewPasteCapability(client *Client) *PasteCapability {
	return &PasteCapability{client: client}
}

// Name implements capability.Capability.
func (p *PasteCapability) Name() string { return PasteName }

// Run implements capability.Capability.
func (p *PasteCapability) Run(input map[string]any) (any, error) {
	item, err := p.client.Current(context.Background())
	if err != nil {
		return nil, err
	}
	return item.Content, nil
}
