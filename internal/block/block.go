package block

import (
	"encoding/json"
	"fmt"
)

// Block is a single docx block as exchanged with the remote API.
//
// The type-specific payload is nested under the key named by BlockType.Key(),
// e.g. {"block_type": 4, "heading2": {...}}. Payload holds *Text for textual
// types, *Callout, *Iframe, or json.RawMessage for types this package does not
// model.
type Block struct {
	BlockID   string
	ParentID  string
	BlockType BlockType
	Children  []string
	Payload   any
}

type blockHeader struct {
	BlockID   string   `json:"block_id,omitempty"`
	ParentID  string   `json:"parent_id,omitempty"`
	BlockType int      `json:"block_type"`
	Children  []string `json:"children,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Block) MarshalJSON() ([]byte, error) {
	key := b.BlockType.Key()
	if key == "" {
		return nil, fmt.Errorf("block: cannot encode %s", b.BlockType)
	}

	m := map[string]any{
		"block_type": b.BlockType.Discriminant(),
	}
	if b.BlockID != "" {
		m["block_id"] = b.BlockID
	}
	if b.ParentID != "" {
		m["parent_id"] = b.ParentID
	}
	if b.Children != nil {
		m["children"] = b.Children
	}

	payload := b.Payload
	if payload == nil {
		payload = struct{}{}
	}
	m[key] = payload

	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head blockHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("block: decode header: %w", err)
	}

	*b = Block{
		BlockID:   head.BlockID,
		ParentID:  head.ParentID,
		BlockType: BlockType(head.BlockType),
		Children:  head.Children,
	}

	key := b.BlockType.Key()
	if key == "" {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("block: decode payload: %w", err)
	}
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}

	switch {
	case b.BlockType.IsTextual():
		var t Text
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("block: decode %s payload: %w", key, err)
		}
		b.Payload = &t
	case b.BlockType == TypeCallout:
		var c Callout
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("block: decode callout payload: %w", err)
		}
		b.Payload = &c
	case b.BlockType == TypeIframe:
		var f Iframe
		if err := json.Unmarshal(raw, &f); err != nil {
			return fmt.Errorf("block: decode iframe payload: %w", err)
		}
		b.Payload = &f
	default:
		b.Payload = raw
	}
	return nil
}

// Text returns the textual payload, or nil if the block has none.
func (b Block) Text() *Text {
	t, _ := b.Payload.(*Text)
	return t
}

// Callout returns the callout payload, or nil.
func (b Block) Callout() *Callout {
	c, _ := b.Payload.(*Callout)
	return c
}

// HasChildren reports whether the block lists any child ids.
func (b Block) HasChildren() bool {
	return len(b.Children) > 0
}
