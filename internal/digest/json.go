package digest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roboco-io/larkdocx/internal/block"
)

// JSONParser reads items already in {title, bullets, link} form, either an
// array or a single object.
type JSONParser struct{}

func (JSONParser) Name() string { return "json" }

func (JSONParser) Parse(text string) ([]block.ContentItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmpty
	}

	var items []block.ContentItem
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &items); err != nil {
			return nil, fmt.Errorf("digest: decode json array: %w", err)
		}
	} else {
		var item block.ContentItem
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fmt.Errorf("digest: decode json object: %w", err)
		}
		items = []block.ContentItem{item}
	}

	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it.Title) == "" && len(it.Bullets) == 0 && it.Link == "" {
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
