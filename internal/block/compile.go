package block

import (
	"fmt"
	"strings"
)

// Default labels of the source link line.
const (
	DefaultLinkLabel = "原文链接："
	DefaultLinkText  = "查看原文"
)

// ContentItem is one digest entry: a title, its bullet points and an optional
// source link.
type ContentItem struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Link    string   `json:"link,omitempty"`
}

// Compiler turns content items into descendant blocks for a container.
type Compiler struct {
	TitleType BlockType
	LinkLabel string
	LinkText  string
}

// DefaultCompiler returns a compiler producing heading2 titles and the default
// link labels.
func DefaultCompiler() Compiler {
	return Compiler{
		TitleType: TypeHeading2,
		LinkLabel: DefaultLinkLabel,
		LinkText:  DefaultLinkText,
	}
}

// Compile flattens item into blocks with local ids. The returned ids are the
// top-level children in order; every descendant is one of them.
func Compile(item ContentItem) ([]string, []Block) {
	return DefaultCompiler().Compile(item)
}

// Compile flattens item into blocks with local ids.
func (c Compiler) Compile(item ContentItem) ([]string, []Block) {
	c = c.withDefaults()

	var (
		ids         []string
		descendants []Block
		counter     int
	)
	nextID := func(prefix string) string {
		counter++
		return fmt.Sprintf("%s_%d", prefix, counter)
	}
	add := func(b Block) {
		ids = append(ids, b.BlockID)
		descendants = append(descendants, b)
	}

	add(c.block(nextID("title"), c.TitleType, TextRun{
		Content: item.Title,
		Style:   TextElementStyle{Bold: true},
	}))

	for _, bullet := range item.Bullets {
		if strings.TrimSpace(bullet) == "" {
			continue
		}
		add(c.block(nextID("bullet"), TypeBullet, Run(bullet)))
	}

	if link := strings.TrimSpace(item.Link); link != "" {
		add(c.block(nextID("link"), TypeText, BoldRun(c.LinkLabel), LinkRun(c.LinkText, link)))
	}

	return ids, descendants
}

// block builds a descendant through NewBlock; every type passed here is textual.
func (c Compiler) block(id string, t BlockType, runs ...TextRun) Block {
	b := MustBlock(t, runs, nil)
	b.BlockID = id
	return b
}

func (c Compiler) withDefaults() Compiler {
	if !c.TitleType.IsTextual() {
		c.TitleType = TypeHeading2
	}
	if c.LinkLabel == "" {
		c.LinkLabel = DefaultLinkLabel
	}
	if c.LinkText == "" {
		c.LinkText = DefaultLinkText
	}
	return c
}
