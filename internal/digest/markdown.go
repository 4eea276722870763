package digest

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/roboco-io/larkdocx/internal/block"
)

// MarkdownParser reads digests written as
//
//	**Title**
//	- point one
//	- point two
//	- 原文链接：https://example.com/a
//
// A section starts at a top-level paragraph or heading whose first inline is
// strong emphasis and runs until the next such block.
type MarkdownParser struct {
	linkLabel string
	linkRe    *regexp.Regexp
	md        goldmark.Markdown
}

// NewMarkdownParser returns a parser that recognises links after linkLabel
// (block.DefaultLinkLabel when empty).
func NewMarkdownParser(linkLabel string) *MarkdownParser {
	if linkLabel == "" {
		linkLabel = block.DefaultLinkLabel
	}
	return &MarkdownParser{
		linkLabel: linkLabel,
		linkRe:    regexp.MustCompile(regexp.QuoteMeta(linkLabel) + `\s*(https?://[^\s]+)`),
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (p *MarkdownParser) Name() string { return "markdown" }

type section struct {
	title   string
	bullets []string
	lines   []string
}

// Parse extracts one item per section in document order.
func (p *MarkdownParser) Parse(input string) ([]block.ContentItem, error) {
	src := []byte(separateTitles(input))
	doc := p.md.Parser().Parse(text.NewReader(src))

	var (
		sections []*section
		cur      *section
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if title, rest, ok := sectionTitle(n, src); ok {
			cur = &section{title: title}
			if rest != "" {
				cur.lines = append(cur.lines, rest)
			}
			sections = append(sections, cur)
			continue
		}
		if cur == nil {
			continue
		}
		p.collect(cur, n, src)
	}

	items := make([]block.ContentItem, 0, len(sections))
	for _, s := range sections {
		item := block.ContentItem{Title: s.title, Bullets: s.bullets}
		if m := p.linkRe.FindStringSubmatch(strings.Join(s.lines, "\n")); m != nil {
			item.Link = m[1]
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// separateTitles puts a blank line before every line that starts with "**" so
// that a title directly under a list item is not read as a lazy continuation
// of that item.
func separateTitles(input string) string {
	lines := strings.Split(input, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if i > 0 && strings.HasPrefix(strings.TrimSpace(line), "**") && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// collect adds the bullets and text lines of a block inside a section.
func (p *MarkdownParser) collect(s *section, n gmast.Node, src []byte) {
	switch n := n.(type) {
	case *gmast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			var nested []gmast.Node
			var parts []string
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*gmast.List); ok {
					nested = append(nested, c)
					continue
				}
				parts = append(parts, inlineText(c, src))
			}
			line := strings.TrimSpace(strings.Join(parts, "\n"))
			s.lines = append(s.lines, line)
			if !n.IsOrdered() && !p.isLinkLine(line) {
				s.bullets = append(s.bullets, line)
			}
			for _, c := range nested {
				p.collect(s, c, src)
			}
		}
	default:
		if t := strings.TrimSpace(inlineText(n, src)); t != "" {
			s.lines = append(s.lines, t)
		}
	}
}

func (p *MarkdownParser) isLinkLine(line string) bool {
	return strings.HasPrefix(line, strings.TrimRight(p.linkLabel, "：:"))
}

// sectionTitle reports whether n opens a section, returning the title and any
// text that follows it in the same block.
func sectionTitle(n gmast.Node, src []byte) (string, string, bool) {
	switch n.(type) {
	case *gmast.Paragraph, *gmast.Heading:
	default:
		return "", "", false
	}

	first := n.FirstChild()
	if em, ok := first.(*gmast.Emphasis); ok && em.Level == 2 {
		title := strings.TrimSpace(inlineText(em, src))
		var rest strings.Builder
		for c := em.NextSibling(); c != nil; c = c.NextSibling() {
			writeInline(&rest, c, src)
		}
		return title, strings.TrimSpace(rest.String()), title != ""
	}

	// Delimiter runs next to CJK punctuation are not always parsed as
	// emphasis; fall back to the literal markers.
	raw := strings.TrimSpace(inlineText(n, src))
	if strings.HasPrefix(raw, "**") {
		if end := strings.Index(raw[2:], "**"); end > 0 {
			title := strings.TrimSpace(raw[2 : 2+end])
			return title, strings.TrimSpace(raw[4+end:]), title != ""
		}
	}
	return "", "", false
}

// inlineText returns the text content of n and its descendants.
func inlineText(n gmast.Node, src []byte) string {
	var b strings.Builder
	writeInline(&b, n, src)
	return b.String()
}

func writeInline(b *strings.Builder, n gmast.Node, src []byte) {
	switch n := n.(type) {
	case *gmast.Text:
		b.Write(n.Segment.Value(src))
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *gmast.String:
		b.Write(n.Value)
		return
	case *gmast.AutoLink:
		b.Write(n.URL(src))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeInline(b, c, src)
	}
	if n.Type() == gmast.TypeBlock && n.NextSibling() != nil {
		b.WriteByte('\n')
	}
}
