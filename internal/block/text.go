package block

import "strings"

// Alignment values for TextStyle.Align.
const (
	AlignLeft   = 1
	AlignCenter = 2
	AlignRight  = 3
)

// Link is a hyperlink target attached to a text run.
type Link struct {
	URL string `json:"url"`
}

// TextElementStyle contains character-level styling for a text run.
// Flags left unset are sent as false.
type TextElementStyle struct {
	Bold          bool  `json:"bold"`
	Italic        bool  `json:"italic"`
	Underline     bool  `json:"underline"`
	Strikethrough bool  `json:"strikethrough"`
	InlineCode    bool  `json:"inline_code"`
	Link          *Link `json:"link,omitempty"`
}

// TextRun is a styled span of text.
type TextRun struct {
	Content string           `json:"content"`
	Style   TextElementStyle `json:"text_element_style"`
}

// TextElement wraps a run the way the API nests it inside "elements".
type TextElement struct {
	TextRun *TextRun `json:"text_run,omitempty"`
}

// TextStyle contains block-level styling for textual blocks.
type TextStyle struct {
	Align    int   `json:"align,omitempty"`    // 1 left, 2 center, 3 right
	Folded   *bool `json:"folded,omitempty"`   // headings only
	Language int   `json:"language,omitempty"` // code blocks only
	Wrap     *bool `json:"wrap,omitempty"`     // code blocks only
}

// Text is the payload of every textual block (text, headings, bullet, code, ...).
type Text struct {
	Style    *TextStyle    `json:"style,omitempty"`
	Elements []TextElement `json:"elements"`
}

// Callout is the payload of a callout container.
type Callout struct {
	BackgroundColor int           `json:"background_color"`
	BorderColor     int           `json:"border_color"`
	EmojiID         string        `json:"emoji_id"`
	Elements        []TextElement `json:"elements,omitempty"`
}

// IframeComponent describes embedded content.
type IframeComponent struct {
	IframeType int    `json:"iframe_type"`
	URL        string `json:"url"`
}

// Iframe is the payload of an iframe block.
type Iframe struct {
	Component IframeComponent `json:"component"`
}

// Run creates a plain text run.
func Run(content string) TextRun {
	return TextRun{Content: content}
}

// BoldRun creates a bold text run.
func BoldRun(content string) TextRun {
	return TextRun{Content: content, Style: TextElementStyle{Bold: true}}
}

// LinkRun creates a run pointing at url.
func LinkRun(content, url string) TextRun {
	return TextRun{Content: content, Style: TextElementStyle{Link: &Link{URL: url}}}
}

// Elements wraps runs into the API's element list.
func Elements(runs ...TextRun) []TextElement {
	out := make([]TextElement, 0, len(runs))
	for i := range runs {
		r := runs[i]
		out = append(out, TextElement{TextRun: &r})
	}
	return out
}

// PlainText concatenates the content of all runs.
func (t *Text) PlainText() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	for _, el := range t.Elements {
		if el.TextRun != nil {
			sb.WriteString(el.TextRun.Content)
		}
	}
	return sb.String()
}
