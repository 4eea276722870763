package block

import (
	"errors"
	"fmt"
)

// Defaults used by the composite builders.
const (
	DefaultCalloutColor = 2
	DefaultCalloutEmoji = "bulb"
	DefaultCodeLanguage = 28 // PlainText
	DefaultIframeType   = 99 // Other
)

var (
	// ErrUnknownType is returned for discriminants outside the catalog.
	ErrUnknownType = errors.New("unknown block type")
	// ErrNotTextual is returned when runs are attached to a type without elements.
	ErrNotTextual = errors.New("block type has no text payload")
)

// NewBlock builds a textual block from runs. A nil style is sent as an empty
// style object.
func NewBlock(t BlockType, runs []TextRun, style *TextStyle) (Block, error) {
	if !t.Valid() {
		return Block{}, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if !t.IsTextual() {
		return Block{}, fmt.Errorf("%w: %s", ErrNotTextual, t)
	}
	if style == nil {
		style = &TextStyle{}
	}
	return Block{
		BlockType: t,
		Payload: &Text{
			Style:    style,
			Elements: Elements(runs...),
		},
	}, nil
}

// MustBlock is like NewBlock but panics on error. Intended for fixed types.
func MustBlock(t BlockType, runs []TextRun, style *TextStyle) Block {
	b, err := NewBlock(t, runs, style)
	if err != nil {
		panic(err)
	}
	return b
}

// NewHeading builds a heading block of the given level (1..9).
func NewHeading(level int, runs []TextRun, style *TextStyle) (Block, error) {
	t, ok := HeadingType(level)
	if !ok {
		return Block{}, fmt.Errorf("%w: heading level %d", ErrUnknownType, level)
	}
	return NewBlock(t, runs, style)
}

// NewDivider builds a divider block.
func NewDivider() Block {
	return Block{BlockType: TypeDivider}
}

// NewCallout builds a callout container holding a single text run.
func NewCallout(content string, backgroundColor, borderColor int, emojiID string) Block {
	return Block{
		BlockType: TypeCallout,
		Payload: &Callout{
			BackgroundColor: backgroundColor,
			BorderColor:     borderColor,
			EmojiID:         emojiID,
			Elements:        Elements(Run(content)),
		},
	}
}

// NewCodeBlock builds a code block.
func NewCodeBlock(content string, language int, wrap bool) Block {
	return Block{
		BlockType: TypeCode,
		Payload: &Text{
			Style: &TextStyle{
				Language: language,
				Wrap:     &wrap,
			},
			Elements: Elements(Run(content)),
		},
	}
}

// NewIframe builds an iframe block embedding url.
func NewIframe(url string, iframeType int) Block {
	return Block{
		BlockType: TypeIframe,
		Payload: &Iframe{
			Component: IframeComponent{
				IframeType: iframeType,
				URL:        url,
			},
		},
	}
}

// NewQuoteContainer builds a quote container that owns the given child ids.
func NewQuoteContainer(children []string) Block {
	if children == nil {
		children = []string{}
	}
	return Block{
		BlockType: TypeQuoteContainer,
		Children:  children,
	}
}
