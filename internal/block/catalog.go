// Package block defines the docx block model: the block type catalog, the wire
// representation of blocks and text runs, builders for common blocks, the content
// compiler used for digest callouts, and tree search over fetched documents.
package block

import (
	"fmt"
	"strconv"
	"strings"
)

// BlockType identifies the kind of a docx block. Its integer value is the
// discriminant used by the remote API in the "block_type" field.
type BlockType int

const (
	TypePage              BlockType = 1
	TypeText              BlockType = 2
	TypeHeading1          BlockType = 3
	TypeHeading2          BlockType = 4
	TypeHeading3          BlockType = 5
	TypeHeading4          BlockType = 6
	TypeHeading5          BlockType = 7
	TypeHeading6          BlockType = 8
	TypeHeading7          BlockType = 9
	TypeHeading8          BlockType = 10
	TypeHeading9          BlockType = 11
	TypeBullet            BlockType = 12
	TypeOrdered           BlockType = 13
	TypeCode              BlockType = 14
	TypeQuote             BlockType = 15
	TypeTodo              BlockType = 17
	TypeBitable           BlockType = 18
	TypeCallout           BlockType = 19
	TypeChatCard          BlockType = 20
	TypeDiagram           BlockType = 21
	TypeDivider           BlockType = 22
	TypeFile              BlockType = 23
	TypeGrid              BlockType = 24
	TypeGridColumn        BlockType = 25
	TypeIframe            BlockType = 26
	TypeImage             BlockType = 27
	TypeISV               BlockType = 28
	TypeMindnote          BlockType = 29
	TypeSheet             BlockType = 30
	TypeTable             BlockType = 31
	TypeTableCell         BlockType = 32
	TypeView              BlockType = 33
	TypeUndefined         BlockType = 34
	TypeQuoteContainer    BlockType = 35
	TypeTask              BlockType = 36
	TypeOKR               BlockType = 37
	TypeOKRObjective      BlockType = 38
	TypeOKRKeyResult      BlockType = 39
	TypeOKRProgress       BlockType = 40
	TypeAddOns            BlockType = 41
	TypeJiraIssue         BlockType = 42
	TypeWikiCatalog       BlockType = 43
	TypeBoard             BlockType = 44
	TypeAgenda            BlockType = 45
	TypeAgendaItem        BlockType = 46
	TypeAgendaItemTitle   BlockType = 47
	TypeAgendaItemContent BlockType = 48
	TypeLinkPreview       BlockType = 49
)

// catalog is the single source of truth for discriminant/key pairs.
var catalog = []struct {
	t   BlockType
	key string
}{
	{TypePage, "page"},
	{TypeText, "text"},
	{TypeHeading1, "heading1"},
	{TypeHeading2, "heading2"},
	{TypeHeading3, "heading3"},
	{TypeHeading4, "heading4"},
	{TypeHeading5, "heading5"},
	{TypeHeading6, "heading6"},
	{TypeHeading7, "heading7"},
	{TypeHeading8, "heading8"},
	{TypeHeading9, "heading9"},
	{TypeBullet, "bullet"},
	{TypeOrdered, "ordered"},
	{TypeCode, "code"},
	{TypeQuote, "quote"},
	{TypeTodo, "todo"},
	{TypeBitable, "bitable"},
	{TypeCallout, "callout"},
	{TypeChatCard, "chat_card"},
	{TypeDiagram, "diagram"},
	{TypeDivider, "divider"},
	{TypeFile, "file"},
	{TypeGrid, "grid"},
	{TypeGridColumn, "grid_column"},
	{TypeIframe, "iframe"},
	{TypeImage, "image"},
	{TypeISV, "isv"},
	{TypeMindnote, "mindnote"},
	{TypeSheet, "sheet"},
	{TypeTable, "table"},
	{TypeTableCell, "table_cell"},
	{TypeView, "view"},
	{TypeUndefined, "undefined"},
	{TypeQuoteContainer, "quote_container"},
	{TypeTask, "task"},
	{TypeOKR, "okr"},
	{TypeOKRObjective, "okr_objective"},
	{TypeOKRKeyResult, "okr_key_result"},
	{TypeOKRProgress, "okr_progress"},
	{TypeAddOns, "add_ons"},
	{TypeJiraIssue, "jira_issue"},
	{TypeWikiCatalog, "wiki_catalog"},
	{TypeBoard, "board"},
	{TypeAgenda, "agenda"},
	{TypeAgendaItem, "agenda_item"},
	{TypeAgendaItemTitle, "agenda_item_title"},
	{TypeAgendaItemContent, "agenda_item_content"},
	{TypeLinkPreview, "link_preview"},
}

var (
	keyByType = make(map[BlockType]string, len(catalog))
	typeByKey = make(map[string]BlockType, len(catalog))
)

func init() {
	for _, e := range catalog {
		if _, dup := keyByType[e.t]; dup {
			panic(fmt.Sprintf("block: duplicate discriminant %d", e.t))
		}
		if _, dup := typeByKey[e.key]; dup {
			panic(fmt.Sprintf("block: duplicate key %q", e.key))
		}
		keyByType[e.t] = e.key
		typeByKey[e.key] = e.t
	}
}

// Discriminant returns the integer tag sent as "block_type".
func (t BlockType) Discriminant() int {
	return int(t)
}

// Key returns the payload key for the type, or "" if the type is not in the catalog.
func (t BlockType) Key() string {
	return keyByType[t]
}

// String returns the catalog key, or block_type(N) for unknown discriminants.
func (t BlockType) String() string {
	if k, ok := keyByType[t]; ok {
		return k
	}
	return fmt.Sprintf("block_type(%d)", int(t))
}

// Valid reports whether the type is part of the catalog.
func (t BlockType) Valid() bool {
	_, ok := keyByType[t]
	return ok
}

// IsHeading reports whether the type is one of heading1..heading9.
func (t BlockType) IsHeading() bool {
	return t >= TypeHeading1 && t <= TypeHeading9
}

// IsTextual reports whether the type carries a style+elements payload.
func (t BlockType) IsTextual() bool {
	switch t {
	case TypeText, TypeBullet, TypeOrdered, TypeCode, TypeQuote, TypeTodo:
		return true
	}
	return t.IsHeading()
}

// TypeForDiscriminant looks up a type by its integer tag.
func TypeForDiscriminant(n int) (BlockType, bool) {
	t := BlockType(n)
	if _, ok := keyByType[t]; !ok {
		return 0, false
	}
	return t, true
}

// TypeForKey looks up a type by its payload key.
func TypeForKey(key string) (BlockType, bool) {
	t, ok := typeByKey[key]
	return t, ok
}

// ParseType accepts either a catalog key ("heading1") or a decimal discriminant ("3").
func ParseType(s string) (BlockType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return TypeForDiscriminant(n)
	}
	return TypeForKey(s)
}

// HeadingType returns the heading type for level 1..9.
func HeadingType(level int) (BlockType, bool) {
	if level < 1 || level > 9 {
		return 0, false
	}
	return TypeHeading1 + BlockType(level-1), true
}

// Types returns every catalog entry in discriminant order.
func Types() []BlockType {
	out := make([]BlockType, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.t)
	}
	return out
}
