package locate

import (
	"context"
	"errors"
	"testing"

	"github.com/roboco-io/larkdocx/internal/block"
)

type fakeLister struct {
	blocks []block.Block
	err    error
}

func (f fakeLister) ListBlocks(context.Context, string) ([]block.Block, error) {
	return f.blocks, f.err
}

func textBlock(id, parent string, t block.BlockType, content string) block.Block {
	return block.Block{
		BlockID:   id,
		ParentID:  parent,
		BlockType: t,
		Payload:   &block.Text{Elements: block.Elements(block.Run(content))},
	}
}

func sampleDoc() []block.Block {
	return []block.Block{
		{BlockID: "page", BlockType: block.TypePage, Children: []string{"h1", "p1", "h2"}},
		textBlock("h1", "page", block.TypeHeading1, "每日推荐"),
		textBlock("p1", "page", block.TypeText, "正文 每日推荐"),
		textBlock("h2", "page", block.TypeHeading2, "往期"),
	}
}

func TestLocator_Find(t *testing.T) {
	l := New(fakeLister{blocks: sampleDoc()}, nil)

	tests := []struct {
		name   string
		target string
		typ    block.BlockType
		wantID string
		wantOK bool
	}{
		{"heading match", "每日推荐", block.TypeHeading1, "h1", true},
		{"text match", "每日推荐", block.TypeText, "p1", true},
		{"type mismatch", "往期", block.TypeHeading1, "", false},
		{"miss", "不存在", block.TypeHeading1, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, ok, err := l.Find(context.Background(), "doc", tc.target, tc.typ)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if id != tc.wantID || ok != tc.wantOK {
				t.Errorf("Find(%q, %s) = (%q, %v), want (%q, %v)", tc.target, tc.typ, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}

func TestLocator_FindError(t *testing.T) {
	boom := errors.New("boom")
	l := New(fakeLister{err: boom}, nil)

	_, ok, err := l.Find(context.Background(), "doc", "x", block.TypeText)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
	if ok {
		t.Error("expected not found on error")
	}
}
