package block

import "testing"

func heading1(id, parent, content string, children ...string) Block {
	b := MustBlock(TypeHeading1, []TextRun{Run(content)}, nil)
	b.BlockID = id
	b.ParentID = parent
	b.Children = children
	return b
}

func textBlock(t BlockType, id, parent, content string, children ...string) Block {
	b := MustBlock(t, []TextRun{Run(content)}, nil)
	b.BlockID = id
	b.ParentID = parent
	b.Children = children
	return b
}

func sampleDocument() []Block {
	return []Block{
		{BlockID: "page", BlockType: TypePage, Children: []string{"intro", "digest", "tail"}},
		textBlock(TypeText, "intro", "page", "欢迎阅读"),
		{BlockID: "digest", ParentID: "page", BlockType: TypeCallout, Payload: &Callout{}, Children: []string{"h", "b"}},
		heading1("h", "digest", "2024 每日推荐 合集"),
		textBlock(TypeBullet, "b", "digest", "每日推荐 in a bullet"),
		heading1("tail", "page", "其他"),
	}
}

func TestFindBlock_Match(t *testing.T) {
	blocks := sampleDocument()
	m := NewBlockMap(blocks)

	id, ok := FindBlock(Roots(blocks), "每日推荐", TypeHeading1.Discriminant(), m)
	if !ok {
		t.Fatal("expected a match")
	}
	if id != "h" {
		t.Errorf("expected block 'h', got %q", id)
	}
}

func TestFindBlock_Miss(t *testing.T) {
	blocks := sampleDocument()
	m := NewBlockMap(blocks)

	if id, ok := FindBlock(Roots(blocks), "不存在", TypeHeading1.Discriminant(), m); ok {
		t.Errorf("expected not found, got %q", id)
	}
}

func TestFindBlock_TypeMustMatch(t *testing.T) {
	blocks := sampleDocument()
	m := NewBlockMap(blocks)

	// The bullet contains the text but bullets are not content-matched.
	if id, ok := FindBlock(Roots(blocks), "in a bullet", TypeBullet.Discriminant(), m); ok {
		t.Errorf("expected bullets to be skipped, got %q", id)
	}

	id, ok := FindBlock(Roots(blocks), "欢迎", TypeText.Discriminant(), m)
	if !ok || id != "intro" {
		t.Errorf("expected 'intro', got %q, %v", id, ok)
	}
}

func TestFindBlock_CaseSensitive(t *testing.T) {
	blocks := []Block{heading1("h", "", "Weekly Digest")}
	m := NewBlockMap(blocks)

	if _, ok := FindBlock(blocks, "weekly", TypeHeading1.Discriminant(), m); ok {
		t.Error("expected case-sensitive match")
	}
	if _, ok := FindBlock(blocks, "Weekly", TypeHeading1.Discriminant(), m); !ok {
		t.Error("expected literal substring match")
	}
}

func TestFindBlock_PreOrderFirstHit(t *testing.T) {
	blocks := []Block{
		{BlockID: "page", BlockType: TypePage, Children: []string{"a", "b"}},
		heading1("a", "page", "outer", "a1"),
		heading1("a1", "a", "target deep"),
		heading1("b", "page", "target shallow"),
	}
	m := NewBlockMap(blocks)

	id, ok := FindBlock(Roots(blocks), "target", TypeHeading1.Discriminant(), m)
	if !ok || id != "a1" {
		t.Errorf("expected pre-order hit 'a1', got %q, %v", id, ok)
	}
}

func TestFindBlock_MissingChildIgnored(t *testing.T) {
	blocks := []Block{
		{BlockID: "page", BlockType: TypePage, Children: []string{"ghost", "h"}},
		heading1("h", "page", "每日推荐"),
	}
	m := NewBlockMap(blocks)

	id, ok := FindBlock(Roots(blocks), "每日推荐", TypeHeading1.Discriminant(), m)
	if !ok || id != "h" {
		t.Errorf("expected 'h', got %q, %v", id, ok)
	}
}

func TestRoots(t *testing.T) {
	blocks := sampleDocument()
	roots := Roots(blocks)
	if len(roots) != 1 || roots[0].BlockID != "page" {
		t.Errorf("expected page root, got %v", roots)
	}

	orphaned := blocks[1:]
	roots = Roots(orphaned)
	if len(roots) != 1 || roots[0].BlockID != "intro" {
		t.Errorf("expected fallback to first block, got %v", roots)
	}

	if roots := Roots(nil); len(roots) != 0 {
		t.Errorf("expected no roots, got %v", roots)
	}
}

func TestWalk_Depths(t *testing.T) {
	blocks := sampleDocument()
	m := NewBlockMap(blocks)

	depths := make(map[string]int)
	Walk(Roots(blocks), m, func(b Block, depth int) bool {
		depths[b.BlockID] = depth
		return true
	})

	want := map[string]int{"page": 0, "intro": 1, "digest": 1, "h": 2, "b": 2, "tail": 1}
	for id, d := range want {
		if depths[id] != d {
			t.Errorf("expected %s at depth %d, got %d", id, d, depths[id])
		}
	}
}

func TestWalk_Cycle(t *testing.T) {
	blocks := []Block{
		{BlockID: "a", BlockType: TypePage, Children: []string{"b"}},
		{BlockID: "b", ParentID: "a", BlockType: TypeGrid, Children: []string{"a"}},
	}
	visits := 0
	Walk(blocks[:1], NewBlockMap(blocks), func(Block, int) bool {
		visits++
		return true
	})
	if visits != 2 {
		t.Errorf("expected 2 visits, got %d", visits)
	}
}
