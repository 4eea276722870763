package block

import "strings"

// BlockMap indexes fetched blocks by id.
type BlockMap map[string]Block

// NewBlockMap builds a map from a flat block listing. Later duplicates win.
func NewBlockMap(blocks []Block) BlockMap {
	m := make(BlockMap, len(blocks))
	for _, b := range blocks {
		m[b.BlockID] = b
	}
	return m
}

// Resolve returns the blocks for ids, skipping ids that are not in the map.
func (m BlockMap) Resolve(ids []string) []Block {
	out := make([]Block, 0, len(ids))
	for _, id := range ids {
		if b, ok := m[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Roots returns the blocks without a parent (normally the single page block).
// If every block has a parent the first block is used.
func Roots(blocks []Block) []Block {
	var roots []Block
	for _, b := range blocks {
		if b.ParentID == "" {
			roots = append(roots, b)
		}
	}
	if len(roots) == 0 && len(blocks) > 0 {
		roots = blocks[:1]
	}
	return roots
}

// FindBlock walks roots depth-first in pre-order and returns the id of the
// first block whose discriminant equals typeCode and which has a text run
// containing target. Only text and heading payloads are inspected.
func FindBlock(roots []Block, target string, typeCode int, m BlockMap) (string, bool) {
	for _, b := range roots {
		if b.BlockType.Discriminant() == typeCode && matchesContent(b, target) {
			return b.BlockID, true
		}
		if len(b.Children) > 0 {
			if id, ok := FindBlock(m.Resolve(b.Children), target, typeCode, m); ok {
				return id, true
			}
		}
	}
	return "", false
}

func matchesContent(b Block, target string) bool {
	if b.BlockType != TypeText && !b.BlockType.IsHeading() {
		return false
	}
	t := b.Text()
	if t == nil {
		return false
	}
	for _, el := range t.Elements {
		if el.TextRun != nil && strings.Contains(el.TextRun.Content, target) {
			return true
		}
	}
	return false
}

// Walk visits blocks in pre-order with their depth. Returning false from fn
// skips the block's children. Visited ids are tracked so malformed trees with
// cycles terminate.
func Walk(roots []Block, m BlockMap, fn func(b Block, depth int) bool) {
	seen := make(map[string]bool)
	var walk func(blocks []Block, depth int)
	walk = func(blocks []Block, depth int) {
		for _, b := range blocks {
			if b.BlockID != "" {
				if seen[b.BlockID] {
					continue
				}
				seen[b.BlockID] = true
			}
			if fn(b, depth) && len(b.Children) > 0 {
				walk(m.Resolve(b.Children), depth+1)
			}
		}
	}
	walk(roots, 0)
}
