// Package locate finds blocks in a remote document by type and text.
package locate

import (
	"context"
	"fmt"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/logger"
)

// BlockLister lists every block of a document.
type BlockLister interface {
	ListBlocks(ctx context.Context, documentID string) ([]block.Block, error)
}

// Locator searches a document's block tree.
type Locator struct {
	client BlockLister
	log    *logger.Logger
}

// New creates a Locator.
func New(client BlockLister, log *logger.Logger) *Locator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Locator{client: client, log: log.With("component", "Locator")}
}

// Find returns the id of the first block of type t whose text contains
// target, in document order. A miss is ("", false, nil).
func (l *Locator) Find(ctx context.Context, documentID, target string, t block.BlockType) (string, bool, error) {
	m, roots, err := l.Tree(ctx, documentID)
	if err != nil {
		return "", false, err
	}

	id, ok := block.FindBlock(roots, target, t.Discriminant(), m)
	l.log.Debug("Block search finished",
		"document_id", documentID,
		"type", t.Key(),
		"found", ok,
		"block_id", id,
	)
	return id, ok, nil
}

// Tree fetches the document and returns its blocks indexed by id with the
// root blocks.
func (l *Locator) Tree(ctx context.Context, documentID string) (block.BlockMap, []block.Block, error) {
	blocks, err := l.client.ListBlocks(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("list blocks of %s: %w", documentID, err)
	}
	return block.NewBlockMap(blocks), block.Roots(blocks), nil
}
