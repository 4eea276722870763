// Package placement inserts digest callouts and a dated heading after an
// anchor block of a remote document.
package placement

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/logger"
)

const (
	// DefaultMaxItems caps the callouts created per request.
	DefaultMaxItems = 3
	// DefaultItemDelay spaces consecutive items to stay under rate limits.
	DefaultItemDelay = 500 * time.Millisecond
)

// DocumentClient is the subset of the remote API the placer needs.
type DocumentClient interface {
	GetBlock(ctx context.Context, documentID, blockID string) (*block.Block, error)
	GetChildren(ctx context.Context, documentID, blockID string) ([]block.Block, error)
	CreateBlock(ctx context.Context, documentID, parentID string, children []block.Block, index int) ([]block.Block, error)
	CreateDescendants(ctx context.Context, documentID, parentID string, childrenIDs []string, descendants []block.Block, index, revision int) error
	ListBlocks(ctx context.Context, documentID string) ([]block.Block, error)
	DeleteChildren(ctx context.Context, documentID, blockID string, start, end int) error
}

// Options tunes a Placer. Zero values select the defaults.
type Options struct {
	MaxItems     int
	ItemDelay    time.Duration
	Palette      Palette
	HeadingAlign int
	Rand         *rand.Rand
	Compiler     block.Compiler
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		MaxItems:     DefaultMaxItems,
		ItemDelay:    DefaultItemDelay,
		Palette:      DefaultPalette(),
		HeadingAlign: block.AlignCenter,
		Compiler:     block.DefaultCompiler(),
	}
}

// Request describes one placement.
type Request struct {
	DocumentID    string
	AnchorBlockID string
	Heading       string
	Items         []block.ContentItem
}

// Placer runs placement requests against a DocumentClient.
type Placer struct {
	client DocumentClient
	log    *logger.Logger
	opts   Options

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a Placer.
func New(client DocumentClient, log *logger.Logger, opts Options) *Placer {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.ItemDelay < 0 {
		opts.ItemDelay = 0
	}
	if opts.HeadingAlign < block.AlignLeft || opts.HeadingAlign > block.AlignRight {
		opts.HeadingAlign = block.AlignCenter
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Placer{
		client: client,
		log:    log.With("component", "Placer"),
		opts:   opts,
		rng:    rng,
	}
}

// Place inserts one callout per item (at most MaxItems) directly after the
// anchor, then a heading in the same slot so that it ends up above them.
// It reports whether the anchor was resolved and the heading was created;
// failures of individual items are logged and skipped.
func (p *Placer) Place(ctx context.Context, req Request) bool {
	log := p.log.With("document_id", req.DocumentID, "anchor", req.AnchorBlockID)

	pos, err := p.resolve(ctx, req.DocumentID, req.AnchorBlockID)
	if err != nil {
		log.Error("Resolve anchor failed", "error", err.Error())
		return false
	}
	insertAt := pos.Index + 1

	items := req.Items
	if len(items) > p.opts.MaxItems {
		log.Info("Dropping items over the limit", "items", len(items), "max_items", p.opts.MaxItems)
		items = items[:p.opts.MaxItems]
	}

	for i, item := range items {
		p.placeItem(ctx, log.With("item", i, "title", item.Title), req.DocumentID, pos.ParentID, insertAt, item)

		if err := sleepCtx(ctx, p.opts.ItemDelay); err != nil {
			log.Warn("Placement canceled", "error", err.Error())
			return false
		}
	}

	heading, err := block.NewHeading(2, []block.TextRun{block.Run(req.Heading)}, &block.TextStyle{
		Align:  p.opts.HeadingAlign,
		Folded: boolPtr(false),
	})
	if err != nil {
		log.Error("Build heading failed", "error", err.Error())
		return false
	}
	if _, err := p.client.CreateBlock(ctx, req.DocumentID, pos.ParentID, []block.Block{heading}, insertAt); err != nil {
		log.Error("Create heading failed", "error", err.Error())
		return false
	}

	log.Info("Placement complete", "items", len(items))
	return true
}

// placeItem creates a callout at index and fills it with the compiled item.
func (p *Placer) placeItem(ctx context.Context, log *logger.Logger, documentID, parentID string, index int, item block.ContentItem) {
	bg, border, emoji := p.pick()
	callout := block.NewCallout(" ", bg, border, emoji)

	created, err := p.client.CreateBlock(ctx, documentID, parentID, []block.Block{callout}, index)
	if err != nil {
		log.Warn("Create callout failed", "error", err.Error())
		return
	}
	if len(created) == 0 || created[0].BlockID == "" {
		log.Warn("Create callout returned no block")
		return
	}
	calloutID := created[0].BlockID

	ids, descendants := p.opts.Compiler.Compile(item)
	if err := p.client.CreateDescendants(ctx, documentID, calloutID, ids, descendants, 0, -1); err != nil {
		// The empty callout is left in place.
		log.Warn("Fill callout failed", "callout_id", calloutID, "error", err.Error())
		return
	}
	p.dropFiller(ctx, log, documentID, calloutID, len(ids))
	log.Debug("Item placed", "callout_id", calloutID, "blocks", len(descendants))
}

// dropFiller removes the empty text block the API adds to every new callout.
// After the fill it sits right behind the inserted children. Failures only
// leave a blank line, so they are logged and ignored.
func (p *Placer) dropFiller(ctx context.Context, log *logger.Logger, documentID, calloutID string, filled int) {
	children, err := p.client.GetChildren(ctx, documentID, calloutID)
	if err != nil {
		log.Warn("List callout children failed", "callout_id", calloutID, "error", err.Error())
		return
	}
	if len(children) <= filled || !isBlankText(children[filled]) {
		return
	}
	if err := p.client.DeleteChildren(ctx, documentID, calloutID, filled, filled+1); err != nil {
		log.Warn("Delete callout filler failed", "callout_id", calloutID, "error", err.Error())
	}
}

func isBlankText(b block.Block) bool {
	if b.BlockType != block.TypeText {
		return false
	}
	t := b.Text()
	return t == nil || strings.TrimSpace(t.PlainText()) == ""
}

func (p *Placer) pick() (int, int, string) {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.opts.Palette.Pick(p.rng)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func boolPtr(v bool) *bool { return &v }
