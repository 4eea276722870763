package placement

import (
	"context"
	"errors"
	"fmt"
)

// ErrAnchorUnresolved means the anchor's position among its siblings could
// not be determined.
var ErrAnchorUnresolved = errors.New("placement: anchor unresolved")

// Position locates a block among its parent's children.
type Position struct {
	ParentID string
	Index    int
}

// resolve finds the parent of anchorID and the anchor's index among the
// parent's children.
func (p *Placer) resolve(ctx context.Context, documentID, anchorID string) (Position, error) {
	anchor, err := p.client.GetBlock(ctx, documentID, anchorID)
	if err != nil {
		return Position{}, fmt.Errorf("%w: get anchor %s: %v", ErrAnchorUnresolved, anchorID, err)
	}
	if anchor == nil || anchor.ParentID == "" {
		return Position{}, fmt.Errorf("%w: anchor %s has no parent", ErrAnchorUnresolved, anchorID)
	}

	siblings, err := p.client.GetChildren(ctx, documentID, anchor.ParentID)
	if err != nil {
		return Position{}, fmt.Errorf("%w: get children of %s: %v", ErrAnchorUnresolved, anchor.ParentID, err)
	}

	for i, b := range siblings {
		if b.BlockID == anchorID {
			return Position{ParentID: anchor.ParentID, Index: i}, nil
		}
	}
	return Position{}, fmt.Errorf("%w: anchor %s not among children of %s", ErrAnchorUnresolved, anchorID, anchor.ParentID)
}
