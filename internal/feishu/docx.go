package feishu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/roboco-io/larkdocx/internal/block"
)

// listPageSize is the largest page the blocks endpoints accept.
const listPageSize = 500

// LatestRevision targets the newest document revision.
const LatestRevision = -1

// Document is the metadata of a docx document.
type Document struct {
	DocumentID string `json:"document_id"`
	RevisionID int    `json:"revision_id"`
	Title      string `json:"title"`
}

type blockPage struct {
	Items     []block.Block `json:"items"`
	PageToken string        `json:"page_token"`
	HasMore   bool          `json:"has_more"`
}

func docPath(documentID string, parts ...string) string {
	p := "/docx/v1/documents/" + url.PathEscape(documentID)
	for _, s := range parts {
		p += "/" + url.PathEscape(s)
	}
	return p
}

func revisionQuery(revision int) url.Values {
	q := url.Values{}
	q.Set("document_revision_id", strconv.Itoa(revision))
	return q
}

// GetRawContent returns the plain text of a document.
func (c *Client) GetRawContent(ctx context.Context, documentID string) (string, error) {
	var data struct {
		Content string `json:"content"`
	}
	if err := c.call(ctx, "get raw content", http.MethodGet, docPath(documentID, "raw_content"), nil, nil, &data); err != nil {
		return "", err
	}
	return data.Content, nil
}

// CreateDocument creates an empty document, in folderToken when set.
func (c *Client) CreateDocument(ctx context.Context, title, folderToken string) (*Document, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	if folderToken != "" {
		body["folder_token"] = folderToken
	}

	var data struct {
		Document Document `json:"document"`
	}
	if err := c.call(ctx, "create document", http.MethodPost, "/docx/v1/documents", nil, body, &data); err != nil {
		return nil, err
	}
	return &data.Document, nil
}

// GetDocument returns document metadata.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var data struct {
		Document Document `json:"document"`
	}
	if err := c.call(ctx, "get document", http.MethodGet, docPath(documentID), nil, nil, &data); err != nil {
		return nil, err
	}
	return &data.Document, nil
}

// ListBlocks returns every block of the document, following pagination.
func (c *Client) ListBlocks(ctx context.Context, documentID string) ([]block.Block, error) {
	return c.paginate(ctx, "list blocks", docPath(documentID, "blocks"))
}

// GetBlock returns a single block.
func (c *Client) GetBlock(ctx context.Context, documentID, blockID string) (*block.Block, error) {
	var data struct {
		Block block.Block `json:"block"`
	}
	if err := c.call(ctx, "get block", http.MethodGet, docPath(documentID, "blocks", blockID), nil, nil, &data); err != nil {
		return nil, err
	}
	return &data.Block, nil
}

// GetChildren returns the direct children of a block in document order.
func (c *Client) GetChildren(ctx context.Context, documentID, blockID string) ([]block.Block, error) {
	return c.paginate(ctx, "get children", docPath(documentID, "blocks", blockID, "children"))
}

func (c *Client) paginate(ctx context.Context, op, path string) ([]block.Block, error) {
	var out []block.Block
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("page_size", strconv.Itoa(listPageSize))
		q.Set("document_revision_id", strconv.Itoa(LatestRevision))
		if pageToken != "" {
			q.Set("page_token", pageToken)
		}

		var page blockPage
		if err := c.call(ctx, op, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			return out, nil
		}
		pageToken = page.PageToken
	}
}

// CreateBlock inserts children under parentID at index and returns the
// created blocks with their ids.
func (c *Client) CreateBlock(ctx context.Context, documentID, parentID string, children []block.Block, index int) ([]block.Block, error) {
	q := revisionQuery(LatestRevision)
	q.Set("client_token", uuid.NewString())

	body := struct {
		Children []block.Block `json:"children"`
		Index    int           `json:"index"`
	}{Children: children, Index: index}

	var data struct {
		Children []block.Block `json:"children"`
	}
	if err := c.call(ctx, "create block", http.MethodPost, docPath(documentID, "blocks", parentID, "children"), q, body, &data); err != nil {
		return nil, err
	}
	return data.Children, nil
}

// CreateDescendants inserts a nested tree under parentID in one call.
// childrenIDs names the direct children; descendants holds every block of
// the tree keyed by temporary block_id.
func (c *Client) CreateDescendants(ctx context.Context, documentID, parentID string, childrenIDs []string, descendants []block.Block, index, revision int) error {
	q := revisionQuery(revision)
	q.Set("client_token", uuid.NewString())

	body := struct {
		ChildrenID  []string      `json:"children_id"`
		Index       int           `json:"index"`
		Descendants []block.Block `json:"descendants"`
	}{ChildrenID: childrenIDs, Index: index, Descendants: descendants}

	var data struct {
		Children []block.Block `json:"children"`
	}
	return c.call(ctx, "create descendants", http.MethodPost, docPath(documentID, "blocks", parentID, "descendant"), q, body, &data)
}

// UpdateBlock applies one update to blockID.
func (c *Client) UpdateBlock(ctx context.Context, documentID, blockID string, req block.UpdateRequest) (*block.Block, error) {
	req.BlockID = ""

	var data struct {
		Block block.Block `json:"block"`
	}
	if err := c.call(ctx, "update block", http.MethodPatch, docPath(documentID, "blocks", blockID), revisionQuery(LatestRevision), req, &data); err != nil {
		return nil, err
	}
	return &data.Block, nil
}

// DeleteChildren removes the children of blockID in [start, end).
func (c *Client) DeleteChildren(ctx context.Context, documentID, blockID string, start, end int) error {
	if start < 0 || end <= start {
		return fmt.Errorf("delete children: invalid range [%d, %d)", start, end)
	}
	q := revisionQuery(LatestRevision)
	q.Set("client_token", uuid.NewString())

	body := struct {
		StartIndex int `json:"start_index"`
		EndIndex   int `json:"end_index"`
	}{StartIndex: start, EndIndex: end}

	var data struct{}
	return c.call(ctx, "delete children", http.MethodDelete, docPath(documentID, "blocks", blockID, "children", "batch_delete"), q, body, &data)
}

// BatchUpdate applies several updates in one call and returns the updated
// blocks.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, requests []block.UpdateRequest) ([]block.Block, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	q := revisionQuery(LatestRevision)
	q.Set("client_token", uuid.NewString())

	body := struct {
		Requests []block.UpdateRequest `json:"requests"`
	}{Requests: requests}

	var data struct {
		Blocks []block.Block `json:"blocks"`
	}
	if err := c.call(ctx, "batch update", http.MethodPatch, docPath(documentID, "blocks", "batch_update"), q, body, &data); err != nil {
		return nil, err
	}
	return data.Blocks, nil
}
