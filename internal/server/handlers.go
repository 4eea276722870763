package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/digest"
	"github.com/roboco-io/larkdocx/internal/locate"
	"github.com/roboco-io/larkdocx/internal/logger"
	"github.com/roboco-io/larkdocx/internal/placement"
)

// ClientFactory returns a document client for the given app credentials.
// Empty credentials select the configured defaults.
type ClientFactory func(appID, appSecret string) (placement.DocumentClient, error)

// DocHandler serves the document endpoints.
type DocHandler struct {
	log       *logger.Logger
	clients   ClientFactory
	digests   *digest.Registry
	placeOpts placement.Options
}

// NewDocHandler creates a DocHandler.
func NewDocHandler(log *logger.Logger, clients ClientFactory, digests *digest.Registry, opts placement.Options) *DocHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &DocHandler{
		log:       log.With("handler", "DocHandler"),
		clients:   clients,
		digests:   digests,
		placeOpts: opts,
	}
}

// UpdateRequest is the body of POST /update_feishu_xiaobao.
type UpdateRequest struct {
	AppID         string          `json:"feishu_app_id"`
	AppSecret     string          `json:"feishu_app_secret"`
	DocID         string          `json:"doc_id" binding:"required"`
	TargetBlockID string          `json:"target_block_id" binding:"required"`
	DateStr       string          `json:"date_str"`
	ContentData   json.RawMessage `json:"content_data" binding:"required"`
	Format        string          `json:"format"`
}

// UpdateResponse reports the placement outcome.
type UpdateResponse struct {
	Status string `json:"status"`
	Result bool   `json:"result"`
}

// Update parses the digest and places it after the target block.
func (h *DocHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	items, err := h.parseContent(req.ContentData, req.Format)
	if err != nil {
		code := "invalid_content"
		if errors.Is(err, digest.ErrUnknownFormat) {
			code = "unknown_format"
		}
		RespondError(c, http.StatusBadRequest, code, err)
		return
	}

	client, err := h.clients(req.AppID, req.AppSecret)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_credentials", err)
		return
	}

	p := placement.New(client, h.log, h.placeOpts)
	ok := p.Place(c.Request.Context(), placement.Request{
		DocumentID:    req.DocID,
		AnchorBlockID: req.TargetBlockID,
		Heading:       req.DateStr,
		Items:         items,
	})

	status := "success"
	if !ok {
		status = "failed"
	}
	RespondOK(c, UpdateResponse{Status: status, Result: ok})
}

// parseContent accepts digest text in a JSON string, or items given inline
// as a JSON array or object.
func (h *DocHandler) parseContent(raw json.RawMessage, format string) ([]block.ContentItem, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return h.digests.Parse("json", string(raw))
	}
	return h.digests.Parse(format, text)
}

// FindRequest is the body of POST /find_block.
type FindRequest struct {
	AppID         string    `json:"feishu_app_id"`
	AppSecret     string    `json:"feishu_app_secret"`
	DocID         string    `json:"doc_id" binding:"required"`
	TargetContent string    `json:"target_content" binding:"required"`
	TargetType    typeParam `json:"target_type"`
}

// FindResponse carries the located block.
type FindResponse struct {
	BlockID string `json:"block_id"`
	Found   bool   `json:"found"`
}

// Find locates the first block of the requested type containing the text.
func (h *DocHandler) Find(c *gin.Context) {
	var req FindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	t := block.BlockType(req.TargetType)
	if t == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("target_type required"))
		return
	}

	client, err := h.clients(req.AppID, req.AppSecret)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_credentials", err)
		return
	}

	id, found, err := locate.New(client, h.log).Find(c.Request.Context(), req.DocID, req.TargetContent, t)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "upstream_error", err)
		return
	}
	RespondOK(c, FindResponse{BlockID: id, Found: found})
}

// Health answers liveness checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// typeParam accepts a block type as a discriminant number or a key string.
type typeParam block.BlockType

func (p *typeParam) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = typeParam(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("target_type must be a number or a block type key")
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		*p = typeParam(n)
		return nil
	}
	t, ok := block.ParseType(s)
	if !ok {
		return fmt.Errorf("unknown block type %q", s)
	}
	*p = typeParam(t)
	return nil
}
