// Package digest turns digest text into content items ready for placement.
package digest

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/roboco-io/larkdocx/internal/block"
)

var (
	// ErrEmpty is returned when the input holds no content item.
	ErrEmpty = errors.New("digest: no content items found")
	// ErrUnknownFormat is returned for a format no parser is registered for.
	ErrUnknownFormat = errors.New("digest: unknown format")
)

// DefaultFormat is used when the caller names no format.
const DefaultFormat = "markdown"

// Parser converts digest text into content items.
type Parser interface {
	// Name returns the format identifier (e.g., "markdown", "json").
	Name() string

	// Parse extracts the items in input order.
	Parse(text string) ([]block.ContentItem, error)
}

// Registry manages parsers by format name.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]Parser),
	}
}

// NewDefaultRegistry returns a registry holding the markdown and json parsers.
func NewDefaultRegistry(linkLabel string) *Registry {
	r := NewRegistry()
	_ = r.Register(NewMarkdownParser(linkLabel))
	_ = r.Register(JSONParser{})
	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) error {
	if p == nil {
		return fmt.Errorf("cannot register nil parser")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("parser name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.parsers[name]; exists {
		return fmt.Errorf("parser already registered: %s", name)
	}

	r.parsers[name] = p
	return nil
}

// Get returns a parser by name.
func (r *Registry) Get(name string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return p, nil
}

// List returns all registered format names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse parses text with the parser for format, markdown when format is empty.
func (r *Registry) Parse(format, text string) ([]block.ContentItem, error) {
	if format == "" {
		format = DefaultFormat
	}
	p, err := r.Get(format)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}
