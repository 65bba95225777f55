// Package scrape resolves external references (arXiv ids, titles)
// into record field mappings ready for record construction.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScraper is returned when a registry lookup names no
// registered scraper.
var ErrUnknownScraper = errors.New("unknown scraper")

// Scraper turns one reference string into the fields of a new record.
// The returned mapping is raw input for record construction: it is
// sanitized and validated there, not here.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, ref string) (recordType string, fields map[string]string, err error)
}

// Registry holds the available scrapers keyed by name.
type Registry struct {
	scrapers map[string]Scraper
}

// NewRegistry builds a registry from the given scrapers. A later
// scraper with a repeated name replaces the earlier one.
func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{scrapers: make(map[string]Scraper, len(scrapers))}
	for _, s := range scrapers {
		r.scrapers[s.Name()] = s
	}
	return r
}

// Lookup returns the scraper registered under name.
func (r *Registry) Lookup(name string) (Scraper, error) {
	s, ok := r.scrapers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScraper, name)
	}
	return s, nil
}

// Names returns the registered scraper names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
