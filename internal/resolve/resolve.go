// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns a heterogeneous paper reference into a canonical
// upstream lookup key.
package resolve

import (
	"context"
	"fmt"

	"github.com/mkweon/paperweb/pkg/types"
)

// TitleSearcher is the upstream title-search dependency. It returns the top
// match for a title, or nil when the search has no candidates.
type TitleSearcher interface {
	SearchByTitle(ctx context.Context, title string) (*types.TitleMatch, error)
}

// Resolver normalizes paper references into lookup keys. The priority rule
// is fixed: arXiv id, then DOI, then a title search against the upstream.
// A reference carrying both an identifier and a title never triggers the
// title search; the identifier wins unconditionally so a rate-limited call
// is not wasted on a possibly imprecise title.
type Resolver struct {
	search TitleSearcher
}

// NewResolver returns a Resolver backed by the given title search.
func NewResolver(search TitleSearcher) *Resolver {
	return &Resolver{search: search}
}

// Resolve produces the canonical lookup key for ref.
//
// No fuzzy or partial matching happens here beyond what the upstream title
// search itself performs: when the search returns candidates, the top match
// is taken unconditionally. A reference with no identifier and no title
// match fails with types.ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, ref types.PaperReference) (types.LookupKey, error) {
	if ref.ArxivID != "" {
		id := ref.ArxivID
		if normalized, ok := NormalizeArxivID(id); ok {
			id = normalized
		}
		return types.ArxivKey(id), nil
	}

	if ref.DOI != "" {
		doi := ref.DOI
		if normalized, ok := NormalizeDOI(doi); ok {
			doi = normalized
		}
		return types.DOIKey(doi), nil
	}

	if ref.Title == "" {
		return "", fmt.Errorf("reference has no identifier and no title: %w", types.ErrNotFound)
	}

	match, err := r.search.SearchByTitle(ctx, ref.Title)
	if err != nil {
		return "", fmt.Errorf("title search %q: %w", ref.Title, err)
	}
	if match == nil || match.ExternalID == "" {
		return "", fmt.Errorf("no identifier or title match for %q: %w", ref.Title, types.ErrNotFound)
	}

	return types.OpaqueKey(match.ExternalID), nil
}
