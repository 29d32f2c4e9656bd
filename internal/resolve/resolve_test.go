// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/mkweon/paperweb/pkg/types"
)

// mockSearcher records how often the title search was hit.
type mockSearcher struct {
	calls int
	match *types.TitleMatch
	err   error
}

func (m *mockSearcher) SearchByTitle(_ context.Context, _ string) (*types.TitleMatch, error) {
	m.calls++
	return m.match, m.err
}

func TestResolveArxivWinsUnconditionally(t *testing.T) {
	// A reference carrying an identifier must never trigger the title
	// search, even when the title is set and would not match.
	search := &mockSearcher{match: &types.TitleMatch{ExternalID: "should-not-be-used"}}
	r := NewResolver(search)

	key, err := r.Resolve(context.Background(), types.PaperReference{
		Title:   "A Completely Different Title",
		ArxivID: "2506.10347",
		DOI:     "10.1000/xyz123",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key != "ArXiv:2506.10347" {
		t.Errorf("key = %q, want %q", key, "ArXiv:2506.10347")
	}
	if search.calls != 0 {
		t.Errorf("title search called %d times, want 0", search.calls)
	}
}

func TestResolvePriorityOrder(t *testing.T) {
	search := &mockSearcher{match: &types.TitleMatch{ExternalID: "opaque-id-123"}}
	r := NewResolver(search)

	tests := []struct {
		name string
		ref  types.PaperReference
		want types.LookupKey
	}{
		{
			"all three set, arxiv wins",
			types.PaperReference{Title: "T", ArxivID: "2301.07041", DOI: "10.1000/xyz123"},
			"ArXiv:2301.07041",
		},
		{
			"doi and title, doi wins",
			types.PaperReference{Title: "T", DOI: "10.1000/xyz123"},
			"DOI:10.1000/xyz123",
		},
		{
			"title only, opaque id from search",
			types.PaperReference{Title: "T"},
			"opaque-id-123",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := r.Resolve(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if key != tt.want {
				t.Errorf("key = %q, want %q", key, tt.want)
			}
		})
	}
}

func TestResolveNormalizesIdentifiers(t *testing.T) {
	r := NewResolver(&mockSearcher{})

	key, err := r.Resolve(context.Background(), types.PaperReference{ArxivID: "arXiv:2301.07041"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key != "ArXiv:2301.07041" {
		t.Errorf("key = %q, want prefix stripped", key)
	}

	key, err = r.Resolve(context.Background(), types.PaperReference{DOI: "https://doi.org/10.1000/xyz123"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if key != "DOI:10.1000/xyz123" {
		t.Errorf("key = %q, want resolver-stripped DOI", key)
	}
}

func TestResolveNoCandidates(t *testing.T) {
	r := NewResolver(&mockSearcher{match: nil})

	_, err := r.Resolve(context.Background(), types.PaperReference{Title: "Some Paper"})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveEmptyReference(t *testing.T) {
	search := &mockSearcher{}
	r := NewResolver(search)

	_, err := r.Resolve(context.Background(), types.PaperReference{})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
	if search.calls != 0 {
		t.Errorf("title search called %d times for empty reference, want 0", search.calls)
	}
}

func TestResolveSearchErrorPropagates(t *testing.T) {
	r := NewResolver(&mockSearcher{err: types.ErrRateLimited})

	_, err := r.Resolve(context.Background(), types.PaperReference{Title: "Some Paper"})
	if !errors.Is(err, types.ErrRateLimited) {
		t.Errorf("Resolve() error = %v, want ErrRateLimited", err)
	}
}
