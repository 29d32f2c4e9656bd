// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// LookupKey is the canonical external identifier for a paper. It is used
// both as the cache key and as the upstream recommendation request key.
// Canonical forms: "ArXiv:<id>", "DOI:<doi>", or an upstream-assigned
// opaque paper id obtained from a title search.
type LookupKey string

// ArxivKey returns the canonical lookup key for an arXiv id.
func ArxivKey(id string) LookupKey { return LookupKey("ArXiv:" + id) }

// DOIKey returns the canonical lookup key for a DOI.
func DOIKey(doi string) LookupKey { return LookupKey("DOI:" + doi) }

// OpaqueKey returns a lookup key for an upstream-assigned paper id.
func OpaqueKey(id string) LookupKey { return LookupKey(id) }

// PaperReference is a heterogeneous reference to a paper: it may carry an
// arXiv id, a DOI, a bare title, or any combination. It is produced from a
// stored paper, a search result, or a prior recommendation, and is immutable
// once constructed. Year and CitationCount are zero when unknown.
type PaperReference struct {
	Title         string `json:"title"`
	Year          int    `json:"year,omitempty"`
	CitationCount int    `json:"citation_count,omitempty"`
	ArxivID       string `json:"arxiv_id,omitempty"`
	DOI           string `json:"doi,omitempty"`
}

// HasIdentifier reports whether the reference carries an arXiv id or DOI.
func (r PaperReference) HasIdentifier() bool {
	return r.ArxivID != "" || r.DOI != ""
}

// RecommendedPaper is one entry of the ranked related-paper list returned
// by the upstream recommendation service. The list order is the relevance
// ranking (index 0 = most relevant); this engine never re-sorts it.
// Year is zero when the upstream has no publication year on record.
type RecommendedPaper struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract,omitempty"`
	Year          int      `json:"year,omitempty"`
	URL           string   `json:"url,omitempty"`
	CitationCount int      `json:"citation_count"`
	ArxivID       string   `json:"arxiv_id,omitempty"`
	DOI           string   `json:"doi,omitempty"`
}

// Reference converts a recommendation into a new PaperReference so a
// connect action can be chained from it.
func (p RecommendedPaper) Reference() PaperReference {
	return PaperReference{
		Title:         p.Title,
		Year:          p.Year,
		CitationCount: p.CitationCount,
		ArxivID:       p.ArxivID,
		DOI:           p.DOI,
	}
}

// TitleMatch is the top candidate returned by the upstream title search.
// ExternalID is the upstream-assigned opaque paper id, usable directly as
// a LookupKey.
type TitleMatch struct {
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract,omitempty"`
	Year          int      `json:"year,omitempty"`
	CitationCount int      `json:"citation_count,omitempty"`
}

// Paper is a stored collection entry. ID is caller-assigned (typically the
// arXiv id or a DOI slug chosen when the paper was saved).
type Paper struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Authors       []string  `json:"authors" yaml:"authors"`
	Year          int       `json:"year,omitempty" yaml:"year,omitempty"`
	CitationCount int       `json:"citation_count" yaml:"citation_count"`
	ArxivID       string    `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	DOI           string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL           string    `json:"url,omitempty" yaml:"url,omitempty"`
	Abstract      string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	AddedAt       time.Time `json:"added_at" yaml:"added_at"`
}

// Reference converts a stored paper into a PaperReference for a connect action.
func (p Paper) Reference() PaperReference {
	return PaperReference{
		Title:         p.Title,
		Year:          p.Year,
		CitationCount: p.CitationCount,
		ArxivID:       p.ArxivID,
		DOI:           p.DOI,
	}
}

// Validate checks that the paper has the minimum fields needed for storage.
func (p Paper) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("paper id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("paper title is required")
	}
	return nil
}
