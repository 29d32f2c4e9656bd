// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend fetches and caches ranked related-paper lists from the
// upstream recommendation service.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkweon/paperweb/internal/httputil"
	"github.com/mkweon/paperweb/pkg/types"
)

// API base URLs. Declared as vars so tests can substitute httptest servers.
var (
	recommendAPIBase = "https://api.semanticscholar.org/recommendations/v1/papers/forpaper/"
	searchAPIBase    = "https://api.semanticscholar.org/graph/v1/paper/search"
)

const (
	recommendFields = "title,authors,abstract,year,url,externalIds,citationCount"
	searchFields    = "title,authors,abstract,year,externalIds,citationCount"
)

// Gateway is the upstream recommendation dependency consumed by the cache
// and orchestrator. Implementations map transport failures to the domain
// error taxonomy and return results in upstream rank order, without
// re-sorting, paginating, or deduplicating.
type Gateway interface {
	Fetch(ctx context.Context, key types.LookupKey, limit int) ([]types.RecommendedPaper, error)
}

// SemanticScholarGateway talks to the Semantic Scholar Recommendations and
// Graph APIs. It also serves as the resolver's title search.
type SemanticScholarGateway struct {
	client *http.Client
	cfg    types.GatewayConfig
}

// NewSemanticScholarGateway returns a gateway with a request timeout at the
// HTTP client boundary, so a hung upstream call cannot hang a connect
// action indefinitely.
func NewSemanticScholarGateway(cfg types.GatewayConfig) *SemanticScholarGateway {
	return &SemanticScholarGateway{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Fetch retrieves up to limit recommendations for key. The upstream reports
// an unknown key with HTTP 404 (types.ErrNotFound) and throttling with
// HTTP 429 (types.ErrRateLimited); anything else non-2xx is types.ErrUpstream.
func (g *SemanticScholarGateway) Fetch(ctx context.Context, key types.LookupKey, limit int) ([]types.RecommendedPaper, error) {
	pool := g.cfg.Pool
	if pool == "" {
		pool = "all-cs"
	}

	params := url.Values{
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {recommendFields},
		"from":   {pool},
	}
	reqURL := recommendAPIBase + url.PathEscape(string(key)) + "?" + params.Encode()

	var rr recommendResponse
	if err := g.getJSON(ctx, reqURL, &rr); err != nil {
		return nil, fmt.Errorf("recommendations for %s: %w", key, err)
	}

	papers := make([]types.RecommendedPaper, 0, len(rr.RecommendedPapers))
	for _, p := range rr.RecommendedPapers {
		papers = append(papers, p.toRecommended())
	}
	return papers, nil
}

// SearchByTitle queries the paper search endpoint with limit=1 and returns
// the top match, or nil when the search has no candidates.
func (g *SemanticScholarGateway) SearchByTitle(ctx context.Context, title string) (*types.TitleMatch, error) {
	params := url.Values{
		"query":  {title},
		"limit":  {"1"},
		"fields": {searchFields},
	}
	reqURL := searchAPIBase + "?" + params.Encode()

	var sr searchResponse
	if err := g.getJSON(ctx, reqURL, &sr); err != nil {
		return nil, fmt.Errorf("title search: %w", err)
	}
	if len(sr.Data) == 0 {
		return nil, nil
	}

	p := sr.Data[0]
	return &types.TitleMatch{
		ExternalID:    p.PaperID,
		Title:         p.Title,
		Authors:       p.authorNames(),
		Abstract:      p.Abstract,
		Year:          p.Year,
		CitationCount: p.CitationCount,
	}, nil
}

// getJSON performs a GET, maps the upstream status codes to the domain
// error taxonomy, and decodes the body into out.
func (g *SemanticScholarGateway) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	if g.cfg.APIKey != "" {
		req.Header.Set("x-api-key", g.cfg.APIKey)
	}

	resp, err := httputil.Do(ctx, g.client, req, g.cfg.MaxRetries)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return types.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: HTTP %d", types.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: parsing response: %v", types.ErrUpstream, err)
	}
	return nil
}

// Semantic Scholar API JSON structures.

type recommendResponse struct {
	RecommendedPapers []apiPaper `json:"recommendedPapers"`
}

type searchResponse struct {
	Total int        `json:"total"`
	Data  []apiPaper `json:"data"`
}

type apiPaper struct {
	PaperID       string         `json:"paperId"`
	Title         string         `json:"title"`
	Abstract      string         `json:"abstract"`
	Year          int            `json:"year"`
	URL           string         `json:"url"`
	CitationCount int            `json:"citationCount"`
	Authors       []apiAuthor    `json:"authors"`
	ExternalIDs   apiExternalIDs `json:"externalIds"`
}

type apiAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type apiExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

func (p apiPaper) authorNames() []string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.Name)
	}
	return names
}

func (p apiPaper) toRecommended() types.RecommendedPaper {
	return types.RecommendedPaper{
		Title:         p.Title,
		Authors:       p.authorNames(),
		Abstract:      p.Abstract,
		Year:          p.Year,
		URL:           p.URL,
		CitationCount: p.CitationCount,
		ArxivID:       p.ExternalIDs.ArXiv,
		DOI:           p.ExternalIDs.DOI,
	}
}
