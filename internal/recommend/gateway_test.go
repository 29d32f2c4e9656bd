// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkweon/paperweb/pkg/types"
)

func testGatewayCfg() types.GatewayConfig {
	return types.GatewayConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "paperweb-test/0.1",
		},
		Pool: "all-cs",
	}
}

const recommendBody = `{
	"recommendedPapers": [
		{
			"paperId": "abc123",
			"title": "First Paper",
			"abstract": "About things.",
			"year": 2023,
			"url": "https://example.org/p/abc123",
			"citationCount": 42,
			"authors": [{"authorId": "1", "name": "Ada Lovelace"}],
			"externalIds": {"ArXiv": "2301.07041", "DOI": "10.1000/first"}
		},
		{
			"paperId": "def456",
			"title": "Second Paper",
			"citationCount": 7,
			"authors": [{"authorId": "2", "name": "Alan Turing"}],
			"externalIds": {}
		}
	]
}`

func TestFetchParsesRankOrder(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-api-key")
		fmt.Fprint(w, recommendBody)
	}))
	defer ts.Close()

	old := recommendAPIBase
	recommendAPIBase = ts.URL + "/"
	defer func() { recommendAPIBase = old }()

	cfg := testGatewayCfg()
	cfg.APIKey = "sekrit"
	g := NewSemanticScholarGateway(cfg)

	papers, err := g.Fetch(context.Background(), "ArXiv:2506.10347", 10)
	require.NoError(t, err)

	assert.Equal(t, "/ArXiv:2506.10347", gotPath)
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "from=all-cs")
	assert.Equal(t, "sekrit", gotKey)

	// Upstream order is the relevance ranking and must be preserved.
	require.Len(t, papers, 2)
	assert.Equal(t, "First Paper", papers[0].Title)
	assert.Equal(t, "2301.07041", papers[0].ArxivID)
	assert.Equal(t, "10.1000/first", papers[0].DOI)
	assert.Equal(t, []string{"Ada Lovelace"}, papers[0].Authors)
	assert.Equal(t, 42, papers[0].CitationCount)
	assert.Equal(t, 2023, papers[0].Year)
	assert.Equal(t, "Second Paper", papers[1].Title)
	assert.Empty(t, papers[1].ArxivID)
}

func TestFetchErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unknown key", http.StatusNotFound, types.ErrNotFound},
		{"throttled", http.StatusTooManyRequests, types.ErrRateLimited},
		{"server error", http.StatusInternalServerError, types.ErrUpstream},
		{"bad gateway", http.StatusBadGateway, types.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			old := recommendAPIBase
			recommendAPIBase = ts.URL + "/"
			defer func() { recommendAPIBase = old }()

			g := NewSemanticScholarGateway(testGatewayCfg())
			_, err := g.Fetch(context.Background(), "ArXiv:2506.10347", 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer ts.Close()

	old := recommendAPIBase
	recommendAPIBase = ts.URL + "/"
	defer func() { recommendAPIBase = old }()

	g := NewSemanticScholarGateway(testGatewayCfg())
	_, err := g.Fetch(context.Background(), "ArXiv:2506.10347", 5)
	assert.ErrorIs(t, err, types.ErrUpstream)
}

func TestSearchByTitleTopMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "limit=1")
		fmt.Fprint(w, `{
			"total": 2,
			"data": [
				{"paperId": "top-id", "title": "Top Match", "year": 2021,
				 "citationCount": 10, "authors": [{"name": "Grace Hopper"}]},
				{"paperId": "second-id", "title": "Second Match"}
			]
		}`)
	}))
	defer ts.Close()

	old := searchAPIBase
	searchAPIBase = ts.URL
	defer func() { searchAPIBase = old }()

	g := NewSemanticScholarGateway(testGatewayCfg())
	match, err := g.SearchByTitle(context.Background(), "top match")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "top-id", match.ExternalID)
	assert.Equal(t, "Top Match", match.Title)
	assert.Equal(t, 2021, match.Year)
}

func TestSearchByTitleNoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total": 0, "data": []}`)
	}))
	defer ts.Close()

	old := searchAPIBase
	searchAPIBase = ts.URL
	defer func() { searchAPIBase = old }()

	g := NewSemanticScholarGateway(testGatewayCfg())
	match, err := g.SearchByTitle(context.Background(), "nothing matches this")
	require.NoError(t, err)
	assert.Nil(t, match)
}
