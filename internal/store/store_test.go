// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkweon/paperweb/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Path: filepath.Join(t.TempDir(), "papers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func samplePaper(id string) types.Paper {
	return types.Paper{
		ID:            id,
		Title:         "Attention Is All You Need",
		Authors:       []string{"Ashish Vaswani", "Noam Shazeer"},
		Year:          2017,
		CitationCount: 90000,
		ArxivID:       "1706.03762",
		DOI:           "10.48550/arXiv.1706.03762",
		URL:           "https://arxiv.org/abs/1706.03762",
		Abstract:      "The dominant sequence transduction models...",
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := samplePaper("1706.03762")
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Get(ctx, "1706.03762")
	require.NoError(t, err)

	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.Authors, got.Authors)
	assert.Equal(t, p.Year, got.Year)
	assert.Equal(t, p.CitationCount, got.CitationCount)
	assert.Equal(t, p.ArxivID, got.ArxivID)
	assert.Equal(t, p.DOI, got.DOI)
	assert.Equal(t, p.URL, got.URL)
	assert.Equal(t, p.Abstract, got.Abstract)
	assert.False(t, got.AddedAt.IsZero())
}

func TestSaveUpsertKeepsAddedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := samplePaper("1706.03762")
	p.AddedAt = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, p))

	p.Title = "Attention Is All You Need (v2)"
	p.CitationCount = 95000
	p.AddedAt = time.Time{}
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Get(ctx, "1706.03762")
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need (v2)", got.Title)
	assert.Equal(t, 95000, got.CitationCount)
	assert.True(t, got.AddedAt.Equal(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)),
		"re-saving must keep the original added_at, got %v", got.AddedAt)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSaveRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, types.Paper{Title: "no id"}))
	assert.Error(t, s.Save(ctx, types.Paper{ID: "no-title"}))
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestListOrderedByMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		p := samplePaper(id)
		p.AddedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Save(ctx, p))
	}

	papers, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, papers, 3)
	assert.Equal(t, "third", papers[0].ID)
	assert.Equal(t, "second", papers[1].ID)
	assert.Equal(t, "first", papers[2].ID)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePaper("gone")))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err := s.Get(ctx, "gone")
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "gone"), types.ErrNotFound)
}

func TestStoredPaperDrivesConnectReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, samplePaper("1706.03762")))
	got, err := s.Get(ctx, "1706.03762")
	require.NoError(t, err)

	ref := got.Reference()
	assert.True(t, ref.HasIdentifier())
	assert.Equal(t, "1706.03762", ref.ArxivID)
}
