// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package connect sequences identity resolution, cached recommendation
// retrieval, and graph construction into a single connect action.
package connect

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkweon/paperweb/internal/graphview"
	"github.com/mkweon/paperweb/internal/recommend"
	"github.com/mkweon/paperweb/internal/resolve"
	"github.com/mkweon/paperweb/pkg/types"
)

// Engine is the connect orchestrator. Every call is independent and
// stateless: chaining means any recommendation from a built graph can be
// turned back into a PaperReference and connected from again. The engine
// keeps no visited-set; cross-call history such as "already expanded"
// marking is the caller's concern.
type Engine struct {
	resolver *resolve.Resolver
	cache    *recommend.Cache
	gateway  recommend.Gateway
	builder  *graphview.Builder
	cfg      types.ConnectConfig
	log      *zap.Logger
}

// NewEngine wires the connect pipeline.
func NewEngine(resolver *resolve.Resolver, cache *recommend.Cache, gateway recommend.Gateway, builder *graphview.Builder, cfg types.ConnectConfig, log *zap.Logger) *Engine {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 50
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		resolver: resolver,
		cache:    cache,
		gateway:  gateway,
		builder:  builder,
		cfg:      cfg,
		log:      log,
	}
}

// ClampLimit normalizes a requested recommendation count: non-positive
// values take the default, values over the cap take the cap.
func (e *Engine) ClampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.DefaultLimit
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit
	}
	return limit
}

// Connect builds the graph against the configured canvas. Callers that know
// the renderer's viewport use ConnectOnCanvas.
func (e *Engine) Connect(ctx context.Context, ref types.PaperReference, limit int) (types.Graph, error) {
	return e.ConnectOnCanvas(ctx, ref, limit, 0, 0)
}

// ConnectOnCanvas resolves ref to a lookup key, retrieves up to limit
// related papers through the cache, and assembles the connect graph laid
// out for the given viewport (non-positive dimensions fall back to the
// configured canvas). There is no partial-success mode: either a full graph
// is returned or an error. Errors carry the pkg/types taxonomy and are
// never retried here; retries, if desired, belong to a layer above.
func (e *Engine) ConnectOnCanvas(ctx context.Context, ref types.PaperReference, limit int, width, height float64) (types.Graph, error) {
	limit = e.ClampLimit(limit)

	key, err := e.resolver.Resolve(ctx, ref)
	if err != nil {
		return types.Graph{}, fmt.Errorf("resolving reference: %w", err)
	}
	e.log.Debug("reference resolved",
		zap.String("title", ref.Title),
		zap.String("key", string(key)),
		zap.Int("limit", limit))

	recommended, err := e.cache.GetOrFetch(ctx, key, limit, e.gateway.Fetch)
	if err != nil {
		return types.Graph{}, fmt.Errorf("fetching recommendations: %w", err)
	}

	graph := e.builder.BuildOnCanvas(graphview.SourcePaper{
		Title:         ref.Title,
		Year:          ref.Year,
		CitationCount: ref.CitationCount,
	}, recommended, width, height)

	e.log.Info("connect graph built",
		zap.String("key", string(key)),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)))
	return graph, nil
}
