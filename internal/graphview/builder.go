// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graphview assembles a ranked recommendation list into a node/edge
// graph with deterministic layout and derived visual attributes. The
// renderer disables its physics simulation and relies on these coordinates
// as final, so Build must produce bit-identical output for identical input.
package graphview

import (
	"fmt"
	"math"

	"github.com/mkweon/paperweb/pkg/types"
)

// SourcePaper describes the paper a connect action started from. It becomes
// the center node. Year is zero when unknown.
type SourcePaper struct {
	Title         string
	Year          int
	CitationCount int
	URL           string
	Authors       []string
}

// Builder constructs connect graphs. All layout and visual knobs come from
// the config passed at construction; Build reads no ambient state.
type Builder struct {
	cfg types.GraphConfig
}

// NewBuilder returns a Builder. Zero-valued config fields fall back to the
// defaults so a partially filled config file still yields a usable layout.
func NewBuilder(cfg types.GraphConfig) *Builder {
	def := types.DefaultGraphConfig(cfg.MaxYear)
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = def.CanvasWidth
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = def.CanvasHeight
	}
	if cfg.RadiusRatio <= 0 {
		cfg.RadiusRatio = def.RadiusRatio
	}
	if cfg.CitationDiffLimit <= 0 {
		cfg.CitationDiffLimit = def.CitationDiffLimit
	}
	if cfg.YearDiffLimit <= 0 {
		cfg.YearDiffLimit = def.YearDiffLimit
	}
	if cfg.YearSimilarityScale <= 0 {
		cfg.YearSimilarityScale = def.YearSimilarityScale
	}
	if cfg.CrossNeighborSpan <= 0 {
		cfg.CrossNeighborSpan = def.CrossNeighborSpan
	}
	if cfg.MinYear <= 0 {
		cfg.MinYear = def.MinYear
	}
	if cfg.MaxYear <= cfg.MinYear {
		cfg.MaxYear = cfg.MinYear + 1
	}
	if cfg.CenterColor == "" {
		cfg.CenterColor = def.CenterColor
	}
	if cfg.GradientOld == (types.HSL{}) {
		cfg.GradientOld = def.GradientOld
	}
	if cfg.GradientNew == (types.HSL{}) {
		cfg.GradientNew = def.GradientNew
	}
	if cfg.CenterSize <= 0 {
		cfg.CenterSize = def.CenterSize
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = def.MinSize
	}
	if cfg.MaxSize <= cfg.MinSize {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.AssumedMaxCitations <= 1 {
		cfg.AssumedMaxCitations = def.AssumedMaxCitations
	}
	return &Builder{cfg: cfg}
}

// Build lays out the graph against the configured canvas. Callers with a
// live viewport use BuildOnCanvas instead.
func (b *Builder) Build(source SourcePaper, recommended []types.RecommendedPaper) types.Graph {
	return b.BuildOnCanvas(source, recommended, b.cfg.CanvasWidth, b.cfg.CanvasHeight)
}

// BuildOnCanvas lays out the source paper and its ranked recommendations as
// a graph sized for the caller's viewport. The renderer knows its actual
// canvas only at request time, so the dimensions are per-call; non-positive
// values fall back to the configured canvas.
//
// The center node sits at the canvas-local origin. The N recommendations
// are placed on a circle of radius min(width, height) * RadiusRatio, node i
// at angle (i/N)*2π − π/2 so rank 0 is at the top, proceeding clockwise.
// The recommendation order is preserved: upstream rank is the primary
// relevance signal and drives spoke strength.
func (b *Builder) BuildOnCanvas(source SourcePaper, recommended []types.RecommendedPaper, width, height float64) types.Graph {
	if width <= 0 {
		width = b.cfg.CanvasWidth
	}
	if height <= 0 {
		height = b.cfg.CanvasHeight
	}
	n := len(recommended)

	nodes := make([]types.GraphNode, 0, 1+n)
	nodes = append(nodes, types.GraphNode{
		ID:            "center",
		Title:         source.Title,
		Authors:       source.Authors,
		Year:          source.Year,
		CitationCount: source.CitationCount,
		URL:           source.URL,
		IsCenter:      true,
		Position:      types.Position{X: 0, Y: 0},
		Color:         b.cfg.CenterColor,
		Size:          b.cfg.CenterSize,
	})

	radius := math.Min(width, height) * b.cfg.RadiusRatio
	for i, rec := range recommended {
		theta := float64(i)/float64(n)*2*math.Pi - math.Pi/2
		nodes = append(nodes, types.GraphNode{
			ID:            fmt.Sprintf("rec-%d", i+1),
			Title:         rec.Title,
			Authors:       rec.Authors,
			Year:          rec.Year,
			CitationCount: rec.CitationCount,
			URL:           rec.URL,
			Index:         i + 1,
			Position: types.Position{
				X: radius * math.Cos(theta),
				Y: radius * math.Sin(theta),
			},
			Color: b.yearColor(rec.Year),
			Size:  b.citationSize(rec.CitationCount),
		})
	}

	edges := make([]types.GraphEdge, 0, n)
	for i := range recommended {
		edges = append(edges, types.GraphEdge{
			SourceID: "center",
			TargetID: fmt.Sprintf("rec-%d", i+1),
			Kind:     types.EdgeSpoke,
			Strength: 1 - float64(i)/float64(n),
		})
	}
	edges = append(edges, b.crossEdges(recommended)...)

	return types.Graph{Nodes: nodes, Edges: edges}
}

// crossEdges links peripheral nodes judged similar. Each node is compared
// only against the next CrossNeighborSpan ranks, which keeps the edge count
// linear instead of quadratic in N.
func (b *Builder) crossEdges(recommended []types.RecommendedPaper) []types.GraphEdge {
	var edges []types.GraphEdge
	n := len(recommended)

	for i := 0; i < n; i++ {
		last := i + b.cfg.CrossNeighborSpan
		if last > n-1 {
			last = n - 1
		}
		for j := i + 1; j <= last; j++ {
			strength, ok := b.similarity(recommended[i], recommended[j])
			if !ok {
				continue
			}
			edges = append(edges, types.GraphEdge{
				SourceID: fmt.Sprintf("rec-%d", i+1),
				TargetID: fmt.Sprintf("rec-%d", j+1),
				Kind:     types.EdgeCross,
				Strength: strength,
			})
		}
	}
	return edges
}

// similarity decides whether two peripheral papers are linked and with what
// strength. A link exists when the citation counts are close or both papers
// have a publication year and the years are close. A missing year on either
// side suppresses the year criterion entirely and contributes zero to the
// strength, so sparse-metadata papers do not auto-link to each other.
func (b *Builder) similarity(a, c types.RecommendedPaper) (float64, bool) {
	citDiff := math.Abs(float64(a.CitationCount - c.CitationCount))
	citClose := citDiff < b.cfg.CitationDiffLimit

	yearsKnown := a.Year > 0 && c.Year > 0
	yearDiff := 0
	if yearsKnown {
		yearDiff = a.Year - c.Year
		if yearDiff < 0 {
			yearDiff = -yearDiff
		}
	}
	yearClose := yearsKnown && yearDiff <= b.cfg.YearDiffLimit

	if !citClose && !yearClose {
		return 0, false
	}

	citSim := 1 - math.Min(citDiff/b.cfg.CitationDiffLimit, 1)
	yearSim := 0.0
	if yearsKnown {
		yearSim = 1 - math.Min(float64(yearDiff)/b.cfg.YearSimilarityScale, 1)
	}
	return (citSim + yearSim) / 2, true
}

// citationSize maps a citation count onto [MinSize, MaxSize] with a
// logarithmic scale. The ratio is clamped so a pathological outlier count
// cannot render oversized.
func (b *Builder) citationSize(citations int) float64 {
	if citations < 0 {
		citations = 0
	}
	ratio := math.Log(float64(citations)+1) / math.Log(b.cfg.AssumedMaxCitations)
	ratio = clamp01(ratio)
	return b.cfg.MinSize + ratio*(b.cfg.MaxSize-b.cfg.MinSize)
}

// yearColor interpolates the publication year across the configured HSL
// gradient. The ratio is clamped to [0,1] before interpolation: papers
// older than MinYear or dated in the future collapse to the endpoints
// rather than extrapolating. A missing year renders as the old endpoint.
func (b *Builder) yearColor(year int) string {
	t := 0.0
	if year > 0 {
		t = float64(year-b.cfg.MinYear) / float64(b.cfg.MaxYear-b.cfg.MinYear)
		t = clamp01(t)
	}
	return lerpHSL(b.cfg.GradientOld, b.cfg.GradientNew, t).Hex()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
