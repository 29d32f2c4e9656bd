// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EdgeKind distinguishes the two edge families in a connect graph.
type EdgeKind string

const (
	// EdgeSpoke connects the center node to a peripheral node.
	EdgeSpoke EdgeKind = "spoke"

	// EdgeCross connects two peripheral nodes judged similar.
	EdgeCross EdgeKind = "cross"
)

// Position is a canvas-local coordinate. The center node sits at the origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphNode is one node of a connect graph. Exactly one node per graph has
// IsCenter set. Index is 0 for the center and rank+1 for peripheral nodes.
// Color and Size are derived visual attributes computed by the builder; the
// renderer consumes them and must not mutate Position.
type GraphNode struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Year          int      `json:"year,omitempty"`
	CitationCount int      `json:"citation_count"`
	URL           string   `json:"url,omitempty"`
	IsCenter      bool     `json:"is_center"`
	Index         int      `json:"index,omitempty"`
	Position      Position `json:"position"`
	Color         string   `json:"color"`
	Size          float64  `json:"size"`
}

// GraphEdge links two nodes. Strength is always in [0,1].
type GraphEdge struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Kind     EdgeKind `json:"kind"`
	Strength float64  `json:"strength"`
}

// Graph is the node/edge view a renderer consumes. It is rebuilt from
// scratch on every connect action and never mutated in place.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Center returns the center node. The builder guarantees exactly one exists.
func (g *Graph) Center() *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].IsCenter {
			return &g.Nodes[i]
		}
	}
	return nil
}
