// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/mkweon/paperweb/internal/connect"
	"github.com/mkweon/paperweb/internal/graphview"
	"github.com/mkweon/paperweb/internal/recommend"
	"github.com/mkweon/paperweb/internal/resolve"
	"github.com/mkweon/paperweb/pkg/logger"
	"github.com/mkweon/paperweb/pkg/types"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Build the related-paper graph for one reference",
	Long: `Connect resolves a paper reference to a canonical lookup key, fetches
ranked related papers from the upstream recommendation service, and prints
the resulting graph.

The reference is given as --arxiv, --doi, or --title; when more than one is
set, an identifier always wins over the title. Output is a rank table by
default, or the full graph as JSON or YAML.`,
	RunE: runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	arxivID, _ := cmd.Flags().GetString("arxiv")
	doi, _ := cmd.Flags().GetString("doi")
	title, _ := cmd.Flags().GetString("title")
	limit, _ := cmd.Flags().GetInt("limit")

	if arxivID == "" && doi == "" && title == "" {
		return fmt.Errorf("reference required: provide --arxiv, --doi, or --title")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, _ := buildEngine(cfg)
	ref := types.PaperReference{Title: title, ArxivID: arxivID, DOI: doi}

	graph, err := engine.Connect(context.Background(), ref, limit)
	if err != nil {
		return err
	}

	switch {
	case flagBool(cmd, "json"):
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(graph)
	case flagBool(cmd, "yaml"):
		return yaml.NewEncoder(os.Stdout).Encode(graph)
	default:
		formatGraphTable(graph, os.Stdout)
		return nil
	}
}

// buildEngine wires a connect engine and its cache from the configuration.
func buildEngine(cfg types.Config) (*connect.Engine, *recommend.Cache) {
	gateway := recommend.NewSemanticScholarGateway(cfg.Gateway)
	cache := recommend.NewCache(cfg.Cache)
	resolver := resolve.NewResolver(gateway)
	builder := graphview.NewBuilder(cfg.Graph)
	engine := connect.NewEngine(resolver, cache, gateway, builder, cfg.Connect, logger.Get())
	return engine, cache
}

// formatGraphTable writes the peripheral nodes as a human-readable rank table.
func formatGraphTable(graph types.Graph, w io.Writer) {
	center := graph.Center()
	if center != nil {
		fmt.Fprintf(w, "Connected from: %s\n\n", center.Title)
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-9s  %s\n",
		"Rank", "Title", "Authors", "Year", "Citations", "Strength")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	spokes := make(map[string]float64, len(graph.Edges))
	for _, e := range graph.Edges {
		if e.Kind == types.EdgeSpoke {
			spokes[e.TargetID] = e.Strength
		}
	}

	for _, node := range graph.Nodes {
		if node.IsCenter {
			continue
		}
		title := node.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		year := ""
		if node.Year > 0 {
			year = fmt.Sprintf("%d", node.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-9d  %.2f\n",
			node.Index, title, formatAuthors(node.Authors), year,
			node.CitationCount, spokes[node.ID])
	}

	fmt.Fprintf(w, "\n%d related papers, %d edges\n", len(graph.Nodes)-1, len(graph.Edges))
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func init() {
	connectCmd.Flags().String("arxiv", "", "arXiv id of the source paper (e.g. 2506.10347)")
	connectCmd.Flags().String("doi", "", "DOI of the source paper")
	connectCmd.Flags().String("title", "", "title of the source paper (used only when no identifier is given)")
	connectCmd.Flags().Int("limit", 0, "number of related papers (0 = configured default)")
	connectCmd.Flags().Bool("json", false, "output the full graph as JSON")
	connectCmd.Flags().Bool("yaml", false, "output the full graph as YAML")

	rootCmd.AddCommand(connectCmd)
}
