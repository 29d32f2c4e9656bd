// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkweon/paperweb/internal/store"
	"github.com/mkweon/paperweb/pkg/types"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Manage the saved paper collection",
	Long: `Papers manages the local SQLite collection. Saved papers can be used
as connect sources by id, both here and through the HTTP API.`,
}

// --- list subcommand ---

var papersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved papers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		papers, err := s.List(context.Background())
		if err != nil {
			return err
		}

		if flagBool(cmd, "json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(papers)
		}

		if len(papers) == 0 {
			fmt.Println("No papers saved.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-20s  %-56s  %-4s  %s\n", "ID", "Title", "Year", "Citations")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))
		for _, p := range papers {
			title := p.Title
			if len(title) > 56 {
				title = title[:53] + "..."
			}
			year := ""
			if p.Year > 0 {
				year = fmt.Sprintf("%d", p.Year)
			}
			fmt.Fprintf(os.Stdout, "%-20s  %-56s  %-4s  %d\n", p.ID, title, year, p.CitationCount)
		}
		fmt.Fprintf(os.Stdout, "\n%d papers\n", len(papers))
		return nil
	},
}

// --- add subcommand ---

var papersAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Save a paper to the collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			return fmt.Errorf("--title is required")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		year, _ := cmd.Flags().GetInt("year")
		citations, _ := cmd.Flags().GetInt("citations")
		arxivID, _ := cmd.Flags().GetString("arxiv")
		doi, _ := cmd.Flags().GetString("doi")
		u, _ := cmd.Flags().GetString("url")

		paper := types.Paper{
			ID:            args[0],
			Title:         title,
			Year:          year,
			CitationCount: citations,
			ArxivID:       arxivID,
			DOI:           doi,
			URL:           u,
		}
		if err := s.Save(context.Background(), paper); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", paper.ID)
		return nil
	},
}

// --- show subcommand ---

var papersShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one saved paper as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		paper, err := s.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(paper)
	},
}

// --- rm subcommand ---

var papersRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a saved paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.NewStore(cfg.Store)
}

func init() {
	papersListCmd.Flags().Bool("json", false, "output papers as JSON")

	papersAddCmd.Flags().String("title", "", "paper title (required)")
	papersAddCmd.Flags().Int("year", 0, "publication year")
	papersAddCmd.Flags().Int("citations", 0, "citation count")
	papersAddCmd.Flags().String("arxiv", "", "arXiv id")
	papersAddCmd.Flags().String("doi", "", "DOI")
	papersAddCmd.Flags().String("url", "", "paper URL")

	papersCmd.AddCommand(papersListCmd)
	papersCmd.AddCommand(papersAddCmd)
	papersCmd.AddCommand(papersShowCmd)
	papersCmd.AddCommand(papersRmCmd)

	rootCmd.AddCommand(papersCmd)
}
