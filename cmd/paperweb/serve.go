// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mkweon/paperweb/internal/server"
	"github.com/mkweon/paperweb/internal/store"
	"github.com/mkweon/paperweb/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the connect engine and the paper collection over HTTP:
POST /api/connect builds a graph for an ad-hoc reference, GET
/api/papers/{id}/connect builds one from a saved paper, and /api/papers
manages the collection. The recommendation cache sweeps expired entries in
the background for the lifetime of the server.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	log := logger.Get()

	papers, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer papers.Close()

	engine, cache := buildEngine(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cache.StartSweeper(ctx, cfg.Cache.SweepInterval)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(engine, papers, cache, cfg.Server, log).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
