// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperweb CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/mkweon/paperweb/internal/secrets"
	"github.com/mkweon/paperweb/pkg/logger"
	"github.com/mkweon/paperweb/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the paperweb CLI.
var rootCmd = &cobra.Command{
	Use:   "paperweb",
	Short: "Pivot from one paper to its related-paper graph",
	Long: `paperweb resolves a paper reference (arXiv id, DOI, or title) to a
canonical lookup key, fetches ranked related papers through a cached
upstream recommendation service, and lays them out as a small fixed graph.

Use connect for a one-shot graph on the command line, serve to expose the
engine over HTTP, and papers to manage the saved collection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if s.SemanticScholarAPIKey != "" {
			fmt.Fprintln(os.Stderr, "Loaded Semantic Scholar API key")
		}
		return logger.Init(viper.GetString("env"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperweb.yaml or ~/.config/paperweb/config.yaml)")
	rootCmd.PersistentFlags().String("env", "development", "runtime environment: development or production")
	viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperweb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperweb"))
		}
	}

	viper.SetEnvPrefix("PAPERWEB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the YAML
// config file if one was found, then secrets and environment overrides.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig(time.Now().Year())

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if cfg.Gateway.APIKey == "" {
		cfg.Gateway.APIKey = loadedSecrets.SemanticScholarAPIKey
	}
	if v := viper.GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := viper.GetString("store_path"); v != "" {
		cfg.Store.Path = v
	}

	return cfg, nil
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
