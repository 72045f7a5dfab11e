// Package commands holds the americanbox CLI.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/americanbox/americanbox-api/cache"
	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/services"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "americanbox",
	Short: "AmericanBox courier back office",
	Long: `AmericanBox serves the customer dashboard and admin back office API
(orders, customers, pricing, invoices, reports) and carries the maintenance
commands used to prepare and check the database.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, sets up logging and connects the database.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.IsProduction())

	if err := config.ConnectDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupCache picks Redis when REDIS_URL is set and falls back to process memory.
func setupCache(ctx context.Context, cfg *config.Config) func() {
	if cfg.RedisURL == "" {
		services.SetCache(cache.NewMemoryStore())
		return func() {}
	}

	store, err := cache.NewRedisStore(ctx, cfg.RedisURL, "americanbox:")
	if err != nil {
		logger.Log.WithError(err).Warn("redis unavailable, using in-memory cache")
		services.SetCache(cache.NewMemoryStore())
		return func() {}
	}
	services.SetCache(store)
	return func() {
		if err := store.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close redis client")
		}
	}
}
