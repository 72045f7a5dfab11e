package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/logger"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/routes"
	"github.com/americanbox/americanbox-api/services"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not auto-migrate the schema on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	db := config.GetDB()

	if !skipMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return err
		}
		logger.Log.Info("database migration completed")
	}

	closeCache := setupCache(ctx, cfg)
	defer closeCache()

	if cfg.S3Enabled() {
		if _, err := services.InitS3Service(ctx, cfg); err != nil {
			logger.Log.WithError(err).Warn("receipt storage disabled")
		}
	} else {
		logger.Log.Info("AWS_S3_BUCKET not set, receipt uploads disabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(ctx, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithField("port", cfg.Port).Info("AmericanBox API listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
