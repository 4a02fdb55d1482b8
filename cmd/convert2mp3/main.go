package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/convert2mp3/convert2mp3/internal/config"
	"github.com/convert2mp3/convert2mp3/internal/download"
	"github.com/convert2mp3/convert2mp3/internal/engine"
	"github.com/convert2mp3/convert2mp3/internal/logging"
	"github.com/convert2mp3/convert2mp3/internal/server"
	"github.com/convert2mp3/convert2mp3/internal/strategy"
	"github.com/convert2mp3/convert2mp3/internal/tags"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "convert2mp3",
	Short: "convert2mp3 - Download YouTube audio as tagged MP3 files",
	Long:  "convert2mp3 downloads YouTube videos and playlists as MP3 files with ID3 tags and embedded cover art, retrying across player clients and format selectors until one works.",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP backend",
	Long:  "Start the local REST API used by the browser extension to request conversions and poll their progress",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment, cfg.LogFile)
	return nil
}

// buildService assembles the download pipeline from configuration.
func buildService() *download.Service {
	clients := cfg.Clients
	if len(clients) == 0 {
		clients = strategy.DefaultClients
	}

	ex := engine.NewYTDLP(logger)
	tw := tags.NewWriter(logger)
	orch := download.NewOrchestrator(ex, tw, logger)
	return download.NewService(orch, clients, logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	logger.Info().Str("version", version).Msg("convert2mp3 backend starting")

	svc := buildService()
	srv := server.New(cfg, svc, version, logger)
	httpServer := srv.HTTPServer()

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if svc.Active() {
		logger.Warn().Msg("downloads still running at shutdown")
	}

	logger.Info().Msg("convert2mp3 backend stopped")
	return nil
}
