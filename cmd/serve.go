package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/videodiary/diary-api/api"
	"github.com/videodiary/diary-api/api/types"
	"github.com/videodiary/diary-api/internal/database"
	"github.com/videodiary/diary-api/internal/models"
	"github.com/videodiary/diary-api/internal/services/artifacts"
	"github.com/videodiary/diary-api/internal/services/cache"
	"github.com/videodiary/diary-api/internal/services/catalog"
	"github.com/videodiary/diary-api/internal/services/segments"
	"github.com/videodiary/diary-api/internal/services/sweeper"
	"github.com/videodiary/diary-api/internal/services/videos"
)

var (
	serverHost string
	serverPort int
)

// cacheTTL bounds read-side staleness between explicit invalidations
const cacheTTL = 5 * time.Minute

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Video Diary API server with the configured settings.

Example:
  diary-api serve
  diary-api serve --port 9090
  diary-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.VideoEntry{}); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	processor, err := segments.NewProcessor(
		cfg.Processing.FFmpegPath,
		cfg.Processing.FFprobePath,
		cfg.Storage.ScratchDir,
		cfg.Processing.Timeout,
	)
	if err != nil {
		return fmt.Errorf("initializing segment processor: %w", err)
	}
	if err := processor.ValidateBinaries(); err != nil {
		return err
	}

	store, err := artifacts.NewLocalStore(cfg.Storage.MediaDir)
	if err != nil {
		return fmt.Errorf("initializing artifact store: %w", err)
	}

	queryCache := cache.New(cacheTTL)
	cat := catalog.New(db)
	coordinator := videos.New(cat, processor, store, queryCache, videos.RangePolicy{
		Min:   cfg.Trim.MinDuration,
		Max:   cfg.Trim.MaxDuration,
		Fixed: cfg.Trim.FixedDuration,
	}, cfg.Processing.Timeout)

	sweep := sweeper.New(cfg.Storage.ScratchDir, cfg.Storage.MaxScratchAge, cfg.Storage.SweepInterval)
	sweep.Start()
	defer sweep.Stop()

	server := api.NewServer(fmt.Sprintf("%s:%d", serverHost, serverPort))
	server.SetDependencies(&types.Dependencies{
		DB:           db,
		Catalog:      cat,
		VideoService: coordinator,
		Processor:    processor,
		Store:        store,
		QueryCache:   queryCache,
		Config:       cfg,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	log.Printf("[INFO] Starting Video Diary API server on %s:%d", serverHost, serverPort)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		log.Println("[INFO] Shutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		log.Println("[INFO] Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	log.Println("[INFO] Server gracefully stopped")
	return nil
}
