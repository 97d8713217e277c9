package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casestudyai/casestudyai/internal/config"
	"github.com/casestudyai/casestudyai/internal/filestore"
	"github.com/casestudyai/casestudyai/internal/gemini"
	"github.com/casestudyai/casestudyai/internal/handler"
	"github.com/casestudyai/casestudyai/internal/job"
	"github.com/casestudyai/casestudyai/internal/schedule"
	"github.com/casestudyai/casestudyai/internal/service"
)

func main() {
	var configPath string
	var ingestFolder string
	var ingestStore string

	rootCmd := &cobra.Command{
		Use:   "casestudyai",
		Short: "case study Q&A backend",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json (optional, env vars also work)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "bulk-upload a folder of documents into the file search store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(configPath)
			if err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg, ingestFolder, ingestStore)
		},
	}
	ingestCmd.Flags().StringVar(&ingestFolder, "folder", "", "folder of documents to ingest")
	ingestCmd.Flags().StringVar(&ingestStore, "store-name", gemini.DefaultStoreName, "file search store display name")
	_ = ingestCmd.MarkFlagRequired("folder")

	rootCmd.AddCommand(runCmd, ingestCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

// setup loads .env (if present), the optional config file and initializes
// logging.
func setup(configPath string) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	if configPath != "" {
		logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
	}
	return cfg, nil
}

// newStoreClient builds the gemini client, or returns nil when the API key
// is absent so the server can start degraded.
func newStoreClient(ctx context.Context, cfg *config.Config) (*gemini.Client, error) {
	if !cfg.GeminiConfigured() {
		logutil.GetLogger(ctx).Warn("GEMINI_API_KEY not set, query and upload endpoints will answer 503")
		return nil, nil
	}
	client, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return client, nil
}

func storeName(cfg *config.Config) string {
	if cfg.Gemini.StoreName != "" {
		return cfg.Gemini.StoreName
	}
	return gemini.DefaultStoreName
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logutil.GetLogger(ctx)
	log.Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.Upload.FileStore.Type),
		zap.Bool("gemini_configured", cfg.GeminiConfigured()),
	)

	geminiClient, err := newStoreClient(ctx, cfg)
	if err != nil {
		return err
	}
	// A typed nil pointer must not reach the StoreClient interface, the
	// services treat a nil interface as "not configured".
	var client service.StoreClient
	if geminiClient != nil {
		client = geminiClient
	}

	store, err := filestore.New(cfg.Upload.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	name := storeName(cfg)
	queryService := service.NewQueryService(client, name)
	uploadService := service.NewUploadService(client, store, name, cfg.Upload.MaxSizeMB*1024*1024)
	healthService := service.NewHealthService(client, name)

	corsOrigins := cfg.CORSOrigins
	if cfg.DevMode() {
		// Local development talks to the API from arbitrary ports.
		corsOrigins = nil
	}

	router := handler.NewRouter(handler.RouterDeps{
		Health:           handler.NewHealthHandler(healthService),
		Query:            handler.NewQueryHandler(queryService),
		Upload:           handler.NewUploadHandler(uploadService),
		CORSOrigins:      corsOrigins,
		GeminiConfigured: client != nil,
	})

	scheduler := schedule.NewScheduler()
	cleanup := job.NewTempCleanupJob("", time.Duration(cfg.Upload.TempMaxAgeHours)*time.Hour)
	if err := scheduler.AddJob(cleanup, "0 * * * *"); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: router,
	}
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runIngest(ctx context.Context, cfg *config.Config, folder, store string) error {
	geminiClient, err := newStoreClient(ctx, cfg)
	if err != nil {
		return err
	}
	if geminiClient == nil {
		return fmt.Errorf("GEMINI_API_KEY is required for ingestion")
	}

	summary, err := service.NewIngestService(geminiClient).Run(ctx, folder, store)
	if err != nil {
		return err
	}
	fmt.Printf("Ingestion complete: %d ingested, %d skipped, %d failed\n",
		summary.Ingested, summary.Skipped, summary.Failed)
	if summary.Store != "" {
		fmt.Printf("Store: %s\n", summary.Store)
	}
	return nil
}
