package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"ai-navigation/backend/internal/config"
	healthapp "ai-navigation/backend/internal/features/health/application"
	"ai-navigation/backend/internal/features/navigation/application"
	"ai-navigation/backend/internal/inference"
	"ai-navigation/backend/internal/logger"
	"ai-navigation/backend/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "ai-navigation",
	Short: "Intent detection and guidance service backed by a local LLM",
	Long: `ai-navigation serves /detect-intent and /generate-response on top of an
Ollama inference server. Upstream failures never fail a request; callers get a
deterministic fallback answer instead.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load")
	rootCmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.EnvFile == "" {
		log.Info("no .env file found, using environment variables")
	}

	gin.SetMode(cfg.GinMode)

	client, err := inference.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create inference client: %w", err)
	}

	navigationService := application.NewNavigationService(cfg, client, log)
	healthService := healthapp.NewHealthService(client, cfg.HealthTimeout, log)
	router := server.NewRouter(cfg.CORSAllowedOrigins, log, navigationService, healthService)

	log.Info("starting ai-navigation",
		zap.String("version", Version),
		zap.String("provider", cfg.Provider),
		zap.String("inference_url", cfg.OllamaBaseURL),
		zap.String("default_model", cfg.DefaultModel))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, net.JoinHostPort("", cfg.Port), router, log)
}
