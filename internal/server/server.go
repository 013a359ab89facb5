package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	healthapp "ai-navigation/backend/internal/features/health/application"
	health_http "ai-navigation/backend/internal/features/health/presentation/http"
	"ai-navigation/backend/internal/features/navigation/application"
	navigation_http "ai-navigation/backend/internal/features/navigation/presentation/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(allowedOrigins []string, logger *zap.Logger, navigationService application.NavigationService, healthService healthapp.HealthService) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), gin.Recovery(), cors.New(corsConfig(allowedOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", health_http.NewHealthHandler(healthService).GetHealthHandler)

	handler := navigation_http.NewNavigationHandler(navigationService)
	r.POST("/detect-intent", handler.DetectIntentHandler)
	r.POST("/generate-response", handler.GenerateResponseHandler)

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
