// Package api exposes the pipelines over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/huangsam/hirecast/internal/contract"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func corsOption() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodOptions, http.MethodHead, http.MethodGet},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}
}

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// NewRouter builds the gin engine with middlewares and the analytics routes.
func NewRouter(baseCfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsOption()))
	r.Use(requestLogger())

	h := &handler{baseCfg: baseCfg, src: src, mgr: mgr}

	r.GET("/healthz", handleHealth)
	analytics := r.Group("/api/analytics")
	analytics.GET("/skill-gap-trends", h.handleSkillGap)
	analytics.GET("/quality-distribution", h.handleQuality)
	analytics.GET("/application-forecast", h.handleVolume)
	analytics.GET("/skill-demand", h.handleSkillDemand)

	return r
}

// StartServer serves the API on cfg.Addr until ctx is cancelled.
func StartServer(ctx context.Context, cfg *contract.Config, src contract.RecordSource, mgr contract.CacheManager) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, src, mgr),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
