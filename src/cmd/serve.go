// backend/src/cmd/serve.go
package cmd

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"github.com/username/bankvisor/backend/src/config"
	"github.com/username/bankvisor/backend/src/handlers"
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP parse service",
	RunE: func(cmd *cobra.Command, args []string) error {
		resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
		statementService := services.NewStatementService(resultCache)
		parseHandler := handlers.NewParseHandler(statementService)

		r := chi.NewRouter()
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(handlers.ContextualLoggerMiddleware)
		r.Use(handlers.RateLimitMiddleware)

		r.Get("/api/health", parseHandler.HandleHealth)
		r.Post("/api/parse", parseHandler.HandleParse)

		srv := &http.Server{
			Addr:         ":" + config.Cfg.Port,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		logger.L.Info("HTTP parse service starting", "port", config.Cfg.Port)
		return srv.ListenAndServe()
	},
}
