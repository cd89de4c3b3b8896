package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"bjj-foundation/internal/config"
	"bjj-foundation/internal/constants"
	fxmodules "bjj-foundation/internal/fx"
	"bjj-foundation/internal/middleware"
	"bjj-foundation/internal/server"
	"bjj-foundation/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	catalogServer *server.CatalogServer,
	quizServer *server.QuizServer,
	catalogSvc *service.CatalogService,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := server.NewHandler(catalogServer, quizServer, catalogSvc)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           middleware.RequestID(logger)(c.Handler(mux)),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := catalogSvc.Ready(); err != nil {
				logger.Warn().Err(err).Msg("serving without a dataset")
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if db != nil {
				if err := db.Close(); err != nil {
					logger.Warn().Err(err).Msg("error closing database connection")
				}
			}

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
