package fx

import (
	"bjj-foundation/internal/config"
	"bjj-foundation/internal/constants"
	"bjj-foundation/internal/database"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/logger"
	"bjj-foundation/internal/quiz"
	"bjj-foundation/internal/server"
	"bjj-foundation/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func ProvideQuizEngine(bank *quiz.Bank) *quiz.Engine {
	return quiz.NewEngine(bank, nil)
}

func ProvideQuizAttempts() *quiz.Attempts {
	return quiz.NewAttempts(constants.QuizMaxAttempts, constants.QuizAttemptTTL)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.WithLogger(func(log zerolog.Logger) fxevent.Logger {
		return logger.NewFxLogger(log)
	}),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// dataset
	fx.Provide(dataset.NewHTTPClient),
	fx.Provide(dataset.NewConfiguredLoader),
	// svc
	fx.Provide(service.LoadCatalogService),
	fx.Provide(quiz.DefaultBank),
	fx.Provide(ProvideQuizEngine),
	fx.Provide(ProvideQuizAttempts),
	// server
	fx.Provide(server.NewCatalogServer),
	fx.Provide(server.NewQuizServer),
)
