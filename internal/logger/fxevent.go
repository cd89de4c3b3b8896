package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx/fxevent"
)

// FxLogger writes fx lifecycle events through zerolog. Provides and supplies
// are logged at debug so startup stays quiet at info.
type FxLogger struct {
	Logger zerolog.Logger
}

func NewFxLogger(logger zerolog.Logger) fxevent.Logger {
	return &FxLogger{Logger: logger.With().Str("component", "fx").Logger()}
}

func (l *FxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Msg("OnStart hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Msg("OnStop hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.Provided:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("error encountered while applying options")
			return
		}
		for _, t := range e.OutputTypeNames {
			l.Logger.Debug().Str("constructor", e.ConstructorName).Str("type", t).Msg("provided")
		}
	case *fxevent.Supplied:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("type", e.TypeName).Msg("error encountered while applying options")
			return
		}
		l.Logger.Debug().Str("type", e.TypeName).Msg("supplied")
	case *fxevent.Invoked:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("function", e.FunctionName).Str("stack", e.Trace).Msg("invoke failed")
			return
		}
		l.Logger.Debug().Str("function", e.FunctionName).Msg("invoked")
	case *fxevent.Stopping:
		l.Logger.Info().Str("signal", e.Signal.String()).Msg("received signal")
	case *fxevent.Stopped:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("stop failed")
		}
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("rollback failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("start failed")
			return
		}
		l.Logger.Info().Msg("started")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("custom logger initialization failed")
		}
	}
}
