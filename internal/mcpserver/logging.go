package mcpserver

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ambiyansyah-risyal/scholargo"
)

// NewLogger builds the server's zerolog logger. Output goes to stderr so
// stdout stays clean for the stdio transport.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("service", "scholargo-mcp").Logger()
}

// zerologAdapter bridges zerolog into the pipeline's Logger interface.
type zerologAdapter struct {
	logger zerolog.Logger
}

var _ scholargo.Logger = zerologAdapter{}

func (z zerologAdapter) Debug(msg string, keysAndValues ...any) {
	emit(z.logger.Debug(), msg, keysAndValues)
}

func (z zerologAdapter) Info(msg string, keysAndValues ...any) {
	emit(z.logger.Info(), msg, keysAndValues)
}

func (z zerologAdapter) Warn(msg string, keysAndValues ...any) {
	emit(z.logger.Warn(), msg, keysAndValues)
}

func (z zerologAdapter) Error(msg string, keysAndValues ...any) {
	emit(z.logger.Error(), msg, keysAndValues)
}

func emit(event *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	event.Msg(msg)
}
