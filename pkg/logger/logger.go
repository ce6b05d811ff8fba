package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/streamhub/account-server/internal/domain"
)

type Logger struct {
	SlogLogger *slog.Logger
}

// NewLogger writes JSON logs to the given file, or to stdout when the
// path is empty.
func NewLogger(loggingFilePath string) *Logger {
	var out io.Writer = os.Stdout
	if loggingFilePath != "" {
		file, err := os.OpenFile(loggingFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(err)
		}
		out = file
	}

	l := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return &Logger{SlogLogger: l}
}

func (l Logger) Info(msg string, args ...interface{}) {
	l.SlogLogger.Info(msg, args...)
}

func (l Logger) Warn(msg string, args ...interface{}) {
	l.SlogLogger.Warn(msg, args...)
}

func (l Logger) Error(msg string, args ...interface{}) {
	l.SlogLogger.Error(msg, args...)
}

func (l Logger) With(args ...any) domain.LoggingRepository {
	return &Logger{
		SlogLogger: l.SlogLogger.With(args...),
	}
}
