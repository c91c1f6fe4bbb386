package utilities

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/antonio-alexander/go-employee-records/internal"

	"github.com/rs/zerolog"
)

type logger struct {
	writer io.Writer
	zl     zerolog.Logger
	config struct {
		Level  Level
		Format string
	}
}

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	default:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	case Trace:
		return zerolog.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// zerolog's global level is opened to trace once, filtering is done by
// each logger's own level
func init() {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// NewLogger creates a logger that writes json lines to stdout (or the
// io.Writer provided as a parameter), it only logs errors until
// configured otherwise. Configure never changes zerolog's global level.
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	l := &logger{writer: os.Stdout}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			l.writer = p
		}
	}
	l.config.Level = Error
	l.build()
	return l
}

func (l *logger) build() {
	var writer io.Writer = l.writer

	if l.config.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: l.writer, NoColor: true}
	}
	l.zl = zerolog.New(writer).With().Timestamp().Logger().
		Level(l.config.Level.zerolog())
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	if logFormat, ok := envs["LOG_FORMAT"]; ok {
		l.config.Format = strings.ToLower(logFormat)
	}
	l.build()
	return nil
}

func (l *logger) printf(ctx context.Context, event *zerolog.Event, format string, v ...any) {
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		event = event.Str("correlation_id", correlationId)
	}
	event.Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.printf(ctx, l.zl.Error(), format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.printf(ctx, l.zl.Info(), format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.printf(ctx, l.zl.Debug(), format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.printf(ctx, l.zl.Trace(), format, v...)
}
