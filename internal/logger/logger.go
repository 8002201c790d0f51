package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options configure the process logger.
type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	AppName     string
	Output      io.Writer // defaults to stdout
}

// Init installs the default slog logger. Development logs text at debug
// level, everything else JSON at info. With a Sentry DSN, errors are also
// forwarded to Sentry (deletion cascades that abort on a database failure
// end up there). The returned function flushes pending Sentry events.
func Init(opts Options) func() {
	handlers := []slog.Handler{consoleHandler(opts)}

	flush := func() {}
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			TracesSampleRate: 0.2,
		})
		if err != nil {
			slog.New(handlers[0]).Warn("sentry disabled", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	log := slog.New(handler)
	if opts.AppName != "" {
		log = log.With("app", opts.AppName)
	}
	slog.SetDefault(log)

	return flush
}

func consoleHandler(opts Options) slog.Handler {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	if opts.Development {
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
}
