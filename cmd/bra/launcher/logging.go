package launcher

import (
	"fmt"
	"io"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// sentryTimeout bounds how long an error report may delay the command.
const sentryTimeout = 2 * time.Second

// newLogger builds the logrus logger described by cfg, writing to out.
// With a Sentry DSN, entries at error level and above are also reported there.
func newLogger(cfg LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	if cfg.Verbosity < int(logrus.PanicLevel) || cfg.Verbosity > int(logrus.TraceLevel) {
		return nil, fmt.Errorf("log verbosity %d out of range (0-6)", cfg.Verbosity)
	}
	log.SetLevel(logrus.Level(cfg.Verbosity))

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up sentry hook: %w", err)
		}
		hook.Timeout = sentryTimeout
		log.AddHook(hook)
	}
	return log, nil
}
