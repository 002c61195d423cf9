// Package logging wires up the structured logger every binary in this
// repository shares: a logrus instance configured from CommonFlags (format,
// verbosity, color) with an optional Sentry hook for crash reporting.
package logging

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/certifi/gocertifi"
	"github.com/evalphobia/logrus_sentry"
	raven "github.com/getsentry/raven-go"
	"github.com/sirupsen/logrus"
)

// Config mirrors the logging-related flags in flags.CommonFlags.
type Config struct {
	Format    string // "text" or "json"
	Verbosity int    // 0=fatal .. 5=trace
	Color     bool
	SentryDSN string // empty disables crash reporting
}

var verbosityLevels = map[int]logrus.Level{
	0: logrus.FatalLevel,
	1: logrus.ErrorLevel,
	2: logrus.WarnLevel,
	3: logrus.InfoLevel,
	4: logrus.DebugLevel,
	5: logrus.TraceLevel,
}

// New builds a *logrus.Logger from cfg. If cfg.SentryDSN is set, every
// Warn/Error/Fatal/Panic log line is also reported to Sentry; a DSN that fails
// to initialize disables reporting rather than failing startup, since a
// broken crash-reporting hook should never take down the process it's
// meant to be watching.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()

	level, ok := verbosityLevels[cfg.Verbosity]
	if !ok {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: cfg.Color, FullTimestamp: true})
	}

	if cfg.SentryDSN != "" {
		hook, err := newSentryHook(cfg.SentryDSN)
		if err != nil {
			logger.WithError(err).Warn("logging: sentry hook disabled")
		} else {
			logger.AddHook(hook)
		}
	}

	return logger
}

// newSentryHook builds a logrus hook that forwards warning-and-above log
// entries to Sentry. It pins raven's HTTP transport to the Mozilla CA
// bundle bundled by gocertifi, since minimal container images often ship
// without a usable system root store and a failed TLS handshake to Sentry
// should never be what tips an operator off that something else is wrong.
func newSentryHook(dsn string) (*logrus_sentry.SentryHook, error) {
	pool, err := gocertifi.CACerts()
	if err != nil {
		return nil, fmt.Errorf("logging: loading CA bundle: %w", err)
	}

	client, err := raven.New(dsn)
	if err != nil {
		return nil, fmt.Errorf("logging: constructing sentry client: %w", err)
	}
	client.Transport = &raven.HTTPTransport{
		Client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{RootCAs: pool},
			},
		},
	}

	hook, err := logrus_sentry.NewWithClientSentryHook(client, []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("logging: constructing sentry hook: %w", err)
	}
	hook.Timeout = 0 // don't block the caller waiting for Sentry's ack
	return hook, nil
}
