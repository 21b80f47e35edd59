package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slackapi "github.com/slack-go/slack"

	"github.com/policydesk/policydesk/internal/config"
	"github.com/policydesk/policydesk/internal/health"
	"github.com/policydesk/policydesk/internal/httpapi"
	"github.com/policydesk/policydesk/internal/metrics"
	"github.com/policydesk/policydesk/internal/notify"
	"github.com/policydesk/policydesk/internal/registry"
	"github.com/policydesk/policydesk/internal/session"
	"github.com/policydesk/policydesk/internal/timeline"
)

func main() {
	// Structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Bool("slack_enabled", cfg.SlackEnabled()).
		Msg("starting policydesk")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Client registry (static fixture book for now)
	reg, err := registry.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load client registry")
	}

	checker := health.NewChecker(logger)
	checker.Register("registry", func(context.Context) health.Status {
		if len(reg.Clients()) == 0 {
			return health.StatusDown
		}
		return health.StatusOK
	})

	m := metrics.New()

	// Session store: hydrate with the server-computed snapshot before the
	// listener starts so no request ever races bootstrap. Fresh processes
	// boot anonymous; a session backend would restore a live state here.
	store := session.NewStore(logger)
	if err := store.Hydrate(session.State{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to hydrate session store")
	}

	source := timeline.NewCachedSource(
		timeline.NewFixtureSource(time.Now().UTC().Truncate(time.Hour)),
		cfg.TimelineCacheSize,
	)

	guard := httpapi.GuardConfig{
		JWTSecret:  []byte(cfg.JWTSecret),
		LoginPath:  cfg.LoginPath,
		SessionTTL: cfg.SessionTTL,
	}
	creds := httpapi.Credentials{
		Email:    cfg.DashboardEmail,
		Password: cfg.DashboardPassword,
		UserName: cfg.DashboardUserName,
	}

	handlers := httpapi.NewHandlers(store, reg, source, guard, creds, m, logger, nil)
	srv := httpapi.NewServer(httpapi.ServerConfig{
		ListenAddr:  cfg.ListenAddr,
		Guard:       guard,
		Credentials: creds,
		RateLimit:   httpapi.RateLimitConfig{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
		CORSOrigins: cfg.CORSOrigins,
	}, handlers, checker, m, logger)

	// Renewal digest notifier (optional)
	if cfg.SlackEnabled() {
		notifier := notify.New(slackapi.New(cfg.SlackToken), cfg.SlackChannel, logger)
		go runDigestLoop(ctx, notifier, reg, m, cfg.RenewalWindowDays, logger)
	} else {
		logger.Info().Msg("Slack not configured — renewal digest disabled")
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			cancel()
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

// runDigestLoop posts a renewal digest at startup and then daily.
func runDigestLoop(
	ctx context.Context,
	notifier *notify.Notifier,
	reg *registry.Registry,
	m *metrics.Metrics,
	windowDays int,
	logger zerolog.Logger,
) {
	send := func() {
		expiring := reg.ExpiringWithin(time.Now().UTC(), windowDays)
		if err := notifier.SendRenewalDigest(ctx, expiring); err != nil {
			m.RecordDigest("error")
			return
		}
		m.RecordDigest("ok")
	}

	send()
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("digest loop stopped")
			return
		case <-ticker.C:
			send()
		}
	}
}
