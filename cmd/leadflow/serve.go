package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/infra/http/handlers"
	"github.com/xavierca1/leadflow/internal/infra/queue"
	"github.com/xavierca1/leadflow/internal/infra/ratelimit"
	"github.com/xavierca1/leadflow/internal/usecase"
	"github.com/xavierca1/leadflow/internal/validation"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	checks := map[string]handlers.Check{cfg.Store.Driver: st.Ping}

	var events usecase.EventPublisher = queue.NopPublisher{}
	if cfg.AMQP.URL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer rabbit.Close()
		events = queue.NewProducer(rabbit.Ch)
		checks["rabbitmq"] = func(context.Context) error {
			if !rabbit.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		}
		log.Info("publishing lead events", zap.String("exchange", queue.ExchangeName))
	} else {
		checks["rabbitmq"] = nil
	}

	limiter, err := rateLimiter(ctx, cfg, log, checks)
	if err != nil {
		return err
	}

	v := validation.New()
	dispatcher := usecase.NewDispatcher(cfg.Notify.Timeout, log)
	notifier := usecase.NewNotifier(emailSender(cfg, log), smsSender(cfg, log), usecase.NotifierConfig{
		From:       cfg.Email.From,
		Recipients: cfg.Notify.Recipients,
		SiteName:   cfg.Notify.SiteName,
	}, log)

	status := usecase.NewLeadStatusUseCase(st.Leads, events, v, log)
	router := handlers.NewRouter(handlers.Routes{
		Leads: handlers.NewLeadHandler(
			usecase.NewLandingIntake(st.Leads, notifier, events, dispatcher, log),
			usecase.NewAdminIntake(st.Leads, st.Categories, v, notifier, events, dispatcher, log),
			usecase.NewManageLeadsUseCase(st.Leads, st.Categories, status, v),
			usecase.NewAssignLeadUseCase(st.Leads, st.Users, notifier, events, v, log),
			log,
		),
		Contacts:       handlers.NewContactHandler(usecase.NewSubmitContactUseCase(st.Contacts, notifier, dispatcher, v, log), log),
		Categories:     handlers.NewCategoryHandler(usecase.NewManageCategoriesUseCase(st.Categories, v), log),
		Users:          handlers.NewUserHandler(usecase.NewManageUsersUseCase(st.Users, v), log),
		Webhook:        handlers.NewWebhookHandler(status, cfg.Webhook.Secret, log),
		Health:         handlers.NewHealthHandler(version, checks),
		Limiter:        limiter,
		AdminToken:     cfg.Admin.Token,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
	})

	if cfg.Admin.Token == "" {
		log.Warn("ADMIN_API_TOKEN not set; admin routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("notifications still in flight at shutdown", zap.Error(err))
	}
	return nil
}

// rateLimiter builds the limiter for public endpoints. The memory janitor
// stops with ctx.
func rateLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger, checks map[string]handlers.Check) (ratelimit.Limiter, error) {
	rl := cfg.RateLimit
	switch rl.Backend {
	case "off":
		log.Warn("rate limiting disabled")
		return ratelimit.Nop{}, nil
	case "redis":
		client, err := ratelimit.Connect(ctx, rl.RedisURL)
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, func() { client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info("rate limiter ready", zap.String("backend", "redis"), zap.Int("requests", rl.Requests), zap.Duration("window", rl.Window))
		return ratelimit.NewRedis(client, rl.Requests, rl.Window), nil
	default:
		m := ratelimit.NewMemory(rl.Requests, rl.Window)
		go m.Run(ctx, 10*time.Minute)
		log.Info("rate limiter ready", zap.String("backend", "memory"), zap.Int("requests", rl.Requests), zap.Duration("window", rl.Window))
		return m, nil
	}
}
