package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SyntaxSorcerers2025/ticketly/internal/config"
	"github.com/SyntaxSorcerers2025/ticketly/internal/database"
	"github.com/SyntaxSorcerers2025/ticketly/internal/notify"
	"github.com/SyntaxSorcerers2025/ticketly/internal/router"
	"github.com/SyntaxSorcerers2025/ticketly/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// A process without a signing secret cannot authenticate anyone.
	if cfg.SessionSecret == "" {
		l.Fatal().Msg("SESSION_SECRET is required")
	}

	// db (fatal when unreachable; the API must not serve without a store)
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	deps := router.Deps{}

	// Optional collaborators: absence downgrades features, never aborts.
	if cfg.AMQPURL != "" {
		pub, err := notify.NewPublisher(cfg.AMQPURL, "ticket-events", l)
		if err != nil {
			l.Warn().Err(err).Msg("amqp connect failed; notifications disabled")
		} else {
			defer pub.Close()
			deps.Publisher = pub
		}
	}
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Warn().Err(err).Msg("redis connect failed; ai cache disabled")
		} else {
			defer rc.Close()
			deps.Redis = rc
		}
	}

	// http
	r := router.New(l, pool, cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("shutdown error")
	}
	l.Info().Msg("api stopped")
}
