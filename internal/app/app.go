package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/adapter/postgres/inventory"
	"github.com/aerotrack/partledger/internal/adapter/postgres/jobcard"
	"github.com/aerotrack/partledger/internal/adapter/postgres/ledger"
	"github.com/aerotrack/partledger/internal/adapter/postgres/part"
	reportrepo "github.com/aerotrack/partledger/internal/adapter/postgres/report"
	"github.com/aerotrack/partledger/internal/adapter/postgres/session"
	"github.com/aerotrack/partledger/internal/adapter/redis"
	"github.com/aerotrack/partledger/internal/auth"
	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/config"
	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/scheduler"
	inventorysvc "github.com/aerotrack/partledger/internal/service/inventory"
	ledgersvc "github.com/aerotrack/partledger/internal/service/ledger"
	reportsvc "github.com/aerotrack/partledger/internal/service/report"
	"github.com/aerotrack/partledger/internal/service/scanning"
	"github.com/aerotrack/partledger/internal/transport/middleware"
	"github.com/aerotrack/partledger/internal/transport/rest"
	"github.com/aerotrack/partledger/internal/transport/ws"
)

const (
	rateLimitCleanup = 5 * time.Minute
	claimKeyPrefix   = "partledger"
)

// Run is the application entry point. It connects to PostgreSQL (and Redis
// when configured), applies migrations, starts the HTTP server, the
// rollover scheduler and the scan consumer, and blocks until ctx is
// cancelled or one of them fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("timezone", cfg.Ledger.Location.String()),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", slog.Any("versions", applied))

	clock := clockwork.NewRealClock()
	loc := cfg.Ledger.Location
	txm := postgres.NewTxManager(pool)

	// Repositories.
	ledgerRepo := ledger.New(pool)
	itemRepo := inventory.New(pool)
	sessionRepo := session.New(pool)
	partRepo := part.New(pool)
	jobCardRepo := jobcard.New(pool)
	reportRepo := reportrepo.New(pool)

	// Event fan-out. With Redis, devices publish to the bus and every
	// instance relays the channel into its own hub.
	hub := broadcast.New(logger, cfg.Broadcast.BufferSize)
	defer hub.Close()

	var (
		publisher broadcast.Publisher = hub
		claims    eventClaimer        = broadcast.LocalClaims{}
	)
	var (
		bus         *redis.Bus
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		bus = redis.NewBus(logger, redisClient, cfg.Broadcast.Channel)
		publisher = bus
		claims = redis.NewClaims(redisClient, claimKeyPrefix, cfg.Broadcast.ClaimTTL)
	}

	// Services.
	ledgerService := ledgersvc.NewService(logger, ledgerRepo, itemRepo, txm, clock, loc)
	inventoryService := inventorysvc.NewService(logger, itemRepo, ledgerService, txm, clock)
	scanningService := scanning.NewService(logger, sessionRepo, partRepo, jobCardRepo, inventoryService, hub, claims, txm, clock)
	reportService := reportsvc.NewService(logger, reportRepo, ledgerRepo, itemRepo, txm, clock, loc)

	sched := scheduler.New(logger, clock, loc, cfg.Ledger.CatchUpInterval, cfg.Ledger.MaxCatchUpAttempts)
	if err := registerRollover(sched, ledgerService, cfg.Ledger); err != nil {
		return err
	}

	// HTTP.
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, clock)
	limiter := middleware.NewRateLimiter(clock, rateLimitCleanup)
	defer limiter.Stop()

	streams := ws.NewHandler(logger, publisher, hub, scanningService, splitOrigins(cfg.CORS.AllowedOrigins))

	checks := []rest.Check{{Name: "postgres", Pinger: pool}}
	if redisClient != nil {
		checks = append(checks, rest.Check{Name: "redis", Pinger: rest.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})})
	}

	mux := rest.NewRouter(rest.Routes{
		Health:        rest.NewHealthHandler(Version, checks...),
		Ledger:        rest.NewLedgerHandler(ledgerService, logger),
		Sessions:      rest.NewSessionHandler(scanningService, logger),
		Items:         rest.NewItemHandler(inventoryService, logger),
		Reports:       rest.NewReportHandler(reportService, logger),
		Scheduler:     rest.NewSchedulerHandler(sched, logger),
		DeviceStream:  streams.ServeDevice,
		SessionStream: streams.ServeSession,
	}, limiter.Limit(cfg.Server.ScanRateLimit, middleware.ByPathValue("deviceID")))

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Auth(verifier),
		middleware.Logger(logger),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return scanningService.Run(gctx) })
	if bus != nil {
		g.Go(func() error { return bus.Relay(gctx, hub) })
	}

	err = g.Wait()
	logger.Info("application stopped")
	return err
}

type eventClaimer interface {
	Claim(ctx context.Context, event domain.ScanEvent) (bool, error)
}

type rolloverService interface {
	OpenDay(ctx context.Context) (*domain.DailyLedger, bool, error)
	CloseDay(ctx context.Context) (*domain.DailyLedger, bool, error)
}

// registerRollover schedules the daily open and close jobs.
func registerRollover(sched *scheduler.Scheduler, svc rolloverService, cfg config.LedgerConfig) error {
	if err := sched.Register("open-day", cfg.OpenAt, func(ctx context.Context) error {
		_, _, err := svc.OpenDay(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("register open-day: %w", err)
	}
	if err := sched.Register("close-day", cfg.CloseAt, func(ctx context.Context) error {
		_, _, err := svc.CloseDay(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("register close-day: %w", err)
	}
	return nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
