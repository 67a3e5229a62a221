// Command rollover runs one ledger rollover step by hand, for recovery when
// the in-process scheduler missed a day or the ledger drifted.
//
// Usage:
//
//	rollover open
//	rollover close
//	rollover resync -reason "stocktake 2026-10-15"
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/adapter/postgres/inventory"
	"github.com/aerotrack/partledger/internal/adapter/postgres/ledger"
	"github.com/aerotrack/partledger/internal/app"
	"github.com/aerotrack/partledger/internal/config"
	"github.com/aerotrack/partledger/internal/domain"
	ledgersvc "github.com/aerotrack/partledger/internal/service/ledger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	reason := fs.String("reason", "", "why the ledger is being resynced")
	if err := fs.Parse(os.Args[2:]); err != nil {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := ledgersvc.NewService(logger, ledger.New(pool), inventory.New(pool),
		postgres.NewTxManager(pool), clockwork.NewRealClock(), cfg.Ledger.Location)

	var (
		l       *domain.DailyLedger
		changed = true
	)
	switch cmd {
	case "open":
		l, changed, err = svc.OpenDay(ctx)
	case "close":
		l, changed, err = svc.CloseDay(ctx)
	case "resync":
		l, err = svc.ForceResync(ctx, ledgersvc.ResyncInput{Reason: *reason})
	default:
		usage()
	}
	if err != nil {
		logger.Error("rollover failed", slog.String("step", cmd), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("rollover completed",
		slog.String("step", cmd),
		slog.String("date", l.Date.Format(domain.DateLayout)),
		slog.Bool("changed", changed),
		slog.Int("opening_stock", l.OpeningStock),
	)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rollover open|close|resync [-reason text]")
	os.Exit(2)
}
