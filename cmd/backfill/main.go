package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"remitiq/internal/db"
	"remitiq/internal/domain"
	"remitiq/internal/ratesource"
	"remitiq/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultYears = 3
	maxYears     = 10
)

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

type options struct {
	years   int
	migrate bool
}

func main() {
	loadEnvFunc()

	opts, err := parseOptions(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("parse options: %v", err)
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	if opts.migrate {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
	}

	tracer := trace.NewNoopTracerProvider().Tracer("backfill")
	rateRepo := repository.NewRateRepository(pool, tracer)

	var clientOpts []ratesource.ClientOption
	if base := strings.TrimSpace(os.Getenv("FRANKFURTER_BASE_URL")); base != "" {
		clientOpts = append(clientOpts, ratesource.WithFrankfurterBaseURL(base))
	}
	client := ratesource.NewClient(tracer, clientOpts...)

	log.Printf("starting rate backfill: years=%d", opts.years)

	points, err := client.LongTermHistory(ctx, opts.years)
	if err != nil {
		log.Fatalf("fetch long-term history: %v", err)
	}
	if len(points) == 0 {
		log.Fatal("no rates returned")
	}

	rates := make([]domain.DailyRate, 0, len(points))
	for _, p := range points {
		rates = append(rates, domain.DailyRate{
			Date:      p.Date.Format("2006-01-02"),
			MidMarket: p.MidMarket,
			BestRate:  p.Rate,
			Source:    "frankfurter",
		})
	}
	if err := rateRepo.UpsertDailyRates(ctx, rates); err != nil {
		log.Fatalf("upsert daily rates: %v", err)
	}

	first := rates[0].Date
	last := rates[len(rates)-1].Date
	log.Printf("backfill complete: %d daily rates (%s to %s)", len(rates), first, last)
}

func parseOptions(args []string, getenv func(string) string) (options, error) {
	fs := flag.NewFlagSet("backfill", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	years := fs.Int("years", defaultBackfillYears(getenv), "years of daily history to backfill (default from BACKFILL_YEARS, else 3)")
	migrate := fs.Bool("migrate", true, "run schema migrations before backfilling")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if *years <= 0 {
		return options{}, fmt.Errorf("years must be > 0")
	}
	if *years > maxYears {
		return options{}, fmt.Errorf("years must be <= %d", maxYears)
	}

	return options{
		years:   *years,
		migrate: *migrate,
	}, nil
}

func defaultBackfillYears(getenv func(string) string) int {
	v := strings.TrimSpace(getenv("BACKFILL_YEARS"))
	if v == "" {
		return defaultYears
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxYears {
		return defaultYears
	}
	return n
}
