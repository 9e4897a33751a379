package main

import "testing"

func TestDefaultBackfillYears(t *testing.T) {
	getenv := func(key string) string { return "" }
	if got := defaultBackfillYears(getenv); got != defaultYears {
		t.Fatalf("expected default %d, got %d", defaultYears, got)
	}

	getenv = func(key string) string {
		if key == "BACKFILL_YEARS" {
			return "5"
		}
		return ""
	}
	if got := defaultBackfillYears(getenv); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}

	getenv = func(key string) string {
		if key == "BACKFILL_YEARS" {
			return "50"
		}
		return ""
	}
	if got := defaultBackfillYears(getenv); got != defaultYears {
		t.Fatalf("expected out-of-range value ignored, got %d", got)
	}

	getenv = func(key string) string {
		if key == "BACKFILL_YEARS" {
			return "nope"
		}
		return ""
	}
	if got := defaultBackfillYears(getenv); got != defaultYears {
		t.Fatalf("expected unparsable value ignored, got %d", got)
	}
}

func TestParseOptions(t *testing.T) {
	getenv := func(key string) string {
		if key == "BACKFILL_YEARS" {
			return "4"
		}
		return ""
	}

	opts, err := parseOptions(nil, getenv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.years != 4 {
		t.Fatalf("expected years=4 from env, got %d", opts.years)
	}
	if !opts.migrate {
		t.Fatal("expected migrations enabled by default")
	}

	opts, err = parseOptions([]string{"--years", "2", "--migrate=false"}, getenv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.years != 2 {
		t.Fatalf("expected years=2, got %d", opts.years)
	}
	if opts.migrate {
		t.Fatal("expected migrations disabled")
	}

	if _, err := parseOptions([]string{"--years", "0"}, getenv); err == nil {
		t.Fatal("expected invalid years error")
	}
	if _, err := parseOptions([]string{"--years", "11"}, getenv); err == nil {
		t.Fatal("expected years over cap error")
	}
}
