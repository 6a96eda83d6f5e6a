package main

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("2024-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got, err = parseDeadline("2024-12-31T10:00:00+13:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 21 || got.Day() != 30 {
		t.Fatalf("expected UTC conversion, got %v", got)
	}

	for _, raw := range []string{"", "  ", "next week"} {
		if _, err := parseDeadline(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseArgs(t *testing.T) {
	req, err := parseArgs([]string{"-user", " user-1 ", "-target", "5000", "-deadline", "2024-12-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.userID != "user-1" || req.stats.Target != 5000 {
		t.Fatalf("unexpected request: %+v", req)
	}

	for name, args := range map[string][]string{
		"missing user":    {"-target", "1", "-deadline", "2024-12-31"},
		"negative target": {"-user", "u", "-target", "-1", "-deadline", "2024-12-31"},
		"bad deadline":    {"-user", "u", "-deadline", "soon"},
		"unknown flag":    {"-user", "u", "-deadline", "2024-12-31", "-plan", "pro"},
	} {
		if _, err := parseArgs(args); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRunDoesNotRequireJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_BACKEND", "sqlite")

	err := run([]string{"-user", "u", "-target", "1", "-deadline", "2024-12-31"}, io.Discard)
	if err == nil {
		t.Fatal("expected an error for the unsupported backend")
	}
	if strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("settarget must not validate JWT_SECRET: %v", err)
	}
}
