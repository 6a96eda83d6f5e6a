package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"supportraise/internal/adapter"
	"supportraise/internal/domain"
	"supportraise/internal/infra"
)

type request struct {
	userID string
	stats  domain.Statistics
}

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred store cleanup always happens.
func run(args []string, stdout io.Writer) error {
	req, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := infra.LoadStoreConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger("cli").With().Str("cmd", "settarget").Str("backend", cfg.StoreBackend).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := adapter.OpenStore(ctx, cfg, logger, adapter.OpenOptions{})
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.PutStatistics(ctx, req.userID, req.stats); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}

	fmt.Fprintf(stdout, "User %s target=%.2f deadline=%s\n", req.userID, req.stats.Target, req.stats.Deadline.Format(time.RFC3339))
	return nil
}

func parseArgs(args []string) (request, error) {
	fs := flag.NewFlagSet("settarget", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		userFlag     string
		targetFlag   float64
		deadlineFlag string
	)
	fs.StringVar(&userFlag, "user", "", "user ID that owns the goal")
	fs.Float64Var(&targetFlag, "target", 0, "fundraising target amount")
	fs.StringVar(&deadlineFlag, "deadline", "", "goal deadline (YYYY-MM-DD or RFC3339)")
	if err := fs.Parse(args); err != nil {
		return request{}, err
	}

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		return request{}, errors.New("-user is required")
	}
	if targetFlag < 0 {
		return request{}, errors.New("-target must not be negative")
	}
	deadline, err := parseDeadline(deadlineFlag)
	if err != nil {
		return request{}, err
	}
	return request{userID: userID, stats: domain.Statistics{Target: targetFlag, Deadline: deadline}}, nil
}

func parseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("-deadline is required")
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -deadline %q", raw)
	}
	return t.UTC(), nil
}
