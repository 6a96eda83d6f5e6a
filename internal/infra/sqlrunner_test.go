package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"supportraise/internal/sqlinline"
)

func TestParseStatement(t *testing.T) {
	st, err := parseStatement(sqlinline.QDeletePartner)
	if err != nil {
		t.Fatalf("parseStatement returned error: %v", err)
	}
	if st.id != "8dd77079-db95-413c-bba6-5d3ae985240c" {
		t.Fatalf("query id mismatch: %q", st.id)
	}
	if st.kind != "delete" {
		t.Fatalf("statement kind = %q, want delete", st.kind)
	}
	if strings.Contains(st.body, "--sql") || !strings.HasPrefix(st.body, "delete from partners") {
		t.Fatalf("body not trimmed: %q", st.body)
	}
}

func TestParseStatementRejectsUnmarkedQueries(t *testing.T) {
	for _, q := range []string{"", "select 1", "--sql not-a-uuid\nselect 1"} {
		if _, err := parseStatement(q); !errors.Is(err, ErrMissingMarker) {
			t.Fatalf("query %q: expected ErrMissingMarker, got %v", q, err)
		}
	}
}

type recordingExecutor struct {
	queries []string
	tag     pgconn.CommandTag
	err     error
}

func (e *recordingExecutor) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	e.queries = append(e.queries, query)
	return e.tag, e.err
}

func (e *recordingExecutor) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	e.queries = append(e.queries, query)
	return errorRow{err: pgx.ErrNoRows}
}

func (e *recordingExecutor) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	e.queries = append(e.queries, query)
	return nil, e.err
}

func TestSQLRunnerStripsMarkerAndLogsQueryID(t *testing.T) {
	var buf bytes.Buffer
	exec := &recordingExecutor{tag: pgconn.NewCommandTag("DELETE 1")}
	r := NewSQLRunner(exec, zerolog.New(&buf).Level(zerolog.DebugLevel))

	tag, err := r.Exec(context.Background(), sqlinline.QDeletePartner, "user-1", "p-1")
	if err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if tag.RowsAffected() != 1 {
		t.Fatalf("rows = %d", tag.RowsAffected())
	}
	if len(exec.queries) != 1 || strings.HasPrefix(exec.queries[0], "--sql") {
		t.Fatalf("marker reached the database: %q", exec.queries)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v (%s)", err, buf.String())
	}
	if entry["query_id"] != "8dd77079-db95-413c-bba6-5d3ae985240c" || entry["statement"] != "delete" {
		t.Fatalf("unexpected log fields: %v", entry)
	}
	if entry["level"] != "debug" || entry["component"] != "partner_store" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestSQLRunnerWarnsOnSlowStatements(t *testing.T) {
	var buf bytes.Buffer
	r := NewSQLRunner(&recordingExecutor{}, zerolog.New(&buf))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	r.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}

	if err := r.QueryRow(context.Background(), sqlinline.QSelectStatistics, "user-1").Scan(); !IsNoRows(err) {
		t.Fatalf("expected no rows, got %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v (%s)", err, buf.String())
	}
	if entry["level"] != "warn" || entry["slow"] != true || entry["found"] != false {
		t.Fatalf("expected slow warn entry, got %v", entry)
	}
}

func TestSQLRunnerLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	r := NewSQLRunner(&recordingExecutor{err: errors.New("connection reset")}, zerolog.New(&buf))

	if _, err := r.Query(context.Background(), sqlinline.QListPartnersByUser, "user-1"); err == nil {
		t.Fatal("expected query error")
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "partner store query failed") {
		t.Fatalf("missing error log: %s", buf.String())
	}
}

func TestSQLRunnerRejectsBeforeTouchingPool(t *testing.T) {
	r := NewSQLRunner(nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := r.Exec(ctx, "delete from partners"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Exec: expected ErrMissingMarker, got %v", err)
	}
	if _, err := r.Query(ctx, "select 1"); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("Query: expected ErrMissingMarker, got %v", err)
	}
	if err := r.QueryRow(ctx, "select 1").Scan(); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("QueryRow: expected ErrMissingMarker, got %v", err)
	}
}

func TestAllInlineQueriesAreMarked(t *testing.T) {
	queries := []string{
		sqlinline.QListPartnersByUser,
		sqlinline.QSelectPartnerByID,
		sqlinline.QUpsertPartner,
		sqlinline.QDeletePartner,
		sqlinline.QSelectStatistics,
		sqlinline.QUpsertStatistics,
		sqlinline.QPing,
	}
	seen := map[string]bool{}
	for _, q := range queries {
		st, err := parseStatement(q)
		if err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		if seen[st.id] {
			t.Fatalf("marker %s used twice", st.id)
		}
		seen[st.id] = true
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Fatal("pgx.ErrNoRows should match")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatal("unrelated error should not match")
	}
}
