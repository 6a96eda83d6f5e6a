package infra

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLExecutor is the query surface the Postgres repositories depend on.
// *pgxpool.Pool satisfies it, as does SQLRunner.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

// DefaultSlowQuery is the duration after which a statement is logged at warn.
const DefaultSlowQuery = 250 * time.Millisecond

var markerRegexp = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// ErrMissingMarker is returned for queries that do not start with a
// "--sql <uuid>" audit marker line.
var ErrMissingMarker = errors.New("sql marker missing or invalid")

// SQLRunner refuses unmarked statements, strips the marker, and logs each
// partner store statement by its query id.
type SQLRunner struct {
	db        SQLExecutor
	logger    zerolog.Logger
	slowQuery time.Duration
	now       func() time.Time
}

// NewSQLRunner wraps db, usually a *pgxpool.Pool.
func NewSQLRunner(db SQLExecutor, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{
		db:        db,
		logger:    logger.With().Str("component", "partner_store").Logger(),
		slowQuery: DefaultSlowQuery,
		now:       time.Now,
	}
}

// statement is a parsed, marker-checked query.
type statement struct {
	id   string
	kind string
	body string
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	st, err := parseStatement(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	start := r.now()
	tag, err := r.db.Exec(ctx, st.body, args...)
	if err != nil {
		r.event(st, err).Err(err).Msg("partner store statement failed")
		return tag, err
	}
	r.timed(st, start).Int64("rows", tag.RowsAffected()).Msg("partner store statement")
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	st, err := parseStatement(query)
	if err != nil {
		return errorRow{err: err}
	}
	return &loggedRow{row: r.db.QueryRow(ctx, st.body, args...), runner: r, st: st, start: r.now()}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	st, err := parseStatement(query)
	if err != nil {
		return nil, err
	}
	start := r.now()
	rows, err := r.db.Query(ctx, st.body, args...)
	if err != nil {
		r.event(st, err).Err(err).Msg("partner store query failed")
		return nil, err
	}
	return &loggedRows{Rows: rows, runner: r, st: st, start: start}, nil
}

// timed logs at debug, or at warn once the statement is slower than slowQuery.
func (r *SQLRunner) timed(st statement, start time.Time) *zerolog.Event {
	took := r.now().Sub(start)
	ev := r.logger.Debug()
	if took >= r.slowQuery {
		ev = r.logger.Warn().Bool("slow", true)
	}
	return ev.Str("query_id", st.id).Str("statement", st.kind).Dur("took", took)
}

func (r *SQLRunner) event(st statement, err error) *zerolog.Event {
	ev := r.logger.Error()
	if errors.Is(err, context.Canceled) {
		ev = r.logger.Debug()
	}
	return ev.Str("query_id", st.id).Str("statement", st.kind)
}

// IsNoRows reports whether err means a single-row query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type loggedRow struct {
	row    pgx.Row
	runner *SQLRunner
	st     statement
	start  time.Time
}

func (l *loggedRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	switch {
	case err == nil:
		l.runner.timed(l.st, l.start).Msg("partner store row")
	case IsNoRows(err):
		l.runner.timed(l.st, l.start).Bool("found", false).Msg("partner store row")
	default:
		l.runner.event(l.st, err).Err(err).Msg("partner store row failed")
	}
	return err
}

type loggedRows struct {
	pgx.Rows
	runner *SQLRunner
	st     statement
	start  time.Time
	count  int
	closed bool
}

func (l *loggedRows) Next() bool {
	if l.Rows.Next() {
		l.count++
		return true
	}
	return false
}

func (l *loggedRows) Close() {
	l.Rows.Close()
	if l.closed {
		return
	}
	l.closed = true
	if err := l.Rows.Err(); err != nil {
		l.runner.event(l.st, err).Err(err).Msg("partner store rows failed")
		return
	}
	l.runner.timed(l.st, l.start).Int("rows", l.count).Msg("partner store rows")
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(...any) error {
	return e.err
}

// parseStatement splits the marker line from the statement body.
func parseStatement(query string) (statement, error) {
	first, body, _ := strings.Cut(strings.TrimSpace(query), "\n")
	m := markerRegexp.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return statement{}, ErrMissingMarker
	}
	body = strings.TrimSpace(body)
	st := statement{id: m[1], body: body}
	if fields := strings.Fields(body); len(fields) > 0 {
		st.kind = strings.ToLower(fields[0])
	}
	return st, nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
