package store

import (
	"context"
	"fmt"

	"checklocales/internal/checker"
	"checklocales/internal/validator"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DB is the subset of *pgxpool.Pool used by RunStore.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

var _ DB = (*pgxpool.Pool)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS checklocales_runs (
	id             BIGSERIAL PRIMARY KEY,
	root           TEXT        NOT NULL,
	default_locale TEXT        NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL,
	duration_ms    BIGINT      NOT NULL,
	directories    INTEGER     NOT NULL,
	tables         INTEGER     NOT NULL,
	failed         BOOLEAN     NOT NULL
);

CREATE TABLE IF NOT EXISTS checklocales_diagnostics (
	run_id     BIGINT  NOT NULL REFERENCES checklocales_runs(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	kind       TEXT    NOT NULL,
	dir        TEXT    NOT NULL,
	file       TEXT    NOT NULL,
	grp        TEXT    NOT NULL,
	locale     TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	token      TEXT    NOT NULL,
	reference  TEXT    NOT NULL,
	candidate  TEXT    NOT NULL,
	count      INTEGER NOT NULL,
	message    TEXT    NOT NULL,
	PRIMARY KEY (run_id, seq)
);`

var diagnosticColumns = []string{
	"run_id", "seq", "kind", "dir", "file", "grp", "locale",
	"key", "token", "reference", "candidate", "count", "message",
}

// RunStore keeps a history of runs and their findings in PostgreSQL.
type RunStore struct {
	db DB
}

// NewRunStore creates a store backed by db.
func NewRunStore(db DB) *RunStore {
	return &RunStore{db: db}
}

// EnsureSchema creates the history tables if needed.
func (s *RunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure run history schema: %w", err)
	}
	return nil
}

// Record stores res and returns the new run id.
func (s *RunStore) Record(ctx context.Context, root, defaultLocale string, res *checker.Result) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO checklocales_runs (root, default_locale, started_at, duration_ms, directories, tables, failed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		root, defaultLocale, res.Started, res.Duration.Milliseconds(), len(res.Directories), res.Tables, res.Failed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	rows := diagnosticRows(id, res.Diagnostics)
	if len(rows) > 0 {
		n, err := s.db.CopyFrom(ctx, pgx.Identifier{"checklocales_diagnostics"}, diagnosticColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return id, fmt.Errorf("copy diagnostics: %w", err)
		}
		log.Debug().Int64("run", id).Int64("diagnostics", n).Msg("Stored diagnostics")
	}

	return id, nil
}

func diagnosticRows(runID int64, diags []validator.Diagnostic) [][]any {
	rows := make([][]any, 0, len(diags))
	for i, d := range diags {
		msg := ""
		if d.Err != nil {
			msg = d.Err.Error()
		}
		rows = append(rows, []any{
			runID, int32(i), d.Kind.String(), d.Dir, d.File, d.Group, d.Locale,
			d.Key, d.Token, d.Reference, d.Candidate, int32(d.Count), msg,
		})
	}
	return rows
}
