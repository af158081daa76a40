package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/wildo/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteStore appends every save as a row and keeps the newest history rows.
type SQLiteStore struct {
	db      *sql.DB
	history int
}

// Revision describes one stored snapshot.
type Revision struct {
	ID      int64
	Writer  string
	SavedAt time.Time
	Version int
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// ":memory:" opens a private in-memory database.
func OpenSQLite(path string, history int) (*SQLiteStore, error) {
	if history < 1 {
		history = 1
	}

	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug(log.CatStore, "sqlite store ready", "path", path, "history", history)
	return &SQLiteStore{db: db, history: history}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	// m is not closed: closing it would close db.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// Load returns the newest snapshot. An empty table means first run.
func (s *SQLiteStore) Load(ctx context.Context) (*Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info(log.CatStore, "no snapshot yet")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return Decode([]byte(body))
}

// Save inserts snap and prunes rows beyond the history limit in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (writer, saved_at, version, body) VALUES (?, ?, ?, ?)`,
		snap.Writer, snap.SavedAt.UTC().Format(time.RFC3339Nano), snap.Version, string(data),
	); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`,
		s.history,
	)
	if err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	pruned, _ := res.RowsAffected()
	log.Debug(log.CatStore, "snapshot saved", "bytes", len(data), "pruned", pruned)
	return nil
}

// Revisions lists stored snapshots, newest first.
func (s *SQLiteStore) Revisions(ctx context.Context) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, writer, saved_at, version FROM snapshots ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var (
			r       Revision
			savedAt string
		)
		if err := rows.Scan(&r.ID, &r.Writer, &savedAt, &r.Version); err != nil {
			return nil, fmt.Errorf("scanning revision: %w", err)
		}
		r.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, fmt.Errorf("revision %d saved_at: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating revisions: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
