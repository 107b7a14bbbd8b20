package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is stamped into PRAGMA user_version when a database is
// created. Databases stamped with a higher version are refused.
const SchemaVersion = 1

var (
	// ErrNoDatabase is returned by a read-only Open of a missing file.
	ErrNoDatabase = errors.New("database does not exist")

	// ErrSchemaVersion is returned for a file that is not a run database
	// this build can read.
	ErrSchemaVersion = errors.New("unsupported schema version")
)

// Store records scenario runs, their frames and their leitmotifs.
type Store struct {
	db       *sql.DB
	readOnly bool
}

type openConfig struct {
	readOnly bool
}

// Option configures Open.
type Option func(*openConfig)

// ReadOnly opens an existing database without creating or changing it.
// Every write through the store fails.
func ReadOnly() Option {
	return func(c *openConfig) { c.readOnly = true }
}

// Open opens the run database at path, creating it and its tables unless
// ReadOnly is given. Connections run with foreign keys enforced and a
// five second busy timeout; writable stores use WAL journaling.
func Open(path string, opts ...Option) (*Store, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.readOnly {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("open %s: %w", path, ErrNoDatabase)
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection: SQLite has a single writer, and the DSN pragmas
	// apply per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if cfg.readOnly {
		err = checkSchema(db)
	} else {
		err = createSchema(db)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Store{db: db, readOnly: cfg.readOnly}, nil
}

// dsn appends the go-sqlite3 connection parameters to path.
func dsn(path string, cfg openConfig) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", "5000")
	if cfg.readOnly {
		params.Set("_query_only", "on")
	} else {
		params.Set("_journal_mode", "WAL")
		params.Set("_synchronous", "NORMAL")
	}
	return path + "?" + params.Encode()
}

func userVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}

// createSchema creates the run tables on a fresh file and stamps it.
// Reopening a current database is a no-op.
func createSchema(db *sql.DB) error {
	v, err := userVersion(db)
	if err != nil {
		return err
	}
	if v > SchemaVersion {
		return fmt.Errorf("schema version %d: %w", v, ErrSchemaVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return tx.Commit()
}

// checkSchema verifies a database opened read-only was written by this
// store.
func checkSchema(db *sql.DB) error {
	v, err := userVersion(db)
	if err != nil {
		return err
	}
	if v == 0 || v > SchemaVersion {
		return fmt.Errorf("schema version %d: %w", v, ErrSchemaVersion)
	}
	return nil
}

// Close closes the database. Closing a closed store is harmless.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReadOnly reports whether the store was opened with ReadOnly.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}

// DB returns the underlying handle for queries the store does not offer.
func (s *Store) DB() *sql.DB {
	return s.db
}
