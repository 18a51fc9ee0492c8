package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/romizzidiamly/vocabmaster/internal/config"
)

// Open connects to the configured SQL database and creates the schema
func Open(cfg config.StorageConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(cfg.PostgresDSN)
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (or creates) a SQLite file. ":memory:" is accepted for tests.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects with a lib/pq DSN
func OpenPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist.
// The statements are valid for both SQLite and PostgreSQL.
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create topics table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vocab_items (
			id TEXT NOT NULL,
			topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			synonyms TEXT NOT NULL,
			enrichment TEXT,
			user_guesses TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'hidden',
			PRIMARY KEY (topic_id, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create vocab_items table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_vocab_items_topic ON vocab_items (topic_id, position)`)
	if err != nil {
		return fmt.Errorf("failed to create vocab_items index: %w", err)
	}

	return nil
}
