package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// dbPool is the singleton database connection pool
	dbPool *sql.DB
	// dbOnce ensures the pool is created only once
	dbOnce sync.Once
	// dbErr stores any error from pool creation
	dbErr error
)

// dbPathFunc is a variable holding the function to get DB path (for testing)
var dbPathFunc = getDefaultDBPath

// SetDBPath points the store at an explicit database file.
// It must be called before the first GetDB; an empty path keeps the default.
func SetDBPath(path string) {
	if path == "" {
		return
	}
	dbPathFunc = func() (string, error) { return path, nil }
}

// GetDB returns the singleton database connection pool.
// It creates the pool on first call and reuses it for all subsequent calls.
func GetDB() (*sql.DB, error) {
	dbOnce.Do(func() {
		dbPath, err := dbPathFunc()
		if err != nil {
			dbErr = fmt.Errorf("failed to get database path: %w", err)
			return
		}

		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			dbErr = fmt.Errorf("failed to create database directory: %w", err)
			return
		}

		// Open connection pool (doesn't actually connect yet)
		dbPool, err = sql.Open("sqlite3", dbPath)
		if err != nil {
			dbErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		// A single writer keeps sqlite happy; the TUI never needs more
		dbPool.SetMaxOpenConns(1)
		dbPool.SetConnMaxLifetime(0)

		if _, err := dbPool.Exec("PRAGMA journal_mode=WAL"); err != nil {
			dbErr = fmt.Errorf("failed to set WAL mode: %w", err)
			dbPool.Close()
			dbPool = nil
			return
		}

		if _, err := dbPool.Exec("PRAGMA busy_timeout=5000"); err != nil {
			dbErr = fmt.Errorf("failed to set busy timeout: %w", err)
			dbPool.Close()
			dbPool = nil
			return
		}

		if err := dbPool.Ping(); err != nil {
			dbErr = fmt.Errorf("failed to ping database: %w", err)
			dbPool.Close()
			dbPool = nil
			return
		}
	})

	if dbErr != nil {
		return nil, dbErr
	}

	return dbPool, nil
}

// CloseDB closes the singleton database connection pool.
// This should only be called when the application is shutting down.
func CloseDB() error {
	var err error
	if dbPool != nil {
		err = dbPool.Close()
		dbPool = nil
	}
	dbErr = nil
	// Reset the once so a new pool can be created
	dbOnce = sync.Once{}
	return err
}

// getDefaultDBPath returns the default path to the SQLite database
func getDefaultDBPath() (string, error) {
	// Use XDG_DATA_HOME for database storage (XDG Base Directory spec)
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		xdgDataHome = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(xdgDataHome, "songshelf", "songshelf.db"), nil
}
