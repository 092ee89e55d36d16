package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/momentumx/momentumx/internal/migration"
	"github.com/momentumx/momentumx/internal/storage"
	"github.com/momentumx/momentumx/internal/storage/sqldb"
	"github.com/momentumx/momentumx/migrations"
)

// Store is a storage.Provider backed by a single SQLite file.
type Store struct {
	*sqldb.Store
	path string
	db   *sql.DB
}

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

var errNotLoaded = errors.New("database not loaded")

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY between our own transactions.
	db.SetMaxOpenConns(1)
	s.db = db
	s.Store = sqldb.New(db, sqldb.SQLite)
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage.SeedSettings(s)
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'momentumx init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.newRunner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) newRunner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic(err)
	}
	return migration.NewRunner(s.db, subFS, sqldb.SQLite.Driver())
}

func (s *Store) runMigrations() error {
	_, err := s.newRunner().ApplyMigrations(nil)
	return err
}

// MigrationsPending reports whether the database schema is behind the binary.
func (s *Store) MigrationsPending() (bool, error) {
	if s.db == nil {
		return false, errNotLoaded
	}
	return s.newRunner().Pending()
}

func (s *Store) SchemaVersion() (int, int, error) {
	if s.db == nil {
		return 0, 0, errNotLoaded
	}
	r := s.newRunner()
	current, err := r.GetCurrentVersion()
	if err != nil {
		return 0, 0, err
	}
	latest, err := r.GetLatestVersion()
	if err != nil {
		return current, 0, err
	}
	return current, latest, nil
}

// Migrate applies pending migrations, loading the store first if needed.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if err := s.Load(); err != nil {
		return 0, err
	}
	return s.newRunner().ApplyMigrations(logFn)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
