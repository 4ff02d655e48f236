// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite keeps the whole RegisterForm table in a single local file, with
// no server process. The blank import below registers the sqlite3 driver
// with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aanand-mishra/registration-form/internal/storage"
	"github.com/aanand-mishra/registration-form/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

const tableName = "RegisterForm"

// SQLite is the concrete implementation of storage.Storage.
//
// It owns exactly one connection (SetMaxOpenConns(1)) and serializes every
// operation through mu, since the HTTP server calls it from many
// goroutines.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	closed bool
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path, creating the file if needed.
//
// sql.Open alone does not touch the file, so New pings the database to
// surface a missing directory or a permission problem right away. Any such
// failure is reported as storage.ErrOpen.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: sqlite.New: open db: %w", storage.ErrOpen, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite.New: ping: %w", storage.ErrOpen, err)
	}

	return &SQLite{db: db}, nil
}

// CreateTable is idempotent thanks to IF NOT EXISTS.
func (s *SQLite) CreateTable() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("CreateTable: %w", storage.ErrClosed)
	}

	stmt, err := s.db.Prepare(`
		CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT,
			lastName  TEXT,
			email     TEXT,
			birthDate TEXT,
			password  TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: CreateTable: prepare: %w", storage.ErrSchema, err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(); err != nil {
		return fmt.Errorf("%w: CreateTable: exec: %w", storage.ErrSchema, err)
	}

	return nil
}

// Insert binds the five fields to ? placeholders, so user input is
// never spliced into the SQL text. AUTOINCREMENT keeps IDs increasing and
// never reuses one, even after rows are gone.
func (s *SQLite) Insert(r types.Registration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("Insert: %w", storage.ErrClosed)
	}

	stmt, err := s.db.Prepare(
		"INSERT INTO " + tableName + " (name, lastName, email, birthDate, password) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return 0, fmt.Errorf("%w: Insert: prepare: %w", storage.ErrWrite, err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(r.Name, r.LastName, r.Email, r.BirthDate, r.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: Insert: exec: %w", storage.ErrWrite, err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: Insert: last insert id: %w", storage.ErrWrite, err)
	}

	return lastID, nil
}

// ReadByID returns nil, nil when no row has that id. A dropped table is
// treated the same way: it simply has no rows.
func (s *SQLite) ReadByID(id int64) (*types.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("ReadByID: %w", storage.ErrClosed)
	}

	exists, err := s.tableExists()
	if err != nil {
		return nil, fmt.Errorf("%w: ReadByID: %w", storage.ErrRead, err)
	}
	if !exists {
		return nil, nil
	}

	stmt, err := s.db.Prepare(
		"SELECT id, name, lastName, email, birthDate, password FROM " + tableName + " WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: ReadByID: prepare: %w", storage.ErrRead, err)
	}
	defer stmt.Close()

	var r types.Registration
	err = stmt.QueryRow(id).Scan(
		&r.ID,
		&r.Name,
		&r.LastName,
		&r.Email,
		&r.BirthDate,
		&r.Password,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: ReadByID: scan: %w", storage.ErrRead, err)
	}

	return &r, nil
}

// DropTable is a no-op when the table is already gone.
func (s *SQLite) DropTable() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("DropTable: %w", storage.ErrClosed)
	}

	stmt, err := s.db.Prepare("DROP TABLE IF EXISTS " + tableName)
	if err != nil {
		return fmt.Errorf("%w: DropTable: prepare: %w", storage.ErrSchema, err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(); err != nil {
		return fmt.Errorf("%w: DropTable: exec: %w", storage.ErrSchema, err)
	}

	return nil
}

// Close releases the connection. The store is unusable afterwards.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("Close: %w", storage.ErrClosed)
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	return nil
}

// tableExists must be called with mu held.
func (s *SQLite) tableExists() (bool, error) {
	stmt, err := s.db.Prepare("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?")
	if err != nil {
		return false, fmt.Errorf("tableExists: prepare: %w", err)
	}
	defer stmt.Close()

	var n int
	if err := stmt.QueryRow(tableName).Scan(&n); err != nil {
		return false, fmt.Errorf("tableExists: scan: %w", err)
	}
	return n > 0, nil
}
