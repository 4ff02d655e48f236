// Package storage defines the Storage interface, which is what the
// registration form needs from a database backend, and the error kinds
// every backend reports.
//
// Handlers and the form layer depend only on this interface, so tests can
// pass a fake and the SQLite backend stays swappable.
package storage

import (
	"errors"

	"github.com/aanand-mishra/registration-form/internal/types"
)

// Error kinds. Backends wrap the engine error together with one of these,
// so callers can match the kind with errors.Is and still print the
// engine's own message.
var (
	ErrOpen   = errors.New("cannot open database")
	ErrSchema = errors.New("schema change failed")
	ErrWrite  = errors.New("write failed")
	ErrRead   = errors.New("read failed")
	ErrClosed = errors.New("storage is closed")
)

// Storage is the database contract for registration records.
type Storage interface {
	// CreateTable makes sure the RegisterForm table exists. Calling it
	// again is a no-op and never touches existing rows.
	CreateTable() error

	// Insert stores a new record and returns its auto-generated ID.
	// r.ID is ignored.
	Insert(r types.Registration) (int64, error)

	// ReadByID fetches a single record by primary key.
	// A missing row (or a missing table) returns nil, nil.
	ReadByID(id int64) (*types.Registration, error)

	// DropTable removes the RegisterForm table if it exists.
	DropTable() error

	// Close releases the connection. Every call after the first fails
	// with ErrClosed.
	Close() error
}
