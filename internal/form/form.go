// Package form is the boundary between whatever collects the user's input
// and the core: it validates fields and submits or fetches records.
//
// Callers are expected to trim whitespace before handing values over.
package form

import (
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/registration-form/internal/storage"
	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/aanand-mishra/registration-form/internal/validation"
)

// Form wires validation to a Storage. It holds no state of its own.
type Form struct {
	storage storage.Storage
}

func New(storage storage.Storage) *Form {
	return &Form{storage: storage}
}

// ValidateField checks a single field. It returns nil or a *validation.Error.
func (f *Form) ValidateField(field validation.Field, text string) error {
	return validation.ValidateField(field, text)
}

// Submit validates r and stores it. A validation failure is returned as a
// *validation.Error and nothing is written. Storage failures come back
// wrapped, carrying storage.ErrWrite or storage.ErrClosed.
func (f *Form) Submit(r types.Registration) (int64, error) {
	if err := validation.ValidateRegistration(r); err != nil {
		slog.Info("registration rejected", slog.String("error", err.Error()))
		return 0, err
	}

	id, err := f.storage.Insert(r)
	if err != nil {
		slog.Error("registration not stored", slog.String("error", err.Error()))
		return 0, fmt.Errorf("Submit: %w", err)
	}

	// The record itself is never logged: it carries the password.
	slog.Info("registration stored", slog.Int64("id", id))
	return id, nil
}

// Fetch returns the record with the given id, or nil if there is none.
func (f *Form) Fetch(id int64) (*types.Registration, error) {
	r, err := f.storage.ReadByID(id)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}
	return r, nil
}
