// Package applications owns the tracked-application inventory: user-scoped
// create/list/soft-delete/restore with per-user uniqueness.
package applications

import (
	"context"
	"errors"

	"github.com/chainguardia/chainguardia-backend/model"
)

// ErrConflict is returned when a non-deleted application with the same
// (name, vendor, version) tuple already exists for the user. Creates
// never overwrite an active record.
var ErrConflict = errors.New("application already exists")

// ErrNotFound is returned when an application is absent or owned by a
// different user. The two cases are indistinguishable to the caller so
// existence does not leak across users.
var ErrNotFound = errors.New("application not found")

// CreateResult reports how a create call resolved
type CreateResult struct {
	Application model.Application
	// Restored is true when a soft-deleted record with the same identity
	// tuple was revived under its original id instead of inserting.
	Restored bool
}

// Inventory is the persistence contract for tracked applications.
// Implementations serialize the create/restore race on the identity tuple;
// callers perform no locking.
type Inventory interface {
	// List returns the user's non-deleted applications, newest first.
	List(ctx context.Context, userID string) ([]model.Application, error)
	// CreateOrRestore inserts app, or restores the soft-deleted record
	// sharing its identity tuple, or fails with ErrConflict when an
	// active duplicate exists.
	CreateOrRestore(ctx context.Context, app *model.Application) (CreateResult, error)
	// SoftDelete marks the user's application deleted. ErrNotFound when
	// the id is unknown or owned by someone else.
	SoftDelete(ctx context.Context, userID, id string) error
}
