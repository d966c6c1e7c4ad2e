package applications

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chainguardia/chainguardia-backend/model"
)

// MemoryInventory is the in-process Inventory used by tests and the demo path
type MemoryInventory struct {
	mu   sync.Mutex
	apps map[string]model.Application // key: application id
}

// NewMemoryInventory creates an empty in-memory inventory
func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{apps: make(map[string]model.Application)}
}

// List returns the user's non-deleted applications, newest first
func (s *MemoryInventory) List(_ context.Context, userID string) ([]model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps := make([]model.Application, 0)
	for _, app := range s.apps {
		if app.UserID == userID && !app.Deleted {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].AddedDate.After(apps[j].AddedDate)
	})
	return apps, nil
}

// CreateOrRestore inserts, restores, or conflicts on the identity tuple.
// The store mutex serializes the create/restore race.
func (s *MemoryInventory) CreateOrRestore(_ context.Context, app *model.Application) (CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.apps {
		if existing.UserID != app.UserID || existing.Name != app.Name ||
			existing.Vendor != app.Vendor || existing.Version != app.Version {
			continue
		}
		if !existing.Deleted {
			return CreateResult{}, ErrConflict
		}
		existing.Restore(time.Now().UTC())
		existing.Category = app.Category
		s.apps[id] = existing
		return CreateResult{Application: existing, Restored: true}, nil
	}

	if app.Key == "" {
		app.Key = uuid.NewString()
	}
	s.apps[app.Key] = *app
	return CreateResult{Application: *app}, nil
}

// SoftDelete marks the user's application deleted
func (s *MemoryInventory) SoftDelete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok || app.UserID != userID {
		return ErrNotFound
	}
	app.SoftDelete(time.Now().UTC())
	s.apps[id] = app
	return nil
}
