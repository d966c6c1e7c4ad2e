package alerts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chainguardia/chainguardia-backend/model"
)

// FilterOptions narrow a retrieval; zero values mean "no constraint"
type FilterOptions struct {
	Severity   string
	UnreadOnly bool
	Limit      int
}

// Store holds the alert lifecycle: created (unread) -> read via MarkAsRead,
// and either state -> removed via Delete. Operations are scoped to one
// user's collection; concurrent writers to the same alert id need external
// synchronization.
type Store interface {
	Create(ctx context.Context, alert model.Alert) error
	// Filter returns matching alerts sorted by timestamp descending.
	// Limit truncates only after sorting. No mutation.
	Filter(ctx context.Context, userID string, opts FilterOptions) ([]model.Alert, error)
	// MarkAsRead sets read=true for every listed id. Already-read alerts
	// are left unchanged and unknown ids are silently ignored.
	MarkAsRead(ctx context.Context, userID string, ids []string) error
	// Delete permanently removes the alert (no tombstone). The returned
	// flag reports whether a record existed; deleting a nonexistent id is
	// not an error.
	Delete(ctx context.Context, userID, id string) (bool, error)
	// ExistsForVulnerability is the external dedup key lookup callers use
	// to avoid alerting twice for the same CVE.
	ExistsForVulnerability(ctx context.Context, userID, vulnerabilityID string) (bool, error)
	Stats(ctx context.Context, userID string) (model.AlertStats, error)
}

// MemoryStore is the in-process Store used by tests and the demo path
type MemoryStore struct {
	mu     sync.RWMutex
	alerts map[string]model.Alert // key: alert id
}

// NewMemoryStore creates an empty in-memory alert store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{alerts: make(map[string]model.Alert)}
}

// Create stores the alert
func (s *MemoryStore) Create(_ context.Context, alert model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.Key] = alert
	return nil
}

// Filter returns the user's matching alerts, newest first
func (s *MemoryStore) Filter(_ context.Context, userID string, opts FilterOptions) ([]model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Alert, 0, len(s.alerts))
	for _, alert := range s.alerts {
		if alert.UserID != userID {
			continue
		}
		if opts.Severity != "" && !strings.EqualFold(alert.Severity, opts.Severity) {
			continue
		}
		if opts.UnreadOnly && alert.Read {
			continue
		}
		matched = append(matched, alert)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// MarkAsRead flips read=true for the given ids, idempotently
func (s *MemoryStore) MarkAsRead(_ context.Context, userID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		alert, ok := s.alerts[id]
		if !ok || alert.UserID != userID {
			continue
		}
		alert.Read = true
		s.alerts[id] = alert
	}
	return nil
}

// Delete removes the alert, reporting whether it existed
func (s *MemoryStore) Delete(_ context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok || alert.UserID != userID {
		return false, nil
	}
	delete(s.alerts, id)
	return true, nil
}

// ExistsForVulnerability reports whether the user already has an alert for the CVE
func (s *MemoryStore) ExistsForVulnerability(_ context.Context, userID, vulnerabilityID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, alert := range s.alerts {
		if alert.UserID == userID && alert.VulnerabilityID == vulnerabilityID {
			return true, nil
		}
	}
	return false, nil
}

// Stats summarizes the user's alerts for the dashboard
func (s *MemoryStore) Stats(_ context.Context, userID string) (model.AlertStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.AlertStats
	oneDayAgo := time.Now().Add(-24 * time.Hour)
	for _, alert := range s.alerts {
		if alert.UserID != userID {
			continue
		}
		stats.Total++
		if !alert.Read {
			stats.Unread++
		}
		switch alert.Severity {
		case "CRITICAL":
			stats.Critical++
		case "HIGH":
			stats.High++
		}
		if alert.Timestamp.After(oneDayAgo) {
			stats.Recent++
		}
	}
	return stats, nil
}
