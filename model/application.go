// Package model provides data models for the ChainGuardia backend.
package model

import (
	"strings"
	"time"
)

// Application represents a tracked application owned by a user
type Application struct {
	Key    string `json:"_key,omitempty"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Vendor string `json:"vendor"`
	// Version is part of the identity tuple and must always be stored,
	// even when empty: a document missing the attribute reads as null in
	// AQL and would never match the UPSERT's version: "" clause.
	Version   string     `json:"version"`
	Category  string     `json:"category,omitempty"`
	AddedDate time.Time  `json:"added_date"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Parsed version components for index-friendly sorting, nil when
	// the version is not semver-parseable.
	VersionMajor *int `json:"version_major,omitempty"`
	VersionMinor *int `json:"version_minor,omitempty"`
	VersionPatch *int `json:"version_patch,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewApplication creates a new application with default values
func NewApplication(userID, name, vendor, version, category string) *Application {
	now := time.Now().UTC()
	return &Application{
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Vendor:    strings.TrimSpace(vendor),
		Version:   strings.TrimSpace(version),
		Category:  strings.TrimSpace(category),
		AddedDate: now,
		Deleted:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IdentityTuple returns the uniqueness tuple for the per-user duplicate check.
// At most one non-deleted record may exist per tuple.
func (a *Application) IdentityTuple() (string, string, string, string) {
	return a.UserID, a.Name, a.Vendor, a.Version
}

// SoftDelete marks the application deleted without removing the record
func (a *Application) SoftDelete(at time.Time) {
	a.Deleted = true
	a.DeletedAt = &at
	a.UpdatedAt = at
}

// Restore clears the soft-delete state, keeping the same identity
func (a *Application) Restore(at time.Time) {
	a.Deleted = false
	a.DeletedAt = nil
	a.UpdatedAt = at
}
