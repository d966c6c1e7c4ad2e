// Package model - alert lifecycle records
package model

import "time"

// Alert represents a security alert raised for a tracked application.
// Severity is fixed at creation and never recomputed; the only mutable
// field is Read, which transitions one way (unread -> read).
type Alert struct {
	Key             string    `json:"_key,omitempty"`
	UserID          string    `json:"user_id"`
	Message         string    `json:"message"`
	Severity        string    `json:"severity"` // LOW, MEDIUM, HIGH, CRITICAL
	Timestamp       time.Time `json:"timestamp"`
	VulnerabilityID string    `json:"vulnerability_id"`
	AppIDs          []string  `json:"app_ids"`
	Read            bool      `json:"read"`
}

// AlertStats summarizes an alert collection for the dashboard
type AlertStats struct {
	Total    int `json:"total"`
	Unread   int `json:"unread"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Recent   int `json:"recent"` // raised within the last 24h
}
