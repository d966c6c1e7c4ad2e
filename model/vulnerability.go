// Package model - projected vulnerability records
package model

// CVSSData is the minimal scoring triple carried on a projected record
type CVSSData struct {
	BaseScore    float64 `json:"baseScore"`
	BaseSeverity string  `json:"baseSeverity"`
	VectorString string  `json:"vectorString"`
}

// Vulnerability is the public projection of an upstream CVE record.
// Immutable once filtered and projected.
type Vulnerability struct {
	ID           string    `json:"id"`
	Published    string    `json:"published"`
	LastModified string    `json:"lastModified"`
	VulnStatus   string    `json:"vulnStatus"` // "Analyzed", "Modified", "Rejected", etc.
	Description  string    `json:"description"`
	CVSS         *CVSSData `json:"cvss"`
	References   []string  `json:"references"`

	// Tracked-application ids resolved by the matching collaborator,
	// empty on records served straight from the feed proxy.
	AffectedApps []string `json:"affectedApps,omitempty"`
}
