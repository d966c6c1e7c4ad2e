package nvd

import (
	"strings"

	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/util"
)

const noDescription = "No description available"

// FilterOptions are the per-request filtering knobs
type FilterOptions struct {
	MinSeverity     string // defaults to LOW; unrecognized values rank as LOW
	ExcludeRejected bool
}

// Keep is the filtering predicate applied per record:
// keep = (excludeRejected => status != "rejected") AND rank(severity) >= rank(min).
func Keep(cve CVE, opts FilterOptions) bool {
	if opts.ExcludeRejected && strings.EqualFold(strings.TrimSpace(cve.VulnStatus), "rejected") {
		return false
	}
	return util.SeverityRank(ResolveSeverity(cve)) >= util.SeverityRank(opts.MinSeverity)
}

// Filter applies the predicate to every record, preserving input order.
// Pure: the same inputs always yield the same output set.
func Filter(cves []CVE, opts FilterOptions) []CVE {
	kept := make([]CVE, 0, len(cves))
	for _, cve := range cves {
		if Keep(cve, opts) {
			kept = append(kept, cve)
		}
	}
	return kept
}

// Project strips a record to the minimal public shape
func Project(cve CVE) model.Vulnerability {
	description := noDescription
	for _, d := range cve.Descriptions {
		if d.Lang == "en" && d.Value != "" {
			description = d.Value
			break
		}
	}

	references := make([]string, 0, len(cve.References))
	for _, ref := range cve.References {
		if ref.URL != "" {
			references = append(references, ref.URL)
		}
	}

	return model.Vulnerability{
		ID:           cve.ID,
		Published:    cve.Published,
		LastModified: cve.LastModified,
		VulnStatus:   cve.VulnStatus,
		Description:  description,
		CVSS:         ResolveCVSS(cve),
		References:   references,
	}
}

// FilterAndProject filters the raw records and projects each survivor,
// keeping the input's relative order.
func FilterAndProject(items []CVEItem, opts FilterOptions) []model.Vulnerability {
	projected := make([]model.Vulnerability, 0, len(items))
	for _, item := range items {
		if Keep(item.CVE, opts) {
			projected = append(projected, Project(item.CVE))
		}
	}
	return projected
}
