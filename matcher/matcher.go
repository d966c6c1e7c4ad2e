// Package matcher resolves which tracked applications a vulnerability
// affects. The real matching strategy (vendor/version normalization,
// exact-or-fuzzy matching) is a collaborator to be specified separately;
// implementations plug in behind the Matcher interface.
package matcher

import (
	"strings"

	"github.com/chainguardia/chainguardia-backend/model"
)

// Matcher resolves a vulnerability to the ids of the applications it affects
type Matcher interface {
	Match(vuln model.Vulnerability, apps []model.Application) []string
}

// NameMatcher is the demo strategy: a case-insensitive application-name
// substring search over the vulnerability description. Not suitable for
// production matching; it exists so the full pipeline can run end to end.
type NameMatcher struct{}

// Match returns the ids of applications whose name occurs in the record's
// description, preserving the order of apps.
func (NameMatcher) Match(vuln model.Vulnerability, apps []model.Application) []string {
	description := strings.ToLower(vuln.Description)
	if description == "" {
		return nil
	}

	var matched []string
	for _, app := range apps {
		name := strings.ToLower(strings.TrimSpace(app.Name))
		if name == "" {
			continue
		}
		if strings.Contains(description, name) {
			matched = append(matched, app.Key)
		}
	}
	return matched
}
