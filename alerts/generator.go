// Package alerts implements alert generation and the alert lifecycle store.
package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/util"
)

// Generate turns filtered vulnerabilities into alert records for one user.
// Exactly one alert is produced per vulnerability with a non-empty affected
// set. Which applications are affected is resolved upstream; this function
// only maps the ids back to display names for the message.
//
// No deduplication happens here: callers that must not alert twice for the
// same CVE check the store with the vulnerability id first.
func Generate(userID string, vulns []model.Vulnerability, apps []model.Application, now time.Time) []model.Alert {
	nameByID := make(map[string]string, len(apps))
	for _, app := range apps {
		nameByID[app.Key] = app.Name
	}

	generated := make([]model.Alert, 0, len(vulns))
	for i, vuln := range vulns {
		if len(vuln.AffectedApps) == 0 {
			continue
		}

		names := make([]string, 0, len(vuln.AffectedApps))
		for _, appID := range vuln.AffectedApps {
			if name, ok := nameByID[appID]; ok && name != "" {
				names = append(names, name)
			}
		}

		severity := resolveSeverity(vuln)
		generated = append(generated, model.Alert{
			// Vulnerability id plus generation timestamp plus batch index
			// keeps ids unique across and within generation events.
			Key:             fmt.Sprintf("alert-%s-%d-%d", vuln.ID, now.UnixMilli(), i),
			UserID:          userID,
			Message:         fmt.Sprintf("New %s vulnerability %s affects %s", strings.ToLower(severity), vuln.ID, strings.Join(names, ", ")),
			Severity:        severity,
			Timestamp:       now,
			VulnerabilityID: vuln.ID,
			AppIDs:          vuln.AffectedApps,
			Read:            false,
		})
	}
	return generated
}

func resolveSeverity(vuln model.Vulnerability) string {
	if vuln.CVSS != nil && vuln.CVSS.BaseSeverity != "" {
		return util.NormalizeSeverity(vuln.CVSS.BaseSeverity)
	}
	return util.SeverityLow
}
