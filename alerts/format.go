package alerts

import (
	"fmt"
	"strings"

	"github.com/chainguardia/chainguardia-backend/model"
)

// Notification channels an alert message can be rendered for.
const (
	ChannelDashboard = "dashboard"
	ChannelEmail     = "email"
	ChannelSlack     = "slack"
)

var severityEmoji = map[string]string{
	"CRITICAL": "\U0001F6A8",
	"HIGH":     "⚠️",
	"MEDIUM":   "\U0001F536",
	"LOW":      "ℹ️",
}

// FormatMessage renders an alert for a notification channel. The dashboard
// channel is the alert message itself.
func FormatMessage(alert model.Alert, channel string) string {
	emoji := severityEmoji[alert.Severity]

	switch channel {
	case ChannelEmail:
		return strings.TrimSpace(fmt.Sprintf(`
ChainGuardia Security Alert

%s %s Severity Alert

%s

Timestamp: %s
Vulnerability ID: %s

Please review this alert in your ChainGuardia dashboard and take appropriate action.

---
ChainGuardia Security Monitoring
`, emoji, alert.Severity, alert.Message, alert.Timestamp.Format("2006-01-02 15:04:05 MST"), alert.VulnerabilityID))

	case ChannelSlack:
		return fmt.Sprintf("%s *%s Alert*: %s", emoji, alert.Severity, alert.Message)

	default:
		return alert.Message
	}
}
