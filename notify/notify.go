// Package notify decides whether an alert triggers a notification and
// dispatches it to the configured channels.
package notify

import (
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/model"
)

// Fixed per-severity reference scores compared against the configured
// critical threshold.
var severityThresholds = map[string]float64{
	"HIGH":   7.0,
	"MEDIUM": 4.0,
	"LOW":    0.1,
}

// ShouldNotify reports whether an alert triggers a notification.
// CRITICAL always notifies regardless of configuration. Otherwise the
// severity's reference score must be >= config.CriticalThreshold.
//
// Note the direction of that comparison: lowering the configured threshold
// disables notifications for HIGH/MEDIUM more often than raising it, which
// is likely inverted from what a "critical threshold" knob intends. Kept
// as-is for compatibility; pending product clarification.
func ShouldNotify(alert model.Alert, cfg config.AlertConfig) bool {
	if alert.Severity == "CRITICAL" {
		return true
	}
	return severityThresholds[alert.Severity] >= cfg.CriticalThreshold
}

// SlackSender posts a message to a Slack webhook
type SlackSender interface {
	Send(webhookURL, text string) error
}

type webhookSender struct{}

func (webhookSender) Send(webhookURL, text string) error {
	return slack.PostWebhook(webhookURL, &slack.WebhookMessage{Text: text})
}

// Notifier dispatches gated alerts to the enabled channels
type Notifier struct {
	cfg    config.AlertConfig
	slack  SlackSender
	logger *zap.Logger
}

// NewNotifier creates a notifier for the given alerting config
func NewNotifier(cfg config.AlertConfig, logger *zap.Logger) *Notifier {
	return &Notifier{cfg: cfg, slack: webhookSender{}, logger: logger}
}

// Dispatch sends the alert through every enabled channel when the gate
// fires. Delivery failures are logged, never fatal: an undelivered
// notification must not fail the pipeline that raised the alert.
func (n *Notifier) Dispatch(alert model.Alert) {
	if !ShouldNotify(alert, n.cfg) {
		return
	}

	if n.cfg.EnableSlackNotifications && n.cfg.SlackWebhookURL != "" {
		text := alerts.FormatMessage(alert, alerts.ChannelSlack)
		if err := n.slack.Send(n.cfg.SlackWebhookURL, text); err != nil {
			n.logger.Sugar().Warnf("Failed to deliver Slack notification for %s: %v", alert.Key, err)
		}
	}

	if n.cfg.EnableDashboardNotifications {
		// Dashboard notifications are the stored alerts themselves; the
		// alert is already persisted by the time it reaches the gate.
		n.logger.Sugar().Infof("Alert %s: %s", alert.Key, alerts.FormatMessage(alert, alerts.ChannelDashboard))
	}
}
