// Package config handles environment and alerting configuration for the backend.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key) // get the env var
	if !ex {                     // not found return default
		return defVal
	}
	return val // return value for env var
}

// IsProduction reports whether the service runs with production error surfacing
func IsProduction() bool {
	return GetEnvDefault("APP_ENV", "development") == "production"
}

// AlertConfig controls notification behavior for generated alerts
type AlertConfig struct {
	EnableEmailNotifications     bool    `yaml:"enable_email_notifications"`
	EnableSlackNotifications     bool    `yaml:"enable_slack_notifications"`
	EnableDashboardNotifications bool    `yaml:"enable_dashboard_notifications"`
	CriticalThreshold            float64 `yaml:"critical_threshold"` // CVSS score threshold for critical alerts
	CheckIntervalMinutes         int     `yaml:"check_interval_minutes"`
	SlackWebhookURL              string  `yaml:"slack_webhook_url"`
}

// DefaultAlertConfig returns the alerting defaults used when no config file exists
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		EnableEmailNotifications:     false,
		EnableSlackNotifications:     false,
		EnableDashboardNotifications: true,
		CriticalThreshold:            7.0,
		CheckIntervalMinutes:         60,
	}
}

// LoadAlertConfig parses an alerting config from YAML content
func LoadAlertConfig(content []byte) (AlertConfig, error) {
	cfg := DefaultAlertConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid alerting config: %w", err)
	}
	if cfg.CheckIntervalMinutes <= 0 {
		cfg.CheckIntervalMinutes = 60
	}
	return cfg, nil
}

// LoadAlertConfigFile reads the alerting config file, falling back to defaults
// when the file is absent. The path defaults to ALERT_CONFIG_PATH.
func LoadAlertConfigFile() (AlertConfig, error) {
	path := GetEnvDefault("ALERT_CONFIG_PATH", "/etc/chainguardia/alerting.yaml")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAlertConfig(), nil
		}
		return DefaultAlertConfig(), err
	}
	cfg, err := LoadAlertConfig(content)
	if err != nil {
		return cfg, err
	}
	if cfg.SlackWebhookURL == "" {
		cfg.SlackWebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	return cfg, nil
}
