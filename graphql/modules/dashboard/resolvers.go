// Package dashboard implements the resolvers for the alerting dashboard.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/auth"
)

func userFromParams(p graphql.ResolveParams) (string, error) {
	userID, ok := p.Context.Value(auth.UserKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("not authenticated")
	}
	return userID, nil
}

// ResolveAlertStats returns the caller's alert summary
func ResolveAlertStats(p graphql.ResolveParams, res Resources) (interface{}, error) {
	userID, err := userFromParams(p)
	if err != nil {
		return nil, err
	}

	stats, err := res.Alerts.Stats(p.Context, userID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total":    stats.Total,
		"unread":   stats.Unread,
		"critical": stats.Critical,
		"high":     stats.High,
		"recent":   stats.Recent,
	}, nil
}

// ResolveSeverityDistribution counts the caller's alerts per severity
func ResolveSeverityDistribution(p graphql.ResolveParams, res Resources) (interface{}, error) {
	userID, err := userFromParams(p)
	if err != nil {
		return nil, err
	}

	all, err := res.Alerts.Filter(p.Context, userID, alerts.FilterOptions{})
	if err != nil {
		return nil, err
	}

	distribution := map[string]interface{}{
		"critical": 0,
		"high":     0,
		"medium":   0,
		"low":      0,
	}
	for _, alert := range all {
		key := strings.ToLower(alert.Severity)
		if count, ok := distribution[key].(int); ok {
			distribution[key] = count + 1
		}
	}
	return distribution, nil
}

// ResolveApplicationCount returns the size of the caller's inventory
func ResolveApplicationCount(p graphql.ResolveParams, res Resources) (interface{}, error) {
	userID, err := userFromParams(p)
	if err != nil {
		return nil, err
	}

	apps, err := res.Applications.List(p.Context, userID)
	if err != nil {
		return nil, err
	}
	return len(apps), nil
}
