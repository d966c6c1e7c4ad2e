// Package dashboard defines the GraphQL types for the alerting dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// AlertStatsType represents the high-level alert metrics for the top cards
var AlertStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AlertStats",
	Fields: graphql.Fields{
		"total":    &graphql.Field{Type: graphql.Int},
		"unread":   &graphql.Field{Type: graphql.Int},
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"recent":   &graphql.Field{Type: graphql.Int},
	},
})

// SeverityDistributionType represents the data for the pie/bar charts
var SeverityDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SeverityDistribution",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
	},
})
