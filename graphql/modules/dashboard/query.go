// Package dashboard defines the GraphQL queries for the alerting dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/applications"
)

// Resources are the collaborators the dashboard resolvers read from
type Resources struct {
	Alerts       alerts.Store
	Applications applications.Inventory
}

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(res Resources) graphql.Fields {
	return graphql.Fields{
		// Top cards (overview)
		"alertStats": &graphql.Field{
			Type: AlertStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveAlertStats(p, res)
			},
		},
		// Charts (severity)
		"alertSeverityDistribution": &graphql.Field{
			Type: SeverityDistributionType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveSeverityDistribution(p, res)
			},
		},
		// Inventory size
		"applicationCount": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveApplicationCount(p, res)
			},
		},
	}
}
