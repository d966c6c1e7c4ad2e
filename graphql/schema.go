// Package graphql assembles the dashboard GraphQL schema.
package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/chainguardia/chainguardia-backend/graphql/modules/dashboard"
)

// CreateSchema builds the root query schema from the module query fields
func CreateSchema(res dashboard.Resources) (gql.Schema, error) {
	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name:   "Query",
		Fields: dashboard.GetQueryFields(res),
	})

	return gql.NewSchema(gql.SchemaConfig{
		Query: rootQuery,
	})
}
