package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/model"
	"github.com/chainguardia/chainguardia-backend/util"
)

// ArangoStore persists alerts in the alert collection
type ArangoStore struct {
	db database.DBConnection
}

// NewArangoStore creates a Store backed by ArangoDB
func NewArangoStore(db database.DBConnection) *ArangoStore {
	return &ArangoStore{db: db}
}

// Create stores the alert document
func (s *ArangoStore) Create(ctx context.Context, alert model.Alert) error {
	alert.Key = util.SanitizeKey(alert.Key)
	if _, err := s.db.Collections["alert"].CreateDocument(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert %s: %w", alert.Key, err)
	}
	return nil
}

// filterQuery builds the retrieval query. The LIMIT clause only exists
// when the caller asked for one: Limit <= 0 means return everything.
func filterQuery(userID string, opts FilterOptions) (string, map[string]interface{}) {
	query := `
		FOR a IN alert
			FILTER a.user_id == @user_id
			FILTER @severity == "" OR UPPER(a.severity) == UPPER(@severity)
			FILTER @unread_only == false OR a.read == false
			SORT a.timestamp DESC
	`
	bindVars := map[string]interface{}{
		"user_id":     userID,
		"severity":    opts.Severity,
		"unread_only": opts.UnreadOnly,
	}
	if opts.Limit > 0 {
		query += "		LIMIT @limit\n"
		bindVars["limit"] = opts.Limit
	}
	query += "		RETURN a"
	return query, bindVars
}

// Filter returns matching alerts sorted by timestamp descending
func (s *ArangoStore) Filter(ctx context.Context, userID string, opts FilterOptions) ([]model.Alert, error) {
	query, bindVars := filterQuery(userID, opts)

	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var matched []model.Alert
	for cursor.HasMore() {
		var alert model.Alert
		if _, err := cursor.ReadDocument(ctx, &alert); err != nil {
			return nil, err
		}
		matched = append(matched, alert)
	}
	return matched, nil
}

// MarkAsRead sets read=true for the listed ids; unknown ids are ignored
func (s *ArangoStore) MarkAsRead(ctx context.Context, userID string, ids []string) error {
	query := `
		FOR a IN alert
			FILTER a.user_id == @user_id
			FILTER a._key IN @ids
			FILTER a.read == false
			UPDATE a WITH { read: true } IN alert
	`
	_, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"user_id": userID,
			"ids":     ids,
		},
	})
	return err
}

// Delete permanently removes the alert, reporting whether it existed
func (s *ArangoStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	query := `
		FOR a IN alert
			FILTER a._key == @id
			FILTER a.user_id == @user_id
			REMOVE a IN alert
			RETURN OLD._key
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"id":      id,
			"user_id": userID,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()
	return cursor.HasMore(), nil
}

// ExistsForVulnerability reports whether the user already has an alert for the CVE
func (s *ArangoStore) ExistsForVulnerability(ctx context.Context, userID, vulnerabilityID string) (bool, error) {
	query := `
		FOR a IN alert
			FILTER a.user_id == @user_id
			FILTER a.vulnerability_id == @vulnerability_id
			LIMIT 1
			RETURN 1
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"user_id":          userID,
			"vulnerability_id": vulnerabilityID,
		},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()
	return cursor.HasMore(), nil
}

// Stats summarizes the user's alerts for the dashboard
func (s *ArangoStore) Stats(ctx context.Context, userID string) (model.AlertStats, error) {
	query := `
		LET alerts = (
			FOR a IN alert
				FILTER a.user_id == @user_id
				RETURN { severity: a.severity, read: a.read, timestamp: a.timestamp }
		)
		RETURN {
			total:    LENGTH(alerts),
			unread:   LENGTH(alerts[* FILTER CURRENT.read == false]),
			critical: LENGTH(alerts[* FILTER CURRENT.severity == "CRITICAL"]),
			high:     LENGTH(alerts[* FILTER CURRENT.severity == "HIGH"]),
			recent:   LENGTH(alerts[* FILTER DATE_TIMESTAMP(CURRENT.timestamp) > @one_day_ago])
		}
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"user_id":     userID,
			"one_day_ago": time.Now().Add(-24*time.Hour).UnixMilli(),
		},
	})
	if err != nil {
		return model.AlertStats{}, err
	}
	defer cursor.Close()

	var stats model.AlertStats
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &stats); err != nil {
			return model.AlertStats{}, err
		}
	}
	return stats, nil
}
