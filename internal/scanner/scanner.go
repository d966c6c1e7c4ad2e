// Package scanner runs the periodic vulnerability check: fetch the feed
// window, match records against each user's inventory, and raise alerts.
package scanner

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"go.uber.org/zap"

	"github.com/chainguardia/chainguardia-backend/alerts"
	"github.com/chainguardia/chainguardia-backend/config"
	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/matcher"
	"github.com/chainguardia/chainguardia-backend/notify"
	"github.com/chainguardia/chainguardia-backend/nvd"
	"github.com/chainguardia/chainguardia-backend/restapi/modules/applications"
	"github.com/chainguardia/chainguardia-backend/util"
)

// UserSource lists the user ids to scan for
type UserSource interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// ArangoUserSource reads user ids from the user collection
type ArangoUserSource struct {
	DB database.DBConnection
}

// ListUserIDs returns the ids of all active users
func (s ArangoUserSource) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `
		FOR u IN user
			FILTER u.is_active == true
			RETURN u.username
	`
	cursor, err := s.DB.Database.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var ids []string
	for cursor.HasMore() {
		var id string
		if _, err := cursor.ReadDocument(ctx, &id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Scanner drives the feed->filter->match->alert pipeline
type Scanner struct {
	Feed      nvd.Client
	Users     UserSource
	Inventory applications.Inventory
	Alerts    alerts.Store
	Matcher   matcher.Matcher
	Notifier  *notify.Notifier
	Config    config.AlertConfig
	Logger    *zap.Logger
}

// Run executes a scan immediately and then on every check interval until
// the context is cancelled. Errors are logged, never fatal: a failed cycle
// must not take the processor down.
func (s *Scanner) Run(ctx context.Context) {
	interval := time.Duration(s.Config.CheckIntervalMinutes) * time.Minute

	s.scanAll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scanAll(ctx)
		}
	}
}

func (s *Scanner) scanAll(ctx context.Context) {
	userIDs, err := s.Users.ListUserIDs(ctx)
	if err != nil {
		s.Logger.Sugar().Warnf("Scan cycle skipped, failed to list users: %v", err)
		return
	}

	for _, userID := range userIDs {
		if created, err := s.ScanUser(ctx, userID, ""); err != nil {
			s.Logger.Sugar().Warnf("Scan failed for user %s: %v", userID, err)
		} else if created > 0 {
			s.Logger.Sugar().Infof("Scan raised %d alert(s) for user %s", created, userID)
		}
	}
}

// ScanUser fetches one feed window for one user and raises alerts for
// matched vulnerabilities not yet alerted on. The store's vulnerability-id
// lookup is the dedup key: the generator itself never deduplicates.
func (s *Scanner) ScanUser(ctx context.Context, userID, keyword string) (int, error) {
	apps, err := s.Inventory.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(apps) == 0 {
		return 0, nil
	}

	upstream, _, err := s.Feed.Fetch(ctx, nvd.Query{
		Keyword:        keyword,
		ResultsPerPage: 100,
	})
	if err != nil {
		return 0, err
	}

	vulns := nvd.FilterAndProject(upstream.Vulnerabilities, nvd.FilterOptions{
		MinSeverity:     util.SeverityLow,
		ExcludeRejected: true,
	})

	qualifying := vulns[:0]
	for _, vuln := range vulns {
		affected := s.Matcher.Match(vuln, apps)
		if len(affected) == 0 {
			continue
		}
		exists, err := s.Alerts.ExistsForVulnerability(ctx, userID, vuln.ID)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}
		vuln.AffectedApps = affected
		qualifying = append(qualifying, vuln)
	}

	generated := alerts.Generate(userID, qualifying, apps, time.Now().UTC())
	for _, alert := range generated {
		if err := s.Alerts.Create(ctx, alert); err != nil {
			return 0, err
		}
		if s.Notifier != nil {
			s.Notifier.Dispatch(alert)
		}
	}
	return len(generated), nil
}
