package applications

import (
	"context"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/google/uuid"

	"github.com/chainguardia/chainguardia-backend/database"
	"github.com/chainguardia/chainguardia-backend/model"
)

// ArangoInventory persists applications in the application collection
type ArangoInventory struct {
	db database.DBConnection
}

// NewArangoInventory creates an Inventory backed by ArangoDB
func NewArangoInventory(db database.DBConnection) *ArangoInventory {
	return &ArangoInventory{db: db}
}

// List returns the user's non-deleted applications sorted by creation time descending
func (s *ArangoInventory) List(ctx context.Context, userID string) ([]model.Application, error) {
	query := `
		FOR a IN application
			FILTER a.user_id == @user_id
			FILTER a.deleted != true
			SORT a.added_date DESC
			RETURN a
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"user_id": userID,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	apps := make([]model.Application, 0)
	for cursor.HasMore() {
		var app model.Application
		if _, err := cursor.ReadDocument(ctx, &app); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// CreateOrRestore inserts, restores, or conflicts on the identity tuple.
// A single UPSERT serializes concurrent creates racing on the same tuple:
// at most one of them inserts, the others observe the existing record.
func (s *ArangoInventory) CreateOrRestore(ctx context.Context, app *model.Application) (CreateResult, error) {
	if app.Key == "" {
		app.Key = uuid.NewString()
	}

	query := `
		UPSERT { user_id: @user_id, name: @name, vendor: @vendor, version: @version }
		INSERT @doc
		UPDATE OLD.deleted == true ? @restore : {} IN application
		RETURN { old: OLD, new: NEW }
	`
	now := time.Now().UTC()
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"user_id": app.UserID,
			"name":    app.Name,
			"vendor":  app.Vendor,
			"version": app.Version,
			"doc":     app,
			"restore": map[string]interface{}{
				"deleted":    false,
				"deleted_at": nil,
				"category":   app.Category,
				"updated_at": now,
			},
		},
	})
	if err != nil {
		return CreateResult{}, err
	}
	defer cursor.Close()

	var result struct {
		Old *model.Application `json:"old"`
		New model.Application  `json:"new"`
	}
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &result); err != nil {
			return CreateResult{}, err
		}
	}

	if result.Old == nil {
		return CreateResult{Application: result.New}, nil
	}
	if !result.Old.Deleted {
		return CreateResult{}, ErrConflict
	}
	return CreateResult{Application: result.New, Restored: true}, nil
}

// SoftDelete marks the user's application deleted
func (s *ArangoInventory) SoftDelete(ctx context.Context, userID, id string) error {
	query := `
		FOR a IN application
			FILTER a._key == @id
			FILTER a.user_id == @user_id
			UPDATE a WITH { deleted: true, deleted_at: @now, updated_at: @now } IN application
			RETURN NEW._key
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"id":      id,
			"user_id": userID,
			"now":     time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return ErrNotFound
	}
	return nil
}
