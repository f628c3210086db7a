package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "planbackend/db/tx"
	"planbackend/models"
)

type PostgresIntegrationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for integrations table
var integrationsColumns = []string{
	"id",
	"user_id",
	"service",
	"config",
	"scopes",
	"connected_at",
	"created_at",
	"updated_at",
}

func NewPostgresIntegrationsRepository(db *sqlx.DB, schema string) *PostgresIntegrationsRepository {
	return &PostgresIntegrationsRepository{db: db, schema: schema}
}

// CreateIntegration inserts the record unless one already exists for (user_id, service).
// It reports false without touching the existing row when the insert was skipped.
func (r *PostgresIntegrationsRepository) CreateIntegration(
	ctx context.Context,
	integration *models.Integration,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id",
		"user_id",
		"service",
		"config",
		"scopes",
		"connected_at",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.integrations (%s) 
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW(), NOW()) 
		ON CONFLICT (user_id, service) DO NOTHING
		RETURNING %s`, r.schema, columnsStr, returningStr)

	scopes := integration.Scopes
	if scopes == nil {
		scopes = pq.StringArray{}
	}

	err := db.QueryRowxContext(
		ctx,
		query,
		integration.ID,
		integration.UserID,
		integration.Service,
		integration.Config,
		scopes,
	).StructScan(integration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create integration: %w", err)
	}

	return true, nil
}

func (r *PostgresIntegrationsRepository) GetIntegrationByUserAndService(
	ctx context.Context,
	userID string,
	service models.Service,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.integrations 
		WHERE user_id = $1 AND service = $2
		ORDER BY created_at ASC
		LIMIT 1`, columnsStr, r.schema)

	integration := &models.Integration{}
	err := db.QueryRowxContext(ctx, query, userID, service).StructScan(integration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get integration by user and service: %w", err)
	}

	return mo.Some(integration), nil
}

func (r *PostgresIntegrationsRepository) GetIntegrationByID(
	ctx context.Context,
	id string,
	forUpdate bool,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	forUpdateClause := ""
	if forUpdate {
		forUpdateClause = " FOR UPDATE"
	}

	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.integrations 
		WHERE id = $1%s`, columnsStr, r.schema, forUpdateClause)

	integration := &models.Integration{}
	err := db.QueryRowxContext(ctx, query, id).StructScan(integration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get integration by id: %w", err)
	}

	return mo.Some(integration), nil
}

func (r *PostgresIntegrationsRepository) GetIntegrationsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.Integration, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.integrations 
		WHERE user_id = $1 
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var integrations []*models.Integration
	if err := db.SelectContext(ctx, &integrations, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get integrations by user id: %w", err)
	}

	return integrations, nil
}

// PatchIntegrationConfig shallow-merges patch into the stored config of the user's integration for service
func (r *PostgresIntegrationsRepository) PatchIntegrationConfig(
	ctx context.Context,
	userID string,
	service models.Service,
	patch map[string]any,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return mo.None[*models.Integration](), fmt.Errorf("failed to marshal config patch: %w", err)
	}

	returningStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.integrations 
		SET config = config || $3::jsonb, updated_at = NOW()
		WHERE user_id = $1 AND service = $2
		RETURNING %s`, r.schema, returningStr)

	integration := &models.Integration{}
	err = db.QueryRowxContext(ctx, query, userID, service, string(patchJSON)).StructScan(integration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to patch integration config: %w", err)
	}

	return mo.Some(integration), nil
}

// UpdateIntegrationConnection records a fresh grant: config is merged with patch and scopes replaced
func (r *PostgresIntegrationsRepository) UpdateIntegrationConnection(
	ctx context.Context,
	id string,
	patch map[string]any,
	scopes []string,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return mo.None[*models.Integration](), fmt.Errorf("failed to marshal config patch: %w", err)
	}
	if scopes == nil {
		scopes = []string{}
	}

	returningStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.integrations 
		SET config = config || $2::jsonb, scopes = $3, connected_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, r.schema, returningStr)

	integration := &models.Integration{}
	err = db.QueryRowxContext(ctx, query, id, string(patchJSON), pq.StringArray(scopes)).StructScan(integration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to update integration connection: %w", err)
	}

	return mo.Some(integration), nil
}

func (r *PostgresIntegrationsRepository) DeleteIntegrationByID(ctx context.Context, id string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.integrations WHERE id = $1`, r.schema)
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete integration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
