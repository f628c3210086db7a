package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "planbackend/db/tx"
	"planbackend/models"
)

type PostgresOAuthStatesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for oauth_states table
var oauthStatesColumns = []string{
	"state",
	"user_id",
	"service",
	"created_at",
}

func NewPostgresOAuthStatesRepository(db *sqlx.DB, schema string) *PostgresOAuthStatesRepository {
	return &PostgresOAuthStatesRepository{db: db, schema: schema}
}

// CreateOAuthState stores the state with the caller's CreatedAt, which Redeem compares against its own clock
func (r *PostgresOAuthStatesRepository) CreateOAuthState(ctx context.Context, state *models.OAuthState) error {
	db := dbtx.GetTransactional(ctx, r.db)

	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}

	insertColumns := []string{
		"state",
		"user_id",
		"service",
		"created_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(oauthStatesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.oauth_states (%s) 
		VALUES ($1, $2, $3, $4) 
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		state.State,
		state.UserID,
		state.Service,
		state.CreatedAt,
	).StructScan(state)
	if err != nil {
		return fmt.Errorf("failed to create oauth state: %w", err)
	}

	return nil
}

// RedeemOAuthState deletes the state and returns the deleted row.
// The DELETE is the serialization point: of two concurrent redemptions only one gets the row back.
func (r *PostgresOAuthStatesRepository) RedeemOAuthState(
	ctx context.Context,
	state string,
) (mo.Option[*models.OAuthState], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(oauthStatesColumns, ", ")
	query := fmt.Sprintf(`
		DELETE FROM %s.oauth_states 
		WHERE state = $1
		RETURNING %s`, r.schema, returningStr)

	oauthState := &models.OAuthState{}
	err := db.QueryRowxContext(ctx, query, state).StructScan(oauthState)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.OAuthState](), nil
		}
		return mo.None[*models.OAuthState](), fmt.Errorf("failed to redeem oauth state: %w", err)
	}

	return mo.Some(oauthState), nil
}

func (r *PostgresOAuthStatesRepository) DeleteOAuthStatesCreatedBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.oauth_states WHERE created_at < $1`, r.schema)
	result, err := db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired oauth states: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
