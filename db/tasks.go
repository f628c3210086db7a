package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "planbackend/db/tx"
	"planbackend/models"
)

type PostgresTasksRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for tasks table
var tasksColumns = []string{
	"id",
	"user_id",
	"title",
	"notes",
	"planned_date",
	"start_time",
	"end_time",
	"is_timeboxed",
	"status",
	"original_integration",
	"external",
	"created_at",
	"updated_at",
}

func NewPostgresTasksRepository(db *sqlx.DB, schema string) *PostgresTasksRepository {
	return &PostgresTasksRepository{db: db, schema: schema}
}

func (r *PostgresTasksRepository) CreateTask(ctx context.Context, task *models.Task) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id",
		"user_id",
		"title",
		"notes",
		"planned_date",
		"start_time",
		"end_time",
		"is_timeboxed",
		"status",
		"original_integration",
		"external",
		"created_at",
		"updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(tasksColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.tasks (%s) 
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()) 
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Notes,
		task.PlannedDate,
		task.StartTime,
		task.EndTime,
		task.IsTimeboxed,
		task.Status,
		task.OriginalIntegration,
		task.External,
	).StructScan(task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *PostgresTasksRepository) GetTaskByID(
	ctx context.Context,
	id, userID string,
) (mo.Option[*models.Task], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(tasksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.tasks 
		WHERE id = $1 AND user_id = $2`, columnsStr, r.schema)

	task := &models.Task{}
	err := db.QueryRowxContext(ctx, query, id, userID).StructScan(task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Task](), nil
		}
		return mo.None[*models.Task](), fmt.Errorf("failed to get task by id: %w", err)
	}

	return mo.Some(task), nil
}

func (r *PostgresTasksRepository) GetTasksByPlannedDate(
	ctx context.Context,
	userID, plannedDate string,
) ([]*models.Task, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(tasksColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.tasks 
		WHERE user_id = $1 AND planned_date = $2
		ORDER BY start_time ASC NULLS LAST, created_at ASC`, columnsStr, r.schema)

	var tasks []*models.Task
	if err := db.SelectContext(ctx, &tasks, query, userID, plannedDate); err != nil {
		return nil, fmt.Errorf("failed to get tasks by planned date: %w", err)
	}

	return tasks, nil
}

func (r *PostgresTasksRepository) UpdateTaskStatus(
	ctx context.Context,
	id, userID string,
	status models.TaskStatus,
) (mo.Option[*models.Task], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	returningStr := strings.Join(tasksColumns, ", ")
	query := fmt.Sprintf(`
		UPDATE %s.tasks 
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING %s`, r.schema, returningStr)

	task := &models.Task{}
	err := db.QueryRowxContext(ctx, query, id, userID, status).StructScan(task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Task](), nil
		}
		return mo.None[*models.Task](), fmt.Errorf("failed to update task status: %w", err)
	}

	return mo.Some(task), nil
}
