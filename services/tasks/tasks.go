package tasks

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/mo"

	"planbackend/core"
	"planbackend/models"
	"planbackend/services"
)

type tasksRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id, userID string) (mo.Option[*models.Task], error)
	GetTasksByPlannedDate(ctx context.Context, userID, plannedDate string) ([]*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id, userID string, status models.TaskStatus) (mo.Option[*models.Task], error)
}

// remoteStatusWriter is the part of the Notion integration used to mirror status changes
type remoteStatusWriter interface {
	UpdateRemoteStatus(ctx context.Context, userID, pageID string, status models.TaskStatus) error
}

type TasksService struct {
	tasksRepo    tasksRepository
	notionStatus remoteStatusWriter
}

func NewTasksService(repo tasksRepository, notionStatus remoteStatusWriter) *TasksService {
	return &TasksService{tasksRepo: repo, notionStatus: notionStatus}
}

func (s *TasksService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	log.Printf("📋 Starting to create task for user: %s", task.UserID)
	if !core.IsValidULID(task.UserID) {
		return nil, core.InvalidInputf("user_id must be a valid ULID")
	}
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, core.InvalidInputf("title cannot be empty")
	}
	if task.PlannedDate != nil {
		if _, err := time.Parse(time.DateOnly, *task.PlannedDate); err != nil {
			return nil, core.InvalidInputf("plannedDate must be YYYY-MM-DD")
		}
	}
	if task.Status == "" {
		task.Status = models.TaskStatusInbox
	}
	if _, ok := models.ParseTaskStatus(string(task.Status)); !ok {
		return nil, core.InvalidInputf("unknown status %q", task.Status)
	}

	task.ID = core.NewID("tsk")
	if err := s.tasksRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Printf("📋 Completed successfully - created task with ID: %s", task.ID)
	return task, nil
}

func (s *TasksService) ListTasksByPlannedDate(ctx context.Context, userID, plannedDate string) ([]*models.Task, error) {
	if _, err := time.Parse(time.DateOnly, plannedDate); err != nil {
		return nil, core.InvalidInputf("date must be YYYY-MM-DD")
	}

	tasks, err := s.tasksRepo.GetTasksByPlannedDate(ctx, userID, plannedDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus stores the new status and mirrors it to the Notion page the task was imported from.
// A failed mirror is logged and does not fail the update.
func (s *TasksService) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID string,
	status models.TaskStatus,
) (*models.Task, error) {
	log.Printf("📋 Starting to update status of task %s to %s", taskID, status)
	if _, ok := models.ParseTaskStatus(string(status)); !ok {
		return nil, core.InvalidInputf("unknown status %q", status)
	}

	taskOpt, err := s.tasksRepo.UpdateTaskStatus(ctx, taskID, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	task, ok := taskOpt.Get()
	if !ok {
		return nil, fmt.Errorf("task %s %w", taskID, core.ErrNotFound)
	}

	if isNotionPageTask(task) {
		services.NonCriticalEffect{Name: "notion status write-back"}.Run(ctx, func(ctx context.Context) error {
			return s.notionStatus.UpdateRemoteStatus(ctx, userID, task.External.PageID, status)
		})
	}

	log.Printf("📋 Completed successfully - updated status of task %s", taskID)
	return task, nil
}

func isNotionPageTask(task *models.Task) bool {
	return task.OriginalIntegration != nil &&
		*task.OriginalIntegration == models.ServiceNotion &&
		task.External != nil &&
		task.External.PageID != ""
}
