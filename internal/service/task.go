package service

import (
	"context"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
)

const (
	TaskNotFoundMessage = "No Task Found"
	TaskDeletedMessage  = "Task Deleted Successfully"
)

type TaskService struct {
	server *server.Server
	repo   repository.TaskRepository
}

func NewTaskService(s *server.Server, repo repository.TaskRepository) *TaskService {
	return &TaskService{server: s, repo: repo}
}

func (s *TaskService) fail(err error) error {
	return dberr.HandleError(err, TaskNotFoundMessage, exposeErrors(s.server))
}

func (s *TaskService) ListTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, payload *task.CreateTaskPayload) (*task.Task, error) {
	created, err := s.repo.CreateTask(ctx, payload)
	if err != nil {
		return nil, s.fail(err)
	}
	return created, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, payload *task.UpdateTaskPayload) (*task.Task, error) {
	updated, err := s.repo.UpdateTask(ctx, payload.ID, payload.ToUpdate())
	if err != nil {
		return nil, s.fail(err)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) (*task.DeletedResponse, error) {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return nil, s.fail(err)
	}
	return &task.DeletedResponse{Message: TaskDeletedMessage}, nil
}
