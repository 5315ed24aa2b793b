package handler

import (
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

type TaskHandler struct {
	Handler
	taskService *service.TaskService
}

func NewTaskHandler(s *server.Server, taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		Handler:     NewHandler(s),
		taskService: taskService,
	}
}

func (h *TaskHandler) ListTasks(c echo.Context, _ *task.ListTasksPayload) ([]task.Task, error) {
	return h.taskService.ListTasks(c.Request().Context())
}

func (h *TaskHandler) CreateTask(c echo.Context, payload *task.CreateTaskPayload) (*task.Task, error) {
	return h.taskService.CreateTask(c.Request().Context(), payload)
}

func (h *TaskHandler) GetTaskByID(c echo.Context, payload *task.GetTaskByIDPayload) (*task.Task, error) {
	return h.taskService.GetTaskByID(c.Request().Context(), payload.ID)
}

func (h *TaskHandler) UpdateTask(c echo.Context, payload *task.UpdateTaskPayload) (*task.Task, error) {
	return h.taskService.UpdateTask(c.Request().Context(), payload)
}

func (h *TaskHandler) DeleteTask(c echo.Context, payload *task.DeleteTaskPayload) (*task.DeletedResponse, error) {
	return h.taskService.DeleteTask(c.Request().Context(), payload.ID)
}
