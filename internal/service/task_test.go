package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenTaskRepository fails every call, standing in for an unreachable store.
type brokenTaskRepository struct {
	repository.TaskRepository
	err error
}

func (r brokenTaskRepository) ListTasks(context.Context) ([]task.Task, error) {
	return nil, r.err
}

func TestTaskServiceLifecycle(t *testing.T) {
	svc := NewTaskService(newTestServer(t, "development"), repository.NewMemoryTaskRepository())
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, &task.CreateTaskPayload{Name: "buy milk"})
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task Deleted Successfully", deleted.Message)

	_, err = svc.GetTaskByID(ctx, created.ID)
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "No Task Found", httpErr.Message)
}

func TestTaskServicePersistenceErrors(t *testing.T) {
	cause := errors.New("server selection timeout")

	dev := NewTaskService(newTestServer(t, "development"), brokenTaskRepository{err: cause})
	_, err := dev.ListTasks(context.Background())
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Contains(t, httpErr.Message, "server selection timeout")

	prod := NewTaskService(newTestServer(t, "production"), brokenTaskRepository{err: cause})
	_, err = prod.ListTasks(context.Background())
	require.ErrorAs(t, err, &httpErr)
	assert.NotContains(t, httpErr.Message, "server selection timeout")
}
