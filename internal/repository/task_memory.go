package repository

import (
	"context"
	"sync"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/google/uuid"
)

// MemoryTaskRepository keeps tasks in process memory, in insertion order.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]task.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]task.Task)}
}

func (r *MemoryTaskRepository) ListTasks(_ context.Context) ([]task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]task.Task, 0, len(r.order))
	for _, id := range r.order {
		tasks = append(tasks, cloneTask(r.tasks[id]))
	}
	return tasks, nil
}

func (r *MemoryTaskRepository) CreateTask(_ context.Context, payload *task.CreateTaskPayload) (*task.Task, error) {
	t := task.Task{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		Completed: copyPtr(payload.Completed),
	}

	r.mu.Lock()
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	r.mu.Unlock()

	out := cloneTask(t)
	return &out, nil
}

func (r *MemoryTaskRepository) GetTaskByID(_ context.Context, id string) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, dberr.NotFound("tasks")
	}

	out := cloneTask(t)
	return &out, nil
}

func (r *MemoryTaskRepository) UpdateTask(_ context.Context, id string, update task.Update) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, dberr.NotFound("tasks")
	}

	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Completed != nil {
		t.Completed = copyPtr(update.Completed)
	}
	r.tasks[id] = t

	out := cloneTask(t)
	return &out, nil
}

func (r *MemoryTaskRepository) DeleteTask(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return dberr.NotFound("tasks")
	}

	delete(r.tasks, id)
	r.order = removeID(r.order, id)
	return nil
}

func cloneTask(t task.Task) task.Task {
	t.Completed = copyPtr(t.Completed)
	return t
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
