package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTaskRepository(t *testing.T) {
	testTaskRepository(t, NewMemoryTaskRepository(), uuid.NewString())
}

func TestMemoryProductRepository(t *testing.T) {
	testProductRepository(t, NewMemoryProductRepository(), uuid.NewString())
}

func TestMemoryTaskRepositoryConcurrentWrites(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateTask(ctx, &task.CreateTaskPayload{Name: "parallel"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)
}

func TestMemoryTaskRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	done := false
	created, err := repo.CreateTask(ctx, &task.CreateTaskPayload{Name: "copy", Completed: &done})
	require.NoError(t, err)

	*created.Completed = true
	got, err := repo.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, *got.Completed)
}
