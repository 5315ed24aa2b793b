package repository

import (
	"context"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const taskColumns = `id::text AS id, name, completed`

// Tasks list in insertion order, matching the Mongo and memory stores.
const listTasksQuery = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`

type taskRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Completed *bool  `db:"completed"`
}

func (r taskRow) toTask() *task.Task {
	return &task.Task{ID: r.ID, Name: r.Name, Completed: r.Completed}
}

type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

func (r *PostgresTaskRepository) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := r.pool.Query(ctx, listTasksQuery)
	if err != nil {
		return nil, errors.Wrap(err, "select tasks")
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, errors.Wrap(err, "scan tasks")
	}

	tasks := make([]task.Task, 0, len(collected))
	for _, row := range collected {
		tasks = append(tasks, *row.toTask())
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) CreateTask(ctx context.Context, payload *task.CreateTaskPayload) (*task.Task, error) {
	stmt := `INSERT INTO tasks (name, completed) VALUES (@name, @completed) RETURNING ` + taskColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":      payload.Name,
		"completed": payload.Completed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "insert task")
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, errors.Wrap(err, "insert task")
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, dberr.NotFound("tasks")
	}

	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, errors.Wrapf(err, "select task %s", id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, errors.Wrapf(err, "select task %s", id)
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) UpdateTask(ctx context.Context, id string, update task.Update) (*task.Task, error) {
	if uuid.Validate(id) != nil {
		return nil, dberr.NotFound("tasks")
	}

	stmt := `
		UPDATE tasks
		SET name = COALESCE(@name, name),
			completed = COALESCE(@completed, completed)
		WHERE id = @id
		RETURNING ` + taskColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":        id,
		"name":      update.Name,
		"completed": update.Completed,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "update task %s", id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[taskRow])
	if err != nil {
		return nil, errors.Wrapf(err, "update task %s", id)
	}
	return row.toTask(), nil
}

func (r *PostgresTaskRepository) DeleteTask(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return dberr.NotFound("tasks")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete task %s", id)
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound("tasks")
	}
	return nil
}
