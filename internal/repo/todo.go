package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

const todoColumns = "id, title, is_done, due_at, priority"

type TodoRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTodoRepo(pool *pgxpool.Pool) *TodoRepo { // Конструктор
	return &TodoRepo{
		pool: pool,
	}
}

// EnsureSchema creates the todo_items table if it does not exist yet.
func (r *TodoRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *TodoRepo) List(ctx context.Context) ([]model.TodoItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+todoColumns+` FROM todo_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	items := make([]model.TodoItem, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return items, nil
}

func (r *TodoRepo) Get(ctx context.Context, id int64) (model.TodoItem, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+todoColumns+` FROM todo_items WHERE id = $1`, id)
	return r.mapRow(row)
}

func (r *TodoRepo) Create(ctx context.Context, in model.TodoInput) (model.TodoItem, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO todo_items (title, is_done, due_at, priority)
		VALUES ($1, $2, $3, $4)
		RETURNING `+todoColumns,
		in.Title, in.IsDone, in.DueAt.UTC(), string(in.Priority),
	)
	return r.mapRow(row)
}

// Update replaces every mutable column in a single statement.
func (r *TodoRepo) Update(ctx context.Context, id int64, in model.TodoInput) (model.TodoItem, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE todo_items
		SET title = $2, is_done = $3, due_at = $4, priority = $5
		WHERE id = $1
		RETURNING `+todoColumns,
		id, in.Title, in.IsDone, in.DueAt.UTC(), string(in.Priority),
	)
	return r.mapRow(row)
}

func (r *TodoRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM todo_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TodoRepo) mapRow(row pgx.Row) (model.TodoItem, error) {
	item, err := scanTodo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.TodoItem{}, ErrorNotFound
	}
	if err != nil {
		return model.TodoItem{}, fmt.Errorf("scan todo: %w", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (model.TodoItem, error) {
	var (
		item     model.TodoItem
		priority string
	)
	if err := s.Scan(&item.ID, &item.Title, &item.IsDone, &item.DueAt, &priority); err != nil {
		return model.TodoItem{}, err
	}
	item.DueAt = item.DueAt.UTC()
	item.Priority = model.Priority(priority)
	return item, nil
}
