package repo

import (
	"context"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// TodoRepository определяет интерфейс для работы с задачами
type TodoRepository interface {
	List(ctx context.Context) ([]model.TodoItem, error)
	Get(ctx context.Context, id int64) (model.TodoItem, error)
	Create(ctx context.Context, in model.TodoInput) (model.TodoItem, error)
	Update(ctx context.Context, id int64, in model.TodoInput) (model.TodoItem, error)
	Delete(ctx context.Context, id int64) error
}
