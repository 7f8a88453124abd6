package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

// MemoryRepo keeps items in process memory. Items are stored by value, so readers
// never see an item mid-update.
type MemoryRepo struct {
	mu     sync.RWMutex
	items  map[int64]model.TodoItem
	lastID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items: make(map[int64]model.TodoItem),
	}
}

func (r *MemoryRepo) List(_ context.Context) ([]model.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.TodoItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepo) Get(_ context.Context, id int64) (model.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return model.TodoItem{}, ErrorNotFound
	}
	return item, nil
}

func (r *MemoryRepo) Create(_ context.Context, in model.TodoInput) (model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// lastID only grows, deleted ids are never handed out again
	r.lastID++
	item := model.NewTodoItem(r.lastID, in)
	r.items[item.ID] = item
	return item, nil
}

func (r *MemoryRepo) Update(_ context.Context, id int64, in model.TodoInput) (model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return model.TodoItem{}, ErrorNotFound
	}
	item := model.NewTodoItem(id, in)
	r.items[id] = item
	return item, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrorNotFound
	}
	delete(r.items, id)
	return nil
}
