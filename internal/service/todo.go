package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/BuzzLyutic/todo-api/internal/idempotency"
	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
)

var (
	ErrValidation = model.ErrInvalidInput
)

type TodoService struct {
	repo   repo.TodoRepository
	keys   idempotency.Store
	group  singleflight.Group
	logger *zap.Logger
}

// NewTodoService wires the service. keys may be nil, then Idempotency-Key is ignored.
func NewTodoService(repo repo.TodoRepository, keys idempotency.Store, logger *zap.Logger) *TodoService {
	return &TodoService{
		repo:   repo,
		keys:   keys,
		logger: logger,
	}
}

func (s *TodoService) List(ctx context.Context) ([]model.TodoItem, error) {
	return s.repo.List(ctx)
}

func (s *TodoService) Get(ctx context.Context, id int64) (model.TodoItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *TodoService) Create(ctx context.Context, in model.TodoInput, idempKey string) (model.TodoItem, error) {
	if err := in.Validate(); err != nil { // Валидация модели на корректность введенных данных
		return model.TodoItem{}, err
	}

	if idempKey == "" || s.keys == nil {
		return s.repo.Create(ctx, in)
	}

	// Concurrent requests with one key share a single create.
	v, err, _ := s.group.Do(idempKey, func() (interface{}, error) {
		return s.createOnce(ctx, in, idempKey)
	})
	if err != nil {
		return model.TodoItem{}, err
	}
	return v.(model.TodoItem), nil
}

func (s *TodoService) createOnce(ctx context.Context, in model.TodoInput, idempKey string) (model.TodoItem, error) {
	// Если ключ уже сохранен, отдаем ранее созданный ресурс
	existingID, err := s.keys.Get(ctx, idempKey)
	switch {
	case err == nil:
		return s.repo.Get(ctx, existingID)
	case !errors.Is(err, idempotency.ErrNotFound):
		return model.TodoItem{}, fmt.Errorf("lookup idempotency key: %w", err)
	}

	item, err := s.repo.Create(ctx, in)
	if err != nil {
		return model.TodoItem{}, err
	}

	// The item exists now; a lost key only costs deduplication of later retries.
	if err := s.keys.Save(ctx, idempKey, item.ID); err != nil {
		s.logger.Warn("failed to save idempotency key",
			zap.String("key", idempKey),
			zap.Int64("todo_id", item.ID),
			zap.Error(err),
		)
	}
	return item, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, in model.TodoInput) (model.TodoItem, error) {
	if err := in.Validate(); err != nil {
		return model.TodoItem{}, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Seed adds the sample items when the store is empty and reports how many were added.
func (s *TodoService) Seed(ctx context.Context, now time.Time) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	seed := []model.TodoInput{
		{Title: "Learn React", DueAt: now.AddDate(0, 0, 7), Priority: model.PriorityHigh},
		{Title: "Learn Go", DueAt: now.AddDate(0, 0, 14), Priority: model.PriorityMedium},
		{Title: "Write Unit Tests", DueAt: now.AddDate(0, 0, 21), Priority: model.PriorityLow},
	}
	for i, in := range seed {
		if _, err := s.repo.Create(ctx, in); err != nil {
			return i, fmt.Errorf("seed %q: %w", in.Title, err)
		}
	}
	return len(seed), nil
}
