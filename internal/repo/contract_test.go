package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-api/internal/model"
)

func sampleInput(title string, p model.Priority) model.TodoInput {
	return model.TodoInput{
		Title:    title,
		IsDone:   false,
		DueAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Priority: p,
	}
}

// testRepository runs the same behaviour checks against any backend. newRepo
// must return an empty repository.
func testRepository(t *testing.T, newRepo func(t *testing.T) TodoRepository) {
	ctx := context.Background()

	t.Run("create assigns increasing ids", func(t *testing.T) {
		r := newRepo(t)

		first, err := r.Create(ctx, sampleInput("first", model.PriorityHigh))
		require.NoError(t, err)
		second, err := r.Create(ctx, sampleInput("second", model.PriorityLow))
		require.NoError(t, err)

		assert.NotZero(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("get returns what was created", func(t *testing.T) {
		r := newRepo(t)
		in := model.TodoInput{
			Title:    "Write spec",
			IsDone:   true,
			DueAt:    time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
			Priority: model.PriorityMedium,
		}

		created, err := r.Create(ctx, in)
		require.NoError(t, err)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, in.Title, got.Title)
		assert.Equal(t, in.IsDone, got.IsDone)
		assert.True(t, in.DueAt.Equal(got.DueAt))
		assert.Equal(t, in.Priority, got.Priority)
	})

	t.Run("get unknown id", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.Get(ctx, 12345)
		assert.ErrorIs(t, err, ErrorNotFound)
	})

	t.Run("update replaces all fields", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, sampleInput("Original", model.PriorityHigh))
		require.NoError(t, err)

		in := model.TodoInput{
			Title:    "Updated",
			IsDone:   true,
			DueAt:    time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
			Priority: model.PriorityLow,
		}
		updated, err := r.Update(ctx, created.ID, in)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)

		got, err := r.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Title)
		assert.True(t, got.IsDone)
		assert.True(t, in.DueAt.Equal(got.DueAt))
		assert.Equal(t, model.PriorityLow, got.Priority)
	})

	t.Run("update with unchanged values", func(t *testing.T) {
		r := newRepo(t)
		in := sampleInput("Same", model.PriorityHigh)
		created, err := r.Create(ctx, in)
		require.NoError(t, err)

		_, err = r.Update(ctx, created.ID, in)
		assert.NoError(t, err)
	})

	t.Run("update unknown id changes nothing", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, sampleInput("Keep", model.PriorityHigh))
		require.NoError(t, err)

		_, err = r.Update(ctx, created.ID+100, sampleInput("Nope", model.PriorityLow))
		assert.ErrorIs(t, err, ErrorNotFound)

		items, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Keep", items[0].Title)
	})

	t.Run("delete", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, sampleInput("To Delete", model.PriorityHigh))
		require.NoError(t, err)

		require.NoError(t, r.Delete(ctx, created.ID))

		_, err = r.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrorNotFound)
		assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrorNotFound)
	})

	t.Run("deleted ids are not reused", func(t *testing.T) {
		r := newRepo(t)
		first, err := r.Create(ctx, sampleInput("a", model.PriorityHigh))
		require.NoError(t, err)
		second, err := r.Create(ctx, sampleInput("b", model.PriorityHigh))
		require.NoError(t, err)
		require.NoError(t, r.Delete(ctx, second.ID))

		third, err := r.Create(ctx, sampleInput("c", model.PriorityHigh))
		require.NoError(t, err)
		assert.Greater(t, third.ID, second.ID)
		assert.Greater(t, third.ID, first.ID)
	})

	t.Run("list after creates and deletes", func(t *testing.T) {
		r := newRepo(t)

		items, err := r.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)

		var ids []int64
		for i := 0; i < 5; i++ {
			item, err := r.Create(ctx, sampleInput(fmt.Sprintf("Task %d", i), model.PriorityMedium))
			require.NoError(t, err)
			ids = append(ids, item.ID)
		}
		require.NoError(t, r.Delete(ctx, ids[1]))
		require.NoError(t, r.Delete(ctx, ids[3]))
		_, err = r.Update(ctx, ids[4], sampleInput("Task 4 v2", model.PriorityLow))
		require.NoError(t, err)

		items, err = r.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []int64{ids[0], ids[2], ids[4]}, []int64{items[0].ID, items[1].ID, items[2].ID})
		assert.Equal(t, "Task 4 v2", items[2].Title)
		assert.Equal(t, model.PriorityLow, items[2].Priority)
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		r := newRepo(t)

		const goroutines = 20
		var wg sync.WaitGroup
		ids := make([]int64, goroutines)
		errs := make([]error, goroutines)

		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				item, err := r.Create(ctx, sampleInput(fmt.Sprintf("Concurrent %d", idx), model.PriorityHigh))
				ids[idx], errs[idx] = item.ID, err
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "create %d", i)
		}

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for i := 1; i < len(ids); i++ {
			assert.Less(t, ids[i-1], ids[i], "ids must be unique")
		}

		items, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, goroutines)
	})

	t.Run("delete racing with update", func(t *testing.T) {
		r := newRepo(t)
		created, err := r.Create(ctx, sampleInput("Race", model.PriorityHigh))
		require.NoError(t, err)

		var wg sync.WaitGroup
		var updateErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, updateErr = r.Update(ctx, created.ID, sampleInput("Race v2", model.PriorityLow))
		}()
		go func() {
			defer wg.Done()
			deleteErr = r.Delete(ctx, created.ID)
		}()
		wg.Wait()

		require.NoError(t, deleteErr)
		if updateErr != nil {
			assert.ErrorIs(t, updateErr, ErrorNotFound)
		}
		_, err = r.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrorNotFound)
	})
}
