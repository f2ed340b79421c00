package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository/todo/inmemory"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodo(name string, geom geometry.Geometry) *todo.Todo {
	return &todo.Todo{
		Name:     name,
		Subject:  todo.SubjectWork,
		Priority: 5,
		Date:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Geom:     geom,
	}
}

func TestTodoStorage_Insert(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	fixed := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	storage.SetClock(func() time.Time { return fixed })

	in := newTodo("first", geometry.NewPoint(1, 2))
	in.IsCompleted = true

	created, err := storage.Insert(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.IsCompleted)
	assert.Equal(t, fixed, created.CreatedAt)

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = storage.Insert(ctx, newTodo("", geometry.NewPoint(1, 2)))
	assert.ErrorIs(t, err, todo.ErrInvalid)
}

func TestTodoStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		created, err := storage.Insert(ctx, newTodo(fmt.Sprintf("todo %d", i), geometry.NewPoint(float64(i)*10, 0)))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	page, err := storage.List(ctx, 2, 1, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	page, err = storage.List(ctx, 0, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, page)

	page, err = storage.List(ctx, 10, 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page)

	_, err = storage.List(ctx, -1, 0, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidPagination)
}

func TestTodoStorage_ListFiltered(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	inside, err := storage.Insert(ctx, newTodo("inside", geometry.NewPoint(5, 5)))
	require.NoError(t, err)
	_, err = storage.Insert(ctx, newTodo("outside", geometry.NewPoint(50, 50)))
	require.NoError(t, err)
	second, err := storage.Insert(ctx, newTodo("second inside", geometry.NewPoint(6, 6)))
	require.NoError(t, err)

	pred, err := spatial.Build(geometry.NewPolygon(orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}))
	require.NoError(t, err)

	page, err := storage.List(ctx, 15, 0, pred)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, inside.ID, page[0].ID)

	page, err = storage.List(ctx, 15, 1, pred)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
}

func TestTodoStorage_UpdateToggleDelete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Insert(ctx, newTodo("todo", geometry.NewPoint(1, 1)))
	require.NoError(t, err)

	area := geometry.NewPolygon(orb.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}})
	updated, err := storage.Update(ctx, created.ID, todo.NewPatch(todo.WithGeom(&area)))
	require.NoError(t, err)
	assert.Equal(t, area, updated.Geom)
	assert.Equal(t, "todo", updated.Name)

	toggled, err := storage.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	toggled, err = storage.ToggleCompleted(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	deleted, err := storage.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	missing := uuid.New()
	_, err = storage.Delete(ctx, missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = storage.Update(ctx, missing, todo.NewPatch())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = storage.ToggleCompleted(ctx, missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = storage.GetByID(ctx, missing)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTodoStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	created, err := storage.Insert(ctx, newTodo("todo", geometry.NewPoint(1, 1)))
	require.NoError(t, err)
	created.Name = "mutated"

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "todo", got.Name)
}

func TestTodoStorage_DeleteCompletedBefore(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	insert := func(date time.Time, completed bool) uuid.UUID {
		in := newTodo("t", geometry.NewPoint(0, 0))
		in.Date = date
		created, err := storage.Insert(ctx, in)
		require.NoError(t, err)
		if completed {
			_, err = storage.ToggleCompleted(ctx, created.ID)
			require.NoError(t, err)
		}
		return created.ID
	}

	atCutoff := insert(cutoff, true)
	after := insert(cutoff.Add(24*time.Hour), true)
	openOld := insert(cutoff.AddDate(0, -1, 0), false)

	deleted, err := storage.DeleteCompletedBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, atCutoff, deleted[0].ID)

	page, err := storage.List(ctx, 15, 0, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, after, page[0].ID)
	assert.Equal(t, openOld, page[1].ID)
}

func TestTodoStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := storage.Insert(ctx, newTodo("todo", geometry.NewPoint(1, 1)))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := storage.List(ctx, 15, 0, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	page, err := storage.List(ctx, 100, 0, nil)
	require.NoError(t, err)
	assert.Len(t, page, 50)
}
