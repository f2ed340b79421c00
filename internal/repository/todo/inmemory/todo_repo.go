// Package inmemory is a process-local todo store with the same semantics as
// the PostGIS one. It backs local runs and service tests.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	repo "github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID // insertion order
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *TodoStorage) List(ctx context.Context, limit, offset int, pred *spatial.Predicate) ([]*todo.Todo, error) {
	if limit < 0 || offset < 0 {
		return nil, repo.ErrInvalidPagination
	}
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	skipped := 0
	for _, id := range s.ids {
		if len(res) >= limit {
			break
		}
		t := s.storage[id]
		if pred != nil && !pred.Matches(t.Geom) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		res = append(res, t.Clone())
	}
	return res, nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("get todo %s: %w", id, repo.ErrNotFound)
	}
	return t.Clone(), nil
}

func (s *TodoStorage) Insert(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()

	created := t.Clone()
	created.ID = uuid.New()
	created.IsCompleted = false
	created.CreatedAt = s.now().UTC()

	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)
	return created.Clone(), nil
}

func (s *TodoStorage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("delete todo %s: %w", id, repo.ErrNotFound)
	}
	s.remove(id)
	return t, nil
}

func (s *TodoStorage) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("update todo %s: %w", id, repo.ErrNotFound)
	}
	patch.Apply(t)
	return t.Clone(), nil
}

func (s *TodoStorage) ToggleCompleted(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("toggle todo %s: %w", id, repo.ErrNotFound)
	}
	t.IsCompleted = !t.IsCompleted
	return t.Clone(), nil
}

func (s *TodoStorage) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	deleted := []*todo.Todo{}
	kept := make([]uuid.UUID, 0, len(s.ids))
	for _, id := range s.ids {
		t := s.storage[id]
		if t.IsCompleted && !t.Date.After(cutoff) {
			deleted = append(deleted, t)
			delete(s.storage, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept

	logger.Debug("Repository: completed todos removed", zap.Int("rows", len(deleted)))
	return deleted, nil
}

// remove expects the write lock to be held.
func (s *TodoStorage) remove(id uuid.UUID) {
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			return
		}
	}
}
