package service

import (
	"context"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/cache"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/logger"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceTodo = "todo"

// TodoService serves unfiltered pages from the page cache and clears the cache
// after every successful write. Filtered reads always go to the store.
type TodoService struct {
	repo  TodoRepository
	pages cache.PageCache
}

func NewTodoService(repo TodoRepository, pages cache.PageCache) *TodoService {
	if pages == nil {
		pages = cache.Nop{}
	}
	return &TodoService{repo: repo, pages: pages}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return AsBusinessError(err)
	}
	return nil
}

func (s *TodoService) FindAll(ctx context.Context, limit, offset int, filter *geometry.Geometry) ([]*todo.Todo, error) {
	if limit < 0 {
		return nil, NewValidationError("limit", "must not be negative")
	}
	if offset < 0 {
		return nil, NewValidationError("offset", "must not be negative")
	}

	if filter != nil {
		return s.findInArea(ctx, limit, offset, *filter)
	}

	key := cache.PageKey(limit, offset)
	page, ok, err := s.pages.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("Service: cache read failed, falling back to store", zap.String("key", key), zap.Error(err))
	case ok:
		logger.Debug("Service: cache hit", zap.String("key", key))
		return page, nil
	}

	todos, err := s.repo.List(ctx, limit, offset, nil)
	if err != nil {
		return nil, AsBusinessError(err)
	}

	if err := s.pages.Set(ctx, key, todos); err != nil {
		logger.Warn("Service: cache write failed", zap.String("key", key), zap.Error(err))
	}
	return todos, nil
}

func (s *TodoService) findInArea(ctx context.Context, limit, offset int, area geometry.Geometry) ([]*todo.Todo, error) {
	pred, err := spatial.Build(area)
	if err != nil {
		return nil, AsBusinessError(err)
	}
	todos, err := s.repo.List(ctx, limit, offset, pred)
	if err != nil {
		return nil, AsBusinessError(err)
	}
	return todos, nil
}

func (s *TodoService) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(id, err)
	}
	return t, nil
}

func (s *TodoService) Create(ctx context.Context, draft todo.Draft) (*todo.Todo, error) {
	if err := draft.Validate(); err != nil {
		return nil, AsBusinessError(err)
	}

	created, err := s.repo.Insert(ctx, draft.Todo())
	if err != nil {
		return nil, AsBusinessError(err)
	}

	logger.Info("Service: todo created", zap.String("todo_id", created.ID.String()))
	s.invalidate(ctx)
	return created, nil
}

func (s *TodoService) Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error) {
	if patch.IsEmpty() {
		return nil, NewValidationError("body", "at least one field is required")
	}
	if err := patch.Validate(); err != nil {
		return nil, AsBusinessError(err)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.notFoundOr(id, err)
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(id, err)
	}

	logger.Info("Service: todo deleted", zap.String("todo_id", id.String()))
	s.invalidate(ctx)
	return deleted, nil
}

func (s *TodoService) Toggle(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	toggled, err := s.repo.ToggleCompleted(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(id, err)
	}

	s.invalidate(ctx)
	return toggled, nil
}

// invalidate clears every cached page. A failure only leaves pages to expire
// by TTL, so the write is still reported as successful.
func (s *TodoService) invalidate(ctx context.Context) {
	if err := s.pages.Clear(ctx); err != nil {
		logger.Warn("Service: cache clear failed", zap.Error(err))
	}
}

func (s *TodoService) notFoundOr(id uuid.UUID, err error) error {
	busErr := AsBusinessError(err)
	if busErr.Code == CodeNotFound {
		logger.Info("Service: todo not found", zap.String("target_id", id.String()))
		notFound := NewNotFound(resourceTodo, id.String())
		notFound.Err = err
		return notFound
	}
	return busErr
}
