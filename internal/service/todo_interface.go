package service

import (
	"context"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"

	"github.com/google/uuid"
)

type TodoRepository interface {
	HealthCheck(ctx context.Context) error
	List(ctx context.Context, limit, offset int, pred *spatial.Predicate) ([]*todo.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	Insert(ctx context.Context, t *todo.Todo) (*todo.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	ToggleCompleted(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) ([]*todo.Todo, error)
}
