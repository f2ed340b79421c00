package handlers

import (
	"context"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"

	"github.com/google/uuid"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	FindAll(ctx context.Context, limit, offset int, filter *geometry.Geometry) ([]*todo.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	Create(ctx context.Context, draft todo.Draft) (*todo.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch todo.Patch) (*todo.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
	Toggle(ctx context.Context, id uuid.UUID) (*todo.Todo, error)
}
