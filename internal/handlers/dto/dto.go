package dto

import (
	"encoding/json"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Name     string             `json:"name"`
	Subject  todo.Subject       `json:"subject"`
	Priority int                `json:"priority"`
	Date     time.Time          `json:"date"`
	Geom     *geometry.Geometry `json:"geom"`
}

func (r CreateTodoRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Geom, validation.NotNil.Error("geometry is required")),
	)
}

func (r CreateTodoRequest) ToDraft() todo.Draft {
	d := todo.Draft{
		Name:     r.Name,
		Subject:  r.Subject,
		Priority: r.Priority,
		Date:     r.Date,
	}
	if r.Geom != nil {
		d.Geom = *r.Geom
	}
	return d
}

type UpdateTodoRequest struct {
	Name     *string            `json:"name,omitempty"`
	Subject  *todo.Subject      `json:"subject,omitempty"`
	Priority *int               `json:"priority,omitempty"`
	Date     *time.Time         `json:"date,omitempty"`
	Geom     *geometry.Geometry `json:"geom,omitempty"`
}

func (r UpdateTodoRequest) ToPatch() todo.Patch {
	return todo.NewPatch(
		todo.WithName(r.Name),
		todo.WithSubject(r.Subject),
		todo.WithPriority(r.Priority),
		todo.WithDate(r.Date),
		todo.WithGeom(r.Geom),
	)
}

// FilterRequest carries the search area either as a GeoJSON object or as a
// string holding one.
type FilterRequest struct {
	FilterGeometry json.RawMessage `json:"filterGeometry"`
}

type TodoResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Subject     string            `json:"subject"`
	Priority    int               `json:"priority"`
	Date        time.Time         `json:"date"`
	IsCompleted bool              `json:"isCompleted"`
	Geom        geometry.Geometry `json:"geom"`
}

func FromTodo(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Name:        t.Name,
		Subject:     string(t.Subject),
		Priority:    t.Priority,
		Date:        t.Date,
		IsCompleted: t.IsCompleted,
		Geom:        t.Geom,
	}
}

func FromTodoList(todos []*todo.Todo) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t)
	}
	return result
}
