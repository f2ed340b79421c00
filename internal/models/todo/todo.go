package todo

import (
	"errors"
	"fmt"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var ErrInvalid = errors.New("invalid todo")

type Todo struct {
	ID          uuid.UUID         `json:"id" db:"id" msgpack:"id"`
	Name        string            `json:"name" db:"name" msgpack:"name"`
	Subject     Subject           `json:"subject" db:"subject" msgpack:"subject"`
	Priority    int               `json:"priority" db:"priority" msgpack:"priority"`
	Date        time.Time         `json:"date" db:"date" msgpack:"date"`
	IsCompleted bool              `json:"isCompleted" db:"is_completed" msgpack:"is_completed"`
	Geom        geometry.Geometry `json:"geom" db:"geom" msgpack:"geom"`
	CreatedAt   time.Time         `json:"-" db:"created_at" msgpack:"created_at"`
}

type Subject string

const (
	SubjectWork     Subject = "Work"
	SubjectPersonal Subject = "Personal"
	SubjectMilitary Subject = "Military"
	SubjectUrgent   Subject = "Urgent"
	SubjectGeneral  Subject = "General"
)

var Subjects = []any{SubjectWork, SubjectPersonal, SubjectMilitary, SubjectUrgent, SubjectGeneral}

const (
	MinPriority = 1
	MaxPriority = 10
)

func (t *Todo) Validate() error {
	err := validation.ValidateStruct(t,
		validation.Field(&t.Name, nameRules...),
		validation.Field(&t.Subject, subjectRules...),
		validation.Field(&t.Priority, priorityRules...),
		validation.Field(&t.Date, validation.Required.Error("date is required")),
		validation.Field(&t.Geom),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Geom = t.Geom.Clone()
	return &cp
}

var (
	nameRules     = []validation.Rule{validation.Required.Error("Name cannot be empty")}
	subjectRules  = []validation.Rule{validation.Required, validation.In(Subjects...)}
	priorityRules = []validation.Rule{
		validation.Required,
		validation.Min(MinPriority),
		validation.Max(MaxPriority),
	}
)

// Draft is a todo the caller wants created. The store assigns ID and
// completion state.
type Draft struct {
	Name     string
	Subject  Subject
	Priority int
	Date     time.Time
	Geom     geometry.Geometry
}

func (d Draft) Todo() *Todo {
	return &Todo{
		Name:     d.Name,
		Subject:  d.Subject,
		Priority: d.Priority,
		Date:     d.Date,
		Geom:     d.Geom.Clone(),
	}
}

func (d Draft) Validate() error {
	return d.Todo().Validate()
}
