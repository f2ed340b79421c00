package todo

import (
	"fmt"
	"time"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Patch carries the fields of an update. Nil fields are left untouched; a
// geometry replaces the old one whole, so Point and Polygon can swap.
type Patch struct {
	Name     *string
	Subject  *Subject
	Priority *int
	Date     *time.Time
	Geom     *geometry.Geometry
}

type PatchOption func(*Patch)

func NewPatch(opts ...PatchOption) Patch {
	var p Patch
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

func WithName(name *string) PatchOption {
	if name == nil {
		return nil
	}
	v := *name
	return func(p *Patch) {
		p.Name = &v
	}
}

func WithSubject(subject *Subject) PatchOption {
	if subject == nil {
		return nil
	}
	v := *subject
	return func(p *Patch) {
		p.Subject = &v
	}
}

func WithPriority(priority *int) PatchOption {
	if priority == nil {
		return nil
	}
	v := *priority
	return func(p *Patch) {
		p.Priority = &v
	}
}

func WithDate(date *time.Time) PatchOption {
	if date == nil {
		return nil
	}
	v := *date
	return func(p *Patch) {
		p.Date = &v
	}
}

func WithGeom(geom *geometry.Geometry) PatchOption {
	if geom == nil {
		return nil
	}
	v := geom.Clone()
	return func(p *Patch) {
		p.Geom = &v
	}
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Subject == nil && p.Priority == nil && p.Date == nil && p.Geom == nil
}

func (p Patch) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.When(p.Name != nil, nameRules...)),
		validation.Field(&p.Subject, validation.When(p.Subject != nil, subjectRules...)),
		validation.Field(&p.Priority, validation.When(p.Priority != nil, priorityRules...)),
		validation.Field(&p.Date, validation.When(p.Date != nil, validation.Required.Error("date is required"))),
		validation.Field(&p.Geom),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Apply merges p into t in place.
func (p Patch) Apply(t *Todo) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Geom != nil {
		t.Geom = p.Geom.Clone()
	}
}
