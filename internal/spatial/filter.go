// Package spatial turns a client supplied search area into a predicate the
// stores can apply.
package spatial

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"

	sq "github.com/Masterminds/squirrel"
)

var ErrMalformedFilter = errors.New("malformed filter geometry")

// ParseFilter accepts a GeoJSON geometry either as an object or as a string
// holding the object.
func ParseFilter(raw json.RawMessage) (geometry.Geometry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return geometry.Geometry{}, fmt.Errorf("%w: empty", ErrMalformedFilter)
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return geometry.Geometry{}, fmt.Errorf("%w: %v", ErrMalformedFilter, err)
		}
		raw = []byte(s)
	}

	var g geometry.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return geometry.Geometry{}, fmt.Errorf("%w: %v", ErrMalformedFilter, err)
	}
	return g, nil
}

// Predicate selects todos whose geometry intersects an area.
type Predicate struct {
	area geometry.Geometry
	ewkb []byte
}

var _ sq.Sqlizer = (*Predicate)(nil)

func Build(area geometry.Geometry) (*Predicate, error) {
	data, err := geometry.Encode(area)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFilter, err)
	}
	return &Predicate{area: area.Clone(), ewkb: data}, nil
}

func (p *Predicate) ToSql() (string, []any, error) {
	return "ST_Intersects(geom, ST_GeomFromEWKB(?))", []any{p.ewkb}, nil
}

func (p *Predicate) Matches(g geometry.Geometry) bool {
	return geometry.Intersects(g, p.area)
}
