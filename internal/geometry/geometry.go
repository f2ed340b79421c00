// Package geometry holds the spatial value attached to every todo and the
// codec that moves it between the API, the cache and PostGIS.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/geojson"
)

// SRID is WGS84, the only reference system stored in the todos table.
const SRID = 4326

type Type string

const (
	TypePoint   Type = "Point"
	TypePolygon Type = "Polygon"
)

var (
	ErrInvalidGeometry         = errors.New("invalid geometry")
	ErrUnsupportedGeometryType = errors.New("unsupported geometry type")
)

// Geometry is either a Point or a Polygon. Exactly one of Point and Polygon is
// set and it matches Type.
type Geometry struct {
	Type    Type        `msgpack:"type"`
	Point   *orb.Point  `msgpack:"point,omitempty"`
	Polygon orb.Polygon `msgpack:"polygon,omitempty"`
}

func NewPoint(lng, lat float64) Geometry {
	p := orb.Point{lng, lat}
	return Geometry{Type: TypePoint, Point: &p}
}

func NewPolygon(rings ...orb.Ring) Geometry {
	return Geometry{Type: TypePolygon, Polygon: orb.Polygon(rings)}
}

func FromOrb(g orb.Geometry) (Geometry, error) {
	switch v := g.(type) {
	case orb.Point:
		return NewPoint(v[0], v[1]), nil
	case orb.Polygon:
		return Geometry{Type: TypePolygon, Polygon: v.Clone()}, nil
	case nil:
		return Geometry{}, fmt.Errorf("%w: empty", ErrInvalidGeometry)
	default:
		return Geometry{}, fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, g.GeoJSONType())
	}
}

// Orb returns the active shape. Callers must Validate first.
func (g Geometry) Orb() orb.Geometry {
	if g.Type == TypePoint && g.Point != nil {
		return *g.Point
	}
	return g.Polygon
}

func (g Geometry) Clone() Geometry {
	out := Geometry{Type: g.Type}
	if g.Point != nil {
		p := *g.Point
		out.Point = &p
	}
	if g.Polygon != nil {
		out.Polygon = g.Polygon.Clone()
	}
	return out
}

func (g Geometry) Validate() error {
	switch g.Type {
	case TypePoint:
		if g.Point == nil || g.Polygon != nil {
			return fmt.Errorf("%w: point must carry only coordinates", ErrInvalidGeometry)
		}
		if !finite(*g.Point) {
			return fmt.Errorf("%w: coordinate is not a finite number", ErrInvalidGeometry)
		}
	case TypePolygon:
		if g.Point != nil {
			return fmt.Errorf("%w: polygon must carry only rings", ErrInvalidGeometry)
		}
		if len(g.Polygon) == 0 {
			return fmt.Errorf("%w: polygon has no rings", ErrInvalidGeometry)
		}
		for i, ring := range g.Polygon {
			if len(ring) < 4 {
				return fmt.Errorf("%w: ring %d has %d points, need at least 4", ErrInvalidGeometry, i, len(ring))
			}
			if !ring.Closed() {
				return fmt.Errorf("%w: ring %d is not closed", ErrInvalidGeometry, i)
			}
			for _, p := range ring {
				if !finite(p) {
					return fmt.Errorf("%w: coordinate is not a finite number", ErrInvalidGeometry)
				}
			}
		}
	case "":
		return fmt.Errorf("%w: missing type", ErrInvalidGeometry)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, g.Type)
	}
	return nil
}

func finite(p orb.Point) bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Encode renders g as EWKB tagged with SRID 4326.
func Encode(g Geometry) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	data, err := ewkb.Marshal(g.Orb(), SRID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return data, nil
}

func Decode(data []byte) (Geometry, error) {
	og, srid, err := ewkb.Unmarshal(data)
	if err != nil {
		return Geometry{}, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	if srid != SRID {
		return Geometry{}, fmt.Errorf("%w: srid %d", ErrInvalidGeometry, srid)
	}
	return FromOrb(og)
}

func (g Geometry) MarshalJSON() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(geojson.NewGeometry(g.Orb()))
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	switch Type(head.Type) {
	case TypePoint, TypePolygon:
	case "":
		return fmt.Errorf("%w: missing type", ErrInvalidGeometry)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedGeometryType, head.Type)
	}

	gj, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	parsed, err := FromOrb(gj.Geometry())
	if err != nil {
		return err
	}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*g = parsed
	return nil
}
