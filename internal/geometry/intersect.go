package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Intersects reports whether a and b share at least one point in the plane,
// boundaries included. It mirrors ST_Intersects for the shapes a todo can hold.
func Intersects(a, b Geometry) bool {
	if a.Validate() != nil || b.Validate() != nil {
		return false
	}
	if !a.Orb().Bound().Intersects(b.Orb().Bound()) {
		return false
	}

	switch {
	case a.Type == TypePoint && b.Type == TypePoint:
		return a.Point.Equal(*b.Point)
	case a.Type == TypePoint:
		return polygonCovers(b.Polygon, *a.Point)
	case b.Type == TypePoint:
		return polygonCovers(a.Polygon, *b.Point)
	default:
		return polygonsIntersect(a.Polygon, b.Polygon)
	}
}

// polygonCovers counts every ring, holes included, as part of the polygon.
func polygonCovers(poly orb.Polygon, p orb.Point) bool {
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			if cross(ring[i], ring[i+1], p) == 0 && onSegment(ring[i], ring[i+1], p) {
				return true
			}
		}
	}
	return planar.PolygonContains(poly, p)
}

func polygonsIntersect(a, b orb.Polygon) bool {
	for _, ra := range a {
		for _, rb := range b {
			if ringsCross(ra, rb) {
				return true
			}
		}
	}
	// no edges cross: either disjoint or one sits inside the other
	if planar.PolygonContains(a, b[0][0]) {
		return true
	}
	return planar.PolygonContains(b, a[0][0])
}

func ringsCross(a, b orb.Ring) bool {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}
