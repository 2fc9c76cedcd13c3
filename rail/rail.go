// Package rail is the 1-D path abstraction grind, dash-panel, and
// path-follow states ride: world position and tangent as a function of
// scalar distance along the path.
package rail

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTooFewPoints is returned when a rail has fewer than two points.
var ErrTooFewPoints = errors.New("rail: need at least two points")

// Rail is an arc-length parameterized polyline.
type Rail struct {
	points []mgl64.Vec3
	cum    []float64 // cumulative length at each point
	total  float64
}

// New builds a rail from control points.
func New(points ...mgl64.Vec3) (*Rail, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	r := &Rail{
		points: append([]mgl64.Vec3(nil), points...),
		cum:    make([]float64, len(points)),
	}
	for i := 1; i < len(points); i++ {
		r.cum[i] = r.cum[i-1] + points[i].Sub(points[i-1]).Len()
	}
	r.total = r.cum[len(r.cum)-1]
	if r.total == 0 {
		return nil, ErrTooFewPoints
	}
	return r, nil
}

// TotalLength returns the rail's arc length.
func (r *Rail) TotalLength() float64 {
	return r.total
}

// Points returns the control points for rendering.
func (r *Rail) Points() []mgl64.Vec3 {
	return r.points
}

// PositionAndTangent samples the rail at the given distance. Distances
// outside [0, TotalLength] clamp to the ends. The up vector is world up
// orthonormalized against the tangent.
func (r *Rail) PositionAndTangent(dist float64) (pos, tangent, up mgl64.Vec3) {
	if dist <= 0 {
		dist = 0
	}
	if dist >= r.total {
		dist = r.total
	}

	seg := 1
	for seg < len(r.cum)-1 && r.cum[seg] < dist {
		seg++
	}
	a, b := r.points[seg-1], r.points[seg]
	segLen := r.cum[seg] - r.cum[seg-1]
	t := 0.0
	if segLen > 0 {
		t = (dist - r.cum[seg-1]) / segLen
	}

	pos = a.Add(b.Sub(a).Mul(t))
	tangent = b.Sub(a).Normalize()

	worldUp := mgl64.Vec3{0, 1, 0}
	up = worldUp.Sub(tangent.Mul(worldUp.Dot(tangent)))
	if up.Len() < 1e-6 {
		// vertical segment: any perpendicular works
		up = mgl64.Vec3{1, 0, 0}.Sub(tangent.Mul(mgl64.Vec3{1, 0, 0}.Dot(tangent)))
	}
	up = up.Normalize()
	return pos, tangent, up
}

// ClosestDistance projects a world position onto the rail and returns
// the arc distance of the nearest point.
func (r *Rail) ClosestDistance(p mgl64.Vec3) float64 {
	bestDist := 0.0
	bestSqr := -1.0
	for i := 1; i < len(r.points); i++ {
		a, b := r.points[i-1], r.points[i]
		ab := b.Sub(a)
		segLen := ab.Len()
		if segLen == 0 {
			continue
		}
		t := p.Sub(a).Dot(ab) / (segLen * segLen)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		closest := a.Add(ab.Mul(t))
		d := p.Sub(closest)
		sqr := d.Dot(d)
		if bestSqr < 0 || sqr < bestSqr {
			bestSqr = sqr
			bestDist = r.cum[i-1] + segLen*t
		}
	}
	return bestDist
}
