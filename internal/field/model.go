// Package field holds the charges of a session and the force laws that turn
// them into a field vector and a scalar potential at any point.
package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	K = 1000.0 // coulomb constant, screen units

	pointChargeScale = 500.0
	potentialScale   = 1000.0
)

// Sample is the field at a point.
type Sample struct {
	Pos r2.Vec
	E   r2.Vec
}

func (s Sample) Magnitude() float64 {
	return math.Sqrt(s.E.X*s.E.X + s.E.Y*s.E.Y)
}

// Model evaluates the superposed field of the active charges. With PointCharge
// unset every charge is an infinite line charge (1/r falloff), otherwise a point
// charge (1/r^2).
//
// Model never guards r == 0; callers must not sample exactly on a charge.
type Model struct {
	Charges     View
	PointCharge bool
}

// strength is the signed per-charge magnitude at squared distance dist2.
func (m Model) strength(q int, dist2 float64) float64 {
	if m.PointCharge {
		return -(K * pointChargeScale * float64(q)) / dist2
	}
	return -(K * float64(q)) / math.Sqrt(dist2)
}

func (m Model) Field(p r2.Vec) Sample {
	var e r2.Vec
	for c := range m.Charges.All() {
		d := r2.Sub(c.Pos, p)
		dist2 := r2.Norm2(d)
		s := m.strength(c.Q, dist2) / math.Sqrt(dist2)
		e.X += s * d.X
		e.Y += s * d.Y
	}
	return Sample{Pos: p, E: e}
}

func (m Model) Potential(p r2.Vec) float64 {
	var v float64
	for c := range m.Charges.All() {
		r := r2.Norm(r2.Sub(c.Pos, p))
		if m.PointCharge {
			v += -float64(c.Q) / r * potentialScale
		} else {
			v += float64(c.Q) * math.Log(r)
		}
	}
	return v
}
