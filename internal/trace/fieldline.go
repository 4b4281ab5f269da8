package trace

import (
	"electric-field/internal/field"

	"gonum.org/v1/gonum/spatial/r2"
)

// FieldLine follows the field from seed, forward in Passes[0] and backward in
// Passes[1]. A pass ends when it leaves the canvas plus margin, reaches an
// active charge or stalls at a point where the field vanishes.
func FieldLine(m field.Model, seed r2.Vec, b Bounds) Trace {
	var t Trace
	for i, dir := range [2]float64{1, -1} {
		t.Passes[i] = fieldLinePass(m, seed, dir, b)
	}
	return t
}

func fieldLinePass(m field.Model, seed r2.Vec, dir float64, b Bounds) Curve {
	var c Curve
	em := newEmitter(seed, b)

	// Any pass that stays inside the canvas plus margin ends long before this.
	limit := int((b.Width + 2*margin) * (b.Height + 2*margin) / Precision)

	p := seed
	var prev r2.Vec
	for {
		if !b.inside(p) {
			c.Stop = StopBoundary
			break
		}
		if c.Steps >= limit {
			c.Stop = StopCap
			break
		}

		s := m.Field(p)
		mag := s.Magnitude()
		if mag == 0 || !finite(mag) {
			c.Stop = StopStalled
			break
		}
		step := r2.Scale(dir*Precision/mag, s.E)
		// A step that doubles back means the line is straddling a null point.
		if c.Steps > 0 && r2.Dot(step, prev) < 0 {
			c.Stop = StopStalled
			break
		}
		em.emit(p, mag, true)

		p = r2.Add(p, step)
		prev = step
		c.Steps++
		if m.Charges.Near(p) {
			c.Stop = StopCharge
			break
		}
	}

	c.Segments = em.segs
	return c
}
