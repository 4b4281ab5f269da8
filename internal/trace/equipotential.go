package trace

import (
	"math"
	"strconv"

	"electric-field/internal/field"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	correctorStep = 0.1 // fraction of Precision per corrector nudge
	maxSteps      = 3000
	minLoopSteps  = 20
	maxNudges     = 1 << 16
)

var labelOffset = r2.Vec{X: 7, Y: -7}

// Equipotential follows the contour through seed whose potential equals the
// potential at seed, in both directions. The label carries the negated
// potential truncated to two decimals.
func Equipotential(m field.Model, seed r2.Vec, b Bounds) Trace {
	target := m.Potential(seed)

	t := Trace{
		Label:   potentialLabel(target),
		LabelAt: r2.Add(seed, labelOffset),
	}
	for i, sign := range [2]float64{-1, 1} {
		t.Passes[i] = equipotentialPass(m, seed, target, sign, b)
	}
	return t
}

func potentialLabel(v float64) string {
	l := math.Trunc(-v*100) / 100
	if l == 0 {
		l = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(l, 'f', -1, 64)
}

func equipotentialPass(m field.Model, seed r2.Vec, target, sign float64, b Bounds) Curve {
	var c Curve
	em := newEmitter(seed, b)

	p := seed
	for {
		if !b.inside(p) {
			c.Stop = StopBoundary
			break
		}

		s := m.Field(p)
		mag := s.Magnitude()
		if mag == 0 || !finite(mag) {
			c.Stop = StopStalled
			break
		}
		u := r2.Scale(1/mag, s.E)

		// Predict along the contour, then pull back onto it along the field.
		step := r2.Scale(sign*Precision, r2.Vec{X: -u.Y, Y: u.X})
		step = correct(m, p, step, u, target, b)

		em.emit(p, mag, c.Steps != 1)

		p = r2.Add(p, step)
		if m.Charges.Near(p) {
			c.Stop = StopCharge
			c.Steps++
			break
		}
		if c.Steps > minLoopSteps && math.Abs(p.X-seed.X) < 1 && math.Abs(p.Y-seed.Y) < 1 {
			c.Stop = StopClosed
			c.Steps++
			break
		}
		if c.Steps > maxSteps {
			c.Stop = StopCap
			c.Steps++
			break
		}
		c.Steps++
	}

	c.Segments = em.segs
	return c
}

// correct nudges step along the unit field direction u in fixed increments
// until the potential at p+step crosses target. The potential grows along u.
func correct(m field.Model, p, step, u r2.Vec, target float64, b Bounds) r2.Vec {
	cand := r2.Add(p, step)
	v := m.Potential(cand)

	below := v < target
	nudge := r2.Scale(correctorStep*Precision, u)
	if !below {
		nudge = r2.Scale(-1, nudge)
	}

	for n := 0; n < maxNudges; n++ {
		if below && v >= target || !below && v <= target {
			break
		}
		if !b.inside(cand) || m.Charges.Near(cand) {
			break
		}
		step = r2.Add(step, nudge)
		cand = r2.Add(p, step)
		v = m.Potential(cand)
	}
	return step
}
