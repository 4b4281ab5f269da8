// Package gauss integrates the flux of the field through a user-drawn closed
// path and turns it into an estimate of the enclosed line charge.
package gauss

import (
	"errors"
	"math"

	"electric-field/internal/field"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	fluxStep = 0.1

	// Calibration converts total flux into units of charge. It is tuned to the
	// fluxStep discretization, not derived.
	Calibration = 6323.0
	rounding    = 0.5
)

var (
	ErrFinished       = errors.New("gauss: polygon is finished")
	ErrOpen           = errors.New("gauss: polygon is still open")
	ErrTooFewVertices = errors.New("gauss: need at least two vertices")
	ErrPointCharge    = errors.New("gauss: charge estimate needs line charges")
	ErrNoWinding      = errors.New("gauss: polygon has no net winding")
)

// Polygon is an open path that becomes a closed Gauss surface once WrapUp is
// called. Fluxes are kept per edge; fluxes[i] belongs to the edge ending at
// vertex i, and fluxes[0] is always zero.
type Polygon struct {
	vertices []r2.Vec
	fluxes   []float64
	angle    float64
	flux     float64
	finished bool

	probe    field.Sample
	hasProbe bool
}

// Add appends a vertex and accumulates the flux through the new edge.
func (g *Polygon) Add(m field.Model, p r2.Vec) error {
	if g.finished {
		return ErrFinished
	}
	g.vertices = append(g.vertices, p)
	n := len(g.vertices)

	var f float64
	if n > 1 {
		f = g.edgeFlux(m, g.vertices[n-2], p)
	}
	g.flux += f
	g.fluxes = append(g.fluxes, f)
	g.angle += turn(g.vertices, n-1)
	return nil
}

// WrapUp closes the path by repeating the first two vertices, accumulating the
// closing edge and the turns at the joined corners.
func (g *Polygon) WrapUp(m field.Model) error {
	if g.finished {
		return ErrFinished
	}
	if len(g.vertices) < 2 {
		return ErrTooFewVertices
	}

	g.vertices = append(g.vertices, g.vertices[0])
	g.angle += turn(g.vertices, len(g.vertices)-1)
	g.vertices = append(g.vertices, g.vertices[1])
	g.angle += turn(g.vertices, len(g.vertices)-1)

	n := len(g.vertices)
	f := g.edgeFlux(m, g.vertices[n-3], g.vertices[n-2])
	g.flux += f
	g.fluxes = append(g.fluxes, f)
	g.finished = true
	return nil
}

// Update recomputes every flux and the winding from the current vertices. It
// must run whenever the charges may have moved.
func (g *Polygon) Update(m field.Model) {
	n := len(g.vertices)
	last := n - 1
	if g.finished {
		// The repeated second vertex closes the winding but its edge is
		// already counted as the first edge.
		last = n - 2
	}

	g.fluxes = g.fluxes[:0]
	g.flux = 0
	g.angle = 0
	for i := 0; i <= last; i++ {
		var f float64
		if i > 0 {
			f = g.edgeFlux(m, g.vertices[i-1], g.vertices[i])
		}
		g.flux += f
		g.fluxes = append(g.fluxes, f)
	}
	for i := range g.vertices {
		g.angle += turn(g.vertices, i)
	}
}

// edgeFlux walks the edge from b back toward a and sums |E| sin(θE - θN) ds.
// Angles are taken with y pointing up. Samples that land on a charge have no
// field and are skipped.
func (g *Polygon) edgeFlux(m field.Model, a, b r2.Vec) float64 {
	d := r2.Sub(a, b)
	length := r2.Norm(d)
	normal := math.Atan2(d.Y, -d.X)

	var sum float64
	for i := 0.0; i < length; i += fluxStep {
		s := m.Field(r2.Add(b, r2.Scale(i/length, d)))
		mag := s.Magnitude()
		if math.IsNaN(mag) || math.IsInf(mag, 0) {
			continue
		}
		sum += mag * fluxStep * math.Sin(math.Atan2(-s.E.Y, s.E.X)-normal)
		g.probe, g.hasProbe = s, true
	}
	return sum
}

// turn is the signed change of heading at vertex i-1, folded into (-π, π].
// It is zero for the first three vertices.
func turn(v []r2.Vec, i int) float64 {
	if i <= 2 {
		return 0
	}
	in := r2.Sub(v[i-1], v[i-2])
	out := r2.Sub(v[i], v[i-1])
	a := math.Atan2(in.Y, in.X) - math.Atan2(out.Y, out.X)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Charge estimates the enclosed charge from the total flux, using the winding
// to resolve orientation. Only line charges have a meaningful estimate.
func (g *Polygon) Charge(pointCharge bool) (float64, error) {
	switch {
	case pointCharge:
		return 0, ErrPointCharge
	case !g.finished:
		return 0, ErrOpen
	case g.angle == 0:
		return 0, ErrNoWinding
	}

	correction := rounding
	if g.flux*g.angle > 0 {
		correction = -rounding
	}
	return g.flux/Calibration*-g.angle/math.Abs(g.angle) + correction, nil
}

// EnclosedCharge is Charge truncated toward zero.
func (g *Polygon) EnclosedCharge(pointCharge bool) (int, error) {
	q, err := g.Charge(pointCharge)
	if err != nil {
		return 0, err
	}
	return int(q), nil
}

func (g *Polygon) Finished() bool { return g.finished }
func (g *Polygon) Flux() float64   { return g.flux }
func (g *Polygon) Angle() float64  { return g.angle }
func (g *Polygon) Len() int        { return len(g.vertices) }

// Vertices includes the two repeated vertices of a finished polygon.
func (g *Polygon) Vertices() []r2.Vec { return g.vertices }
func (g *Polygon) Fluxes() []float64  { return g.fluxes }

// Probe is the last field sample taken while integrating.
func (g *Polygon) Probe() (field.Sample, bool) {
	return g.probe, g.hasProbe
}

// Bands returns, per edge, a quadrilateral extruded from the edge by the
// edge's flux over its squared length, for shading.
func (g *Polygon) Bands() [][4]r2.Vec {
	var out [][4]r2.Vec
	for i := 0; i < len(g.vertices)-1 && i < len(g.fluxes)-1; i++ {
		a, b := g.vertices[i], g.vertices[i+1]
		d := r2.Sub(a, b)
		size := r2.Norm(d)
		if size == 0 {
			continue
		}
		f := g.fluxes[i+1]
		off := r2.Vec{
			X: math.Trunc(-d.Y / size * f / size),
			Y: math.Trunc(d.X / size * f / size),
		}
		out = append(out, [4]r2.Vec{a, b, r2.Add(b, off), r2.Add(a, off)})
	}
	return out
}
