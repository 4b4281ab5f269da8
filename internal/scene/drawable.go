package scene

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"electric-field/internal/field"
	"electric-field/internal/gauss"
	"electric-field/internal/trace"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrUnsupported is returned by Endpoints for drawables without a direction.
var ErrUnsupported = errors.New("scene: unsupported for this drawable")

type Kind int

const (
	KindVector Kind = iota
	KindFieldLine
	KindEquipotential
	KindGauss
)

func (k Kind) String() string {
	switch k {
	case KindVector:
		return "FieldVector"
	case KindFieldLine:
		return "FieldLine"
	case KindEquipotential:
		return "Equipotential"
	case KindGauss:
		return "Gauss"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Drawable is anything placed on the canvas besides charges. The set of
// implementations is closed: Vector, FieldLine, Equipotential and Gauss.
type Drawable interface {
	Kind() Kind
	// Endpoints reports tail and head in y-up coordinates for a canvas of the
	// given height.
	Endpoints(canvasHeight float64) (Endpoints, error)

	render(f *Frame, m field.Model, b trace.Bounds)
}

// Endpoints are rounded canvas coordinates with y growing upward.
type Endpoints struct {
	Tail, Head image.Point
}

func unsupported(k Kind) (Endpoints, error) {
	return Endpoints{}, fmt.Errorf("%v endpoints: %w", k, ErrUnsupported)
}

// Vector is a field arrow anchored at a point.
type Vector struct {
	At     r2.Vec
	sample field.Sample
}

func (v *Vector) Kind() Kind { return KindVector }

func (v *Vector) Endpoints(h float64) (Endpoints, error) {
	e := v.sample.E
	return Endpoints{
		Tail: image.Point{X: int(v.At.X + .5), Y: int(h - v.At.Y + .5)},
		Head: image.Point{X: int(v.At.X + e.X + .5), Y: int(h - v.At.Y - e.Y + .5)},
	}, nil
}

// Sample is the field at the anchor as of the last render.
func (v *Vector) Sample() field.Sample { return v.sample }

func (v *Vector) render(f *Frame, m field.Model, _ trace.Bounds) {
	v.sample = m.Field(v.At)
	f.Arrows = append(f.Arrows, arrowFor(v.sample))
}

// FieldLine is a field line through Seed, retraced on every render.
type FieldLine struct {
	Seed r2.Vec
	last trace.Trace
}

func (l *FieldLine) Kind() Kind                            { return KindFieldLine }
func (l *FieldLine) Endpoints(float64) (Endpoints, error) { return unsupported(KindFieldLine) }
func (l *FieldLine) Trace() trace.Trace                    { return l.last }

func (l *FieldLine) render(f *Frame, m field.Model, b trace.Bounds) {
	l.last = trace.FieldLine(m, l.Seed, b)
	f.addTrace(l.last)
}

// Equipotential is the contour through Seed, retraced on every render.
type Equipotential struct {
	Seed r2.Vec
	last trace.Trace
}

func (e *Equipotential) Kind() Kind                            { return KindEquipotential }
func (e *Equipotential) Endpoints(float64) (Endpoints, error) { return unsupported(KindEquipotential) }
func (e *Equipotential) Trace() trace.Trace                    { return e.last }

func (e *Equipotential) render(f *Frame, m field.Model, b trace.Bounds) {
	e.last = trace.Equipotential(m, e.Seed, b)
	f.addTrace(e.last)
}

// Gauss wraps a Gauss polygon. Polygons are hidden in point-charge mode.
type Gauss struct {
	Polygon gauss.Polygon
}

var gaussLabelOffset = r2.Vec{X: 10, Y: -10}

func (g *Gauss) Kind() Kind                            { return KindGauss }
func (g *Gauss) Endpoints(float64) (Endpoints, error) { return unsupported(KindGauss) }

// Label is the "Q = n" readout of a finished polygon.
func (g *Gauss) Label(pointCharge bool) string {
	q, err := g.Polygon.EnclosedCharge(pointCharge)
	if err != nil {
		return "Q = ?"
	}
	return "Q = " + strconv.Itoa(q)
}

func (g *Gauss) render(f *Frame, m field.Model, _ trace.Bounds) {
	if m.PointCharge {
		return
	}
	p := &g.Polygon
	if p.Finished() {
		p.Update(m)
	}

	f.Outlines = append(f.Outlines, p.Vertices())
	f.Bands = append(f.Bands, p.Bands()...)
	if p.Finished() {
		f.Labels = append(f.Labels, Label{
			At:   r2.Add(p.Vertices()[0], gaussLabelOffset),
			Text: g.Label(false),
		})
	} else if s, ok := p.Probe(); ok {
		f.Arrows = append(f.Arrows, arrowFor(s))
	}
}

// Arrow is a field vector drawn from Tail to Head with two barbs.
type Arrow struct {
	Tail, Head r2.Vec
	Barbs      [2]r2.Vec
	HasBarbs   bool
}

func arrowFor(s field.Sample) Arrow {
	e := s.E
	a := Arrow{Tail: s.Pos, Head: r2.Add(s.Pos, e)}
	mag := s.Magnitude()
	if mag > 0 && !math.IsInf(mag, 0) {
		k := math.Sqrt(mag)
		a.Barbs[0] = r2.Add(a.Head, r2.Vec{X: (-e.X - e.Y) / k, Y: (e.X - e.Y) / k})
		a.Barbs[1] = r2.Add(a.Head, r2.Vec{X: (-e.X + e.Y) / k, Y: (-e.X - e.Y) / k})
		a.HasBarbs = true
	}
	return a
}
