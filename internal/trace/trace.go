// Package trace grows field lines and equipotential contours from a seed point
// through a field.Model, producing colored polylines in screen coordinates.
package trace

import (
	"image/color"
	"iter"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	Precision  = 1.0  // arclength of one integration step
	ColorConst = 2.75 // field magnitude -> gradient position

	margin = 400.0 // how far past the canvas a trace may wander

	gradientLow  = 200 / 1.5
	gradientHigh = 200.0
)

// Stop tells why a pass ended.
type Stop int

const (
	StopBoundary Stop = iota // left the canvas plus margin
	StopCharge               // absorbed by an active charge
	StopClosed               // returned to the seed
	StopCap                  // ran out of steps
	StopStalled              // field vanished or became non-finite
)

func (s Stop) String() string {
	switch s {
	case StopBoundary:
		return "boundary"
	case StopCharge:
		return "charge"
	case StopClosed:
		return "closed"
	case StopCap:
		return "cap"
	case StopStalled:
		return "stalled"
	}
	return "unknown"
}

// Bounds is the canvas a trace runs on. Visible limits where segments are
// emitted; an empty Visible means the whole canvas.
type Bounds struct {
	Width, Height float64
	Visible       r2.Box
}

func (b Bounds) inside(p r2.Vec) bool {
	return p.X > -margin && p.X < b.Width+margin &&
		p.Y > -margin && p.Y < b.Height+margin
}

func (b Bounds) visible(p r2.Vec) bool {
	v := b.Visible
	if v.Empty() {
		v = r2.Box{Max: r2.Vec{X: b.Width, Y: b.Height}}
	}
	return p.X > v.Min.X && p.X < v.Max.X && p.Y > v.Min.Y && p.Y < v.Max.Y
}

// Segment is one drawn piece of a polyline.
type Segment struct {
	From, To r2.Vec
	Color    color.RGBA
}

// Curve is one pass of a trace, from the seed outward.
type Curve struct {
	Segments []Segment
	Stop     Stop
	Steps    int
}

// Trace is the output of a tracer: two passes from the same seed and an
// optional label.
type Trace struct {
	Passes  [2]Curve
	Label   string
	LabelAt r2.Vec
}

// Segments yields the segments of both passes.
func (t Trace) Segments() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, c := range t.Passes {
			for _, s := range c.Segments {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Gradient maps a field magnitude to a segment color: gray-blue for weak
// fields, through violet, to pure red.
func Gradient(mag float64) color.RGBA {
	c := mag * ColorConst
	switch {
	case c < gradientLow:
		g := uint8(int(200 - c*1.5))
		return color.RGBA{R: g, G: g, B: uint8(int(245 - c/4)), A: 255}
	case c < gradientHigh:
		return color.RGBA{R: uint8(int(c-gradientHigh/2) * 2), B: uint8(int(245 - c/4)), A: 255}
	default:
		return color.RGBA{R: 255, A: 255}
	}
}

// emitter turns integration points into segments, emitting only once the
// position has moved more than one unit from the last emitted point.
type emitter struct {
	b    Bounds
	last r2.Vec
	segs []Segment
}

func newEmitter(seed r2.Vec, b Bounds) *emitter {
	return &emitter{b: b, last: truncate(seed)}
}

func (e *emitter) emit(p r2.Vec, mag float64, draw bool) {
	if math.Abs(e.last.X-p.X) <= 1 && math.Abs(e.last.Y-p.Y) <= 1 {
		return
	}
	to := truncate(p)
	if draw && e.b.visible(p) {
		e.segs = append(e.segs, Segment{From: e.last, To: to, Color: Gradient(mag)})
	}
	e.last = to
}

func truncate(p r2.Vec) r2.Vec {
	return r2.Vec{X: math.Trunc(p.X), Y: math.Trunc(p.Y)}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
