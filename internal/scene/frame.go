package scene

import (
	"fmt"
	"image"

	"electric-field/internal/trace"

	"gonum.org/v1/gonum/spatial/r2"
)

// Label is text anchored at a screen position.
type Label struct {
	At   r2.Vec
	Text string
}

// Frame is everything a renderer needs to draw one pass of the session, in
// screen coordinates with y growing downward.
type Frame struct {
	Segments []trace.Segment
	Arrows   []Arrow
	Outlines [][]r2.Vec
	Bands    [][4]r2.Vec
	Labels   []Label
}

func (f *Frame) addTrace(t trace.Trace) {
	for seg := range t.Segments() {
		f.Segments = append(f.Segments, seg)
	}
	if t.Label != "" {
		f.Labels = append(f.Labels, Label{At: t.LabelAt, Text: t.Label})
	}
}

// Frame recomputes every drawable against the current charges.
func (s *Session) Frame() Frame {
	var f Frame
	m, b := s.Model(), s.Bounds()
	for _, d := range s.objects {
		d.render(&f, m, b)
	}
	return f
}

// Hover returns the tooltip for the pointer at p and whether p is over a
// charge. Tooltips are empty unless ShowCoordinates is set.
func (s *Session) Hover(p r2.Vec) (tip string, overCharge bool) {
	if c, ok := s.Charges.PickPalette(p); ok {
		return s.chargeTip(c.Pos), true
	}
	if h, ok := s.Charges.PickActive(p); ok {
		c, _ := s.Charges.Get(h)
		return s.chargeTip(c.Pos), true
	}
	if !s.ShowCoordinates {
		return "", false
	}

	for _, d := range s.objects {
		v, ok := d.(*Vector)
		if !ok || r2.Norm2(r2.Sub(v.At, p)) >= vectorHit2 {
			continue
		}
		e, err := v.Endpoints(float64(s.height))
		if err != nil {
			continue
		}
		return fmt.Sprintf("B:%s\nT:%s", point(e.Tail), point(e.Head)), false
	}
	return "", false
}

func (s *Session) chargeTip(pos r2.Vec) string {
	if !s.ShowCoordinates {
		return ""
	}
	return point(image.Point{X: int(pos.X), Y: s.height - int(pos.Y)})
}

func point(p image.Point) string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
