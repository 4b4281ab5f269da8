// Package scene is the interaction layer between a UI and the field core. A
// Session owns the charges and every placed drawable, turns pointer events
// into edits, and produces a Frame of screen-space geometry on each redraw.
//
// A Session is not safe for concurrent use; the UI must call it from a single
// goroutine.
package scene

import (
	"errors"
	"fmt"

	"electric-field/internal/field"
	"electric-field/internal/gauss"
	"electric-field/internal/trace"

	"gonum.org/v1/gonum/spatial/r2"
)

// Layout of the canvas chrome.
const (
	TopMenuHeight    = 75
	BottomMenuHeight = 100
	GridSpace        = 30

	TrashWidth  = 72
	TrashHeight = 96

	minVertexDist2 = 25.0
	vectorHit2     = 25.0
)

type Mode int

const (
	ModeVector Mode = iota
	ModeFieldLine
	ModeEquipotential
	ModeGauss
)

func (m Mode) String() string {
	switch m {
	case ModeVector:
		return "vector"
	case ModeFieldLine:
		return "field line"
	case ModeEquipotential:
		return "equipotential"
	case ModeGauss:
		return "gauss"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ErrModeUnavailable is returned when switching to Gauss mode while point
// charges are on.
var ErrModeUnavailable = errors.New("scene: gauss mode needs line charges")

// placers maps each interaction mode to what a press on empty canvas creates.
var placers = map[Mode]func(*Session, r2.Vec){
	ModeVector:        (*Session).placeVector,
	ModeFieldLine:     (*Session).placeFieldLine,
	ModeEquipotential: (*Session).placeEquipotential,
	ModeGauss:         (*Session).beginGauss,
}

// Trash tells whether a dragged charge would be deleted on release.
type Trash int

const (
	TrashNone Trash = iota
	TrashCan        // over the trash can
	TrashMenu       // over a menu band
)

type Session struct {
	Charges *field.ChargeSet

	Mode            Mode
	PointCharge     bool
	ShowCoordinates bool
	Grid            bool

	width, height int
	objects       []Drawable

	open       *Gauss
	lastVertex r2.Vec

	dragging bool
	held     field.Handle
	trash    Trash
}

func NewSession(width, height int) *Session {
	return &Session{
		Charges: field.NewChargeSet(width, height),
		width:   width,
		height:  height,
	}
}

// Resize re-lays the palette for a new canvas size.
func (s *Session) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.Charges.Layout(width, height)
}

// SetMode switches the interaction mode. Gauss surfaces are only defined for
// line charges, so Gauss mode is refused while PointCharge is set.
func (s *Session) SetMode(m Mode) error {
	if m == ModeGauss && s.PointCharge {
		return fmt.Errorf("set mode %v: %w", m, ErrModeUnavailable)
	}
	s.Mode = m
	return nil
}

func (s *Session) Size() (int, int) { return s.width, s.height }

func (s *Session) Model() field.Model {
	return field.Model{Charges: s.Charges.Active(), PointCharge: s.PointCharge}
}

// Bounds is the trace canvas; segments under the bottom menu are not drawn.
func (s *Session) Bounds() trace.Bounds {
	w, h := float64(s.width), float64(s.height)
	return trace.Bounds{
		Width:   w,
		Height:  h,
		Visible: r2.Box{Max: r2.Vec{X: w, Y: h - BottomMenuHeight}},
	}
}

func (s *Session) Objects() []Drawable { return s.objects }

// Held returns the charge being dragged, if any.
func (s *Session) Held() (field.Handle, bool) { return s.held, s.dragging }

func (s *Session) Trash() Trash { return s.trash }

// Press handles a pointer press. Pressing a palette charge spawns an active
// copy and picks it up, pressing an active charge picks it up, and pressing
// empty canvas places a drawable for the current mode.
func (s *Session) Press(p r2.Vec) {
	if c, ok := s.Charges.PickPalette(p); ok {
		s.pickUp(s.Charges.AddActive(c.Q, p))
		return
	}
	if h, ok := s.Charges.PickActive(p); ok {
		s.pickUp(h)
		return
	}
	if place, ok := placers[s.Mode]; ok {
		place(s, p)
	}
}

func (s *Session) pickUp(h field.Handle) {
	s.dragging = true
	s.held = h
	s.trash = TrashNone
}

// Drag handles pointer motion with the button down.
func (s *Session) Drag(p r2.Vec) {
	if s.dragging {
		s.Charges.Move(s.held, s.snap(p))
		s.trash = s.trashAt(p)
		return
	}
	if s.open != nil && r2.Norm2(r2.Sub(p, s.lastVertex)) > minVertexDist2 {
		s.addVertex(p)
	}
}

// Release ends a drag or closes the Gauss polygon being drawn. It returns the
// polygon it closed, if any.
func (s *Session) Release(p r2.Vec) (*Gauss, error) {
	if s.dragging {
		if s.trash != TrashNone {
			s.Charges.Remove(s.held)
		}
		s.dragging = false
		s.trash = TrashNone
		return nil, nil
	}
	if s.open == nil {
		return nil, nil
	}

	g := s.open
	s.open = nil
	err := g.Polygon.WrapUp(s.Model())
	if errors.Is(err, gauss.ErrTooFewVertices) {
		s.drop(g)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("close gauss surface: %w", err)
	}
	return g, nil
}

// Undo removes the most recently placed drawable. Charges are not affected.
func (s *Session) Undo() {
	if len(s.objects) == 0 {
		return
	}
	last := s.objects[len(s.objects)-1]
	s.objects = s.objects[:len(s.objects)-1]
	if last == Drawable(s.open) {
		s.open = nil
	}
}

func (s *Session) drop(d Drawable) {
	for i, o := range s.objects {
		if o == d {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return
		}
	}
}

func (s *Session) placeVector(p r2.Vec) {
	v := &Vector{At: p}
	v.sample = s.Model().Field(p)
	s.objects = append(s.objects, v)
}

func (s *Session) placeFieldLine(p r2.Vec) {
	s.objects = append(s.objects, &FieldLine{Seed: p})
}

func (s *Session) placeEquipotential(p r2.Vec) {
	s.objects = append(s.objects, &Equipotential{Seed: p})
}

func (s *Session) beginGauss(p r2.Vec) {
	if s.PointCharge {
		return
	}
	g := &Gauss{}
	s.objects = append(s.objects, g)
	s.open = g
	s.addVertex(p)
}

func (s *Session) addVertex(p r2.Vec) {
	// Open polygons never reject vertices.
	_ = s.open.Polygon.Add(s.Model(), p)
	s.lastVertex = p
}

func (s *Session) snap(p r2.Vec) r2.Vec {
	if !s.Grid {
		return p
	}
	x, y := int(p.X), int(p.Y)
	return r2.Vec{
		X: float64((x+GridSpace/2)/GridSpace*GridSpace + 1),
		Y: float64(y/GridSpace*GridSpace + GridSpace/2),
	}
}

func (s *Session) trashAt(p r2.Vec) Trash {
	w, h := float64(s.width), float64(s.height)
	switch {
	case p.X > w-TrashWidth && p.Y > h-BottomMenuHeight-TrashHeight && p.Y < h-BottomMenuHeight:
		return TrashCan
	case p.Y > h-BottomMenuHeight || p.Y < TopMenuHeight:
		return TrashMenu
	}
	return TrashNone
}

// GridPoints returns the dot grid between the menus, if the grid is on.
func (s *Session) GridPoints() []r2.Vec {
	if !s.Grid {
		return nil
	}
	var pts []r2.Vec
	for x := 1; x <= s.width; x += GridSpace {
		for y := TopMenuHeight; y <= s.height-BottomMenuHeight; y += GridSpace {
			pts = append(pts, r2.Vec{X: float64(x), Y: float64(y)})
		}
	}
	return pts
}
