package field

import (
	"iter"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	PaletteSize    = 18
	paletteSpacing = 40
	paletteInset   = 50 // distance of the palette row from the bottom edge

	// PickRadius2 is the squared hit radius of a drawn charge.
	PickRadius2 = 100.0
)

// Handle identifies an active charge for the lifetime of a ChargeSet.
type Handle int

// Charge is a signed integer charge at a screen position (y grows downward).
type Charge struct {
	Q   int
	Pos r2.Vec
}

// ChargeSet holds the fixed palette and the user-placed active charges.
// Only active charges source the field.
type ChargeSet struct {
	palette []Charge

	active []Handle
	byID   map[Handle]*Charge
	next   Handle
}

func NewChargeSet(width, height int) *ChargeSet {
	s := &ChargeSet{
		palette: make([]Charge, PaletteSize),
		byID:    make(map[Handle]*Charge),
	}
	for i := range s.palette {
		q := i - 9
		if q >= 0 {
			q = i - 8
		}
		s.palette[i].Q = q
	}
	s.Layout(width, height)
	return s
}

// Layout positions the palette row along the bottom edge of a width x height canvas.
func (s *ChargeSet) Layout(width, height int) {
	offset := (width - paletteSpacing*PaletteSize) / 2
	for i := range s.palette {
		s.palette[i].Pos = r2.Vec{
			X: float64(paletteSpacing*i + offset),
			Y: float64(height - paletteInset),
		}
	}
}

func (s *ChargeSet) Palette() []Charge {
	return s.palette
}

func (s *ChargeSet) AddActive(q int, pos r2.Vec) Handle {
	h := s.next
	s.next++
	s.byID[h] = &Charge{Q: q, Pos: pos}
	s.active = append(s.active, h)
	return h
}

// Move reports whether h named an active charge.
func (s *ChargeSet) Move(h Handle, pos r2.Vec) bool {
	c, ok := s.byID[h]
	if !ok {
		return false
	}
	c.Pos = pos
	return true
}

// Remove deletes an active charge. Unknown handles are ignored.
func (s *ChargeSet) Remove(h Handle) bool {
	if _, ok := s.byID[h]; !ok {
		return false
	}
	delete(s.byID, h)
	for i, a := range s.active {
		if a == h {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	return true
}

func (s *ChargeSet) Get(h Handle) (Charge, bool) {
	c, ok := s.byID[h]
	if !ok {
		return Charge{}, false
	}
	return *c, true
}

// PickPalette returns the palette charge under p, if any.
func (s *ChargeSet) PickPalette(p r2.Vec) (Charge, bool) {
	for _, c := range s.palette {
		if r2.Norm2(r2.Sub(c.Pos, p)) < PickRadius2 {
			return c, true
		}
	}
	return Charge{}, false
}

// PickActive returns the earliest placed active charge under p, if any.
func (s *ChargeSet) PickActive(p r2.Vec) (Handle, bool) {
	for _, h := range s.active {
		if r2.Norm2(r2.Sub(s.byID[h].Pos, p)) < PickRadius2 {
			return h, true
		}
	}
	return 0, false
}

// Active returns a live view of the active charges.
func (s *ChargeSet) Active() View {
	return View{set: s}
}

// View is a read-only window onto the active charges of a ChargeSet. It is not a
// snapshot: iterating it always yields the current positions.
type View struct {
	set *ChargeSet
}

func (v View) Len() int {
	if v.set == nil {
		return 0
	}
	return len(v.set.active)
}

// All yields active charges in placement order.
func (v View) All() iter.Seq[Charge] {
	return func(yield func(Charge) bool) {
		if v.set == nil {
			return
		}
		for _, h := range v.set.active {
			if !yield(*v.set.byID[h]) {
				return
			}
		}
	}
}

// Handles yields handle/charge pairs in placement order.
func (v View) Handles() iter.Seq2[Handle, Charge] {
	return func(yield func(Handle, Charge) bool) {
		if v.set == nil {
			return
		}
		for _, h := range v.set.active {
			if !yield(h, *v.set.byID[h]) {
				return
			}
		}
	}
}

// Near reports whether p lies inside the hit radius of any active charge.
func (v View) Near(p r2.Vec) bool {
	for c := range v.All() {
		if r2.Norm2(r2.Sub(c.Pos, p)) < PickRadius2 {
			return true
		}
	}
	return false
}
