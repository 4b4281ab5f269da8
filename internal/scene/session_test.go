package scene

import (
	"errors"
	"image"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// The palette of a 1000x1000 session sits at y=950, x=140+40i; +1 is at x=500.
var plusOne = r2.Vec{X: 500, Y: 950}

func withCharge(t *testing.T, at r2.Vec) *Session {
	t.Helper()
	s := NewSession(1000, 1000)
	s.Press(plusOne)
	s.Drag(at)
	if _, err := s.Release(at); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if n := s.Charges.Active().Len(); n != 1 {
		t.Fatalf("active charges = %d, want 1", n)
	}
	return s
}

func TestPaletteDragSpawnsCharge(t *testing.T) {
	s := withCharge(t, r2.Vec{X: 500, Y: 500})

	h, ok := s.Charges.PickActive(r2.Vec{X: 500, Y: 500})
	if !ok {
		t.Fatal("charge not at drop point")
	}
	c, _ := s.Charges.Get(h)
	if c.Q != 1 {
		t.Errorf("spawned Q = %d, want 1", c.Q)
	}
	if _, held := s.Held(); held {
		t.Error("charge still held after release")
	}
	if len(s.Objects()) != 0 {
		t.Errorf("pressing a charge placed %d drawables", len(s.Objects()))
	}
}

func TestTrash(t *testing.T) {
	tests := []struct {
		name string
		drop r2.Vec
		want Trash
	}{
		{"trash can", r2.Vec{X: 990, Y: 850}, TrashCan},
		{"bottom menu", r2.Vec{X: 300, Y: 950}, TrashMenu},
		{"top menu", r2.Vec{X: 300, Y: 20}, TrashMenu},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := withCharge(t, r2.Vec{X: 500, Y: 500})
			s.Press(r2.Vec{X: 502, Y: 499})
			s.Drag(tt.drop)
			if got := s.Trash(); got != tt.want {
				t.Fatalf("Trash() = %v, want %v", got, tt.want)
			}
			s.Release(tt.drop)
			if n := s.Charges.Active().Len(); n != 0 {
				t.Errorf("active charges after trashing = %d", n)
			}
			if len(s.Charges.Palette()) != 18 {
				t.Error("trashing touched the palette")
			}
		})
	}
}

func TestGridSnap(t *testing.T) {
	s := NewSession(1000, 1000)
	s.Grid = true
	s.Press(plusOne)
	s.Drag(r2.Vec{X: 100, Y: 200})
	s.Release(r2.Vec{X: 100, Y: 200})

	if _, ok := s.Charges.PickActive(r2.Vec{X: 91, Y: 195}); !ok {
		t.Fatal("charge not snapped to (91, 195)")
	}
	if pts := s.GridPoints(); len(pts) == 0 || pts[0] != (r2.Vec{X: 1, Y: TopMenuHeight}) {
		t.Errorf("grid has %d points, want the first at (1, %d)", len(pts), TopMenuHeight)
	}
}

func TestModeDispatch(t *testing.T) {
	tests := []struct {
		mode Mode
		want Kind
	}{
		{ModeVector, KindVector},
		{ModeFieldLine, KindFieldLine},
		{ModeEquipotential, KindEquipotential},
		{ModeGauss, KindGauss},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := withCharge(t, r2.Vec{X: 500, Y: 500})
			s.Mode = tt.mode
			s.Press(r2.Vec{X: 300, Y: 300})

			objs := s.Objects()
			if len(objs) != 1 || objs[0].Kind() != tt.want {
				t.Fatalf("objects = %v, want one %v", objs, tt.want)
			}
		})
	}
}

func TestUndo(t *testing.T) {
	s := NewSession(1000, 1000)
	s.Undo()

	s.Press(r2.Vec{X: 300, Y: 300})
	s.Mode = ModeFieldLine
	s.Press(r2.Vec{X: 400, Y: 300})
	s.Undo()

	objs := s.Objects()
	if len(objs) != 1 || objs[0].Kind() != KindVector {
		t.Fatalf("after undo objects = %v", objs)
	}
	s.Undo()
	s.Undo()
	if len(s.Objects()) != 0 {
		t.Fatal("undo past empty left objects behind")
	}
}

func TestGaussSurface(t *testing.T) {
	s := withCharge(t, r2.Vec{X: 500, Y: 500})
	s.Mode = ModeGauss

	path := []r2.Vec{
		{X: 450, Y: 450}, {X: 500, Y: 450}, {X: 550, Y: 450}, {X: 550, Y: 500},
		{X: 550, Y: 550}, {X: 500, Y: 550}, {X: 450, Y: 550}, {X: 450, Y: 500},
	}
	s.Press(path[0])
	for _, p := range path[1:] {
		s.Drag(p)
	}
	// Sub-threshold motion adds no vertex.
	s.Drag(r2.Vec{X: 452, Y: 501})

	g, err := s.Release(r2.Vec{X: 452, Y: 501})
	if err != nil || g == nil {
		t.Fatalf("Release = %v, %v", g, err)
	}
	if g.Polygon.Len() != len(path)+2 {
		t.Errorf("vertices = %d, want %d", g.Polygon.Len(), len(path)+2)
	}
	if got := g.Label(false); got != "Q = 1" {
		t.Errorf("label = %q, want Q = 1", got)
	}

	f := s.Frame()
	if len(f.Outlines) != 1 || len(f.Labels) != 1 || f.Labels[0].Text != "Q = 1" {
		t.Errorf("frame = %+v", f.Labels)
	}
	if want := (r2.Vec{X: 460, Y: 440}); f.Labels[0].At != want {
		t.Errorf("label at %v, want %v", f.Labels[0].At, want)
	}

	s.PointCharge = true
	if f := s.Frame(); len(f.Outlines) != 0 || len(f.Labels) != 0 {
		t.Error("gauss surface drawn in point-charge mode")
	}
	if got := g.Label(true); got != "Q = ?" {
		t.Errorf("point-charge label = %q", got)
	}
}

func TestGaussClickWithoutDrag(t *testing.T) {
	s := NewSession(1000, 1000)
	s.Mode = ModeGauss
	s.Press(r2.Vec{X: 300, Y: 300})
	g, err := s.Release(r2.Vec{X: 300, Y: 300})
	if g != nil || err != nil {
		t.Fatalf("Release = %v, %v; want nothing", g, err)
	}
	if len(s.Objects()) != 0 {
		t.Error("single-vertex polygon kept")
	}
}

func TestFrameTracesFollowCharges(t *testing.T) {
	s := withCharge(t, r2.Vec{X: 500, Y: 500})
	s.Mode = ModeEquipotential
	s.Press(r2.Vec{X: 540, Y: 500})
	s.Mode = ModeFieldLine
	s.Press(r2.Vec{X: 560, Y: 520})

	f := s.Frame()
	if len(f.Segments) == 0 {
		t.Fatal("no segments")
	}
	if len(f.Labels) != 1 || f.Labels[0].Text != "-3.68" {
		t.Fatalf("labels = %+v", f.Labels)
	}

	h, _ := s.Charges.PickActive(r2.Vec{X: 500, Y: 500})
	s.Charges.Move(h, r2.Vec{X: 500, Y: 400})
	if f := s.Frame(); f.Labels[0].Text == "-3.68" {
		t.Error("equipotential not recomputed after the charge moved")
	}
}

func TestEndpoints(t *testing.T) {
	s := withCharge(t, r2.Vec{X: 500, Y: 500})
	s.Press(r2.Vec{X: 600, Y: 500})

	v := s.Objects()[0]
	e, err := v.Endpoints(1000)
	if err != nil {
		t.Fatalf("vector Endpoints: %v", err)
	}
	if e.Tail != (image.Point{X: 600, Y: 500}) || e.Head != (image.Point{X: 610, Y: 500}) {
		t.Errorf("endpoints = %+v", e)
	}

	for _, d := range []Drawable{&FieldLine{}, &Equipotential{}, &Gauss{}} {
		if _, err := d.Endpoints(1000); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%v Endpoints error = %v, want ErrUnsupported", d.Kind(), err)
		}
	}
}

func TestHover(t *testing.T) {
	s := withCharge(t, r2.Vec{X: 500, Y: 400})
	s.Press(r2.Vec{X: 600, Y: 400})

	if tip, over := s.Hover(r2.Vec{X: 501, Y: 401}); !over || tip != "" {
		t.Errorf("hover without coordinates = %q, %v", tip, over)
	}

	s.ShowCoordinates = true
	if tip, _ := s.Hover(r2.Vec{X: 501, Y: 401}); tip != "(500, 600)" {
		t.Errorf("charge tip = %q", tip)
	}
	if tip, over := s.Hover(r2.Vec{X: 601, Y: 401}); over || tip != "B:(600, 600)\nT:(610, 600)" {
		t.Errorf("vector tip = %q, %v", tip, over)
	}
	if tip, _ := s.Hover(r2.Vec{X: 700, Y: 700}); tip != "" {
		t.Errorf("empty tip = %q", tip)
	}
}

func TestResize(t *testing.T) {
	s := NewSession(1000, 1000)
	s.Resize(1200, 800)
	if w, h := s.Size(); w != 1200 || h != 800 {
		t.Fatalf("Size = %d, %d", w, h)
	}
	if _, ok := s.Charges.PickPalette(r2.Vec{X: 600, Y: 750}); !ok {
		t.Error("palette not re-laid after resize")
	}
	if b := s.Bounds(); b.Visible.Max.Y != 700 {
		t.Errorf("visible region = %+v", b.Visible)
	}
}

func TestGaussModeNeedsLineCharges(t *testing.T) {
	s := NewSession(1000, 1000)
	s.PointCharge = true

	if err := s.SetMode(ModeGauss); !errors.Is(err, ErrModeUnavailable) {
		t.Fatalf("SetMode(gauss) with point charges = %v, want ErrModeUnavailable", err)
	}
	if s.Mode != ModeVector {
		t.Errorf("mode = %v after refused switch", s.Mode)
	}
	if err := s.SetMode(ModeFieldLine); err != nil {
		t.Errorf("SetMode(field line): %v", err)
	}

	// Point charges switched on while already in Gauss mode: no hidden polygon.
	s.PointCharge = false
	if err := s.SetMode(ModeGauss); err != nil {
		t.Fatalf("SetMode(gauss): %v", err)
	}
	s.PointCharge = true
	s.Press(r2.Vec{X: 300, Y: 300})
	s.Drag(r2.Vec{X: 400, Y: 300})
	if g, err := s.Release(r2.Vec{X: 400, Y: 300}); g != nil || err != nil {
		t.Errorf("Release = %v, %v; want nothing", g, err)
	}
	if len(s.Objects()) != 0 {
		t.Errorf("objects = %v, want none in point-charge mode", s.Objects())
	}
}
