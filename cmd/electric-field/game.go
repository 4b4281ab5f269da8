package main

import (
	"image"
	"log"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"gonum.org/v1/gonum/spatial/r2"

	"electric-field/internal/field"
	"electric-field/internal/scene"
)

const (
	minWidth  = 800
	minHeight = 400

	buttonWidth  = 110
	buttonHeight = 36

	heatStep = 4   // heat-map cell size in pixels
	bgScale  = 0.03 // field magnitude -> heat-map darkness
)

type button struct {
	label  string
	rect   image.Rectangle
	active func(*Game) bool
	press  func(*Game)
}

type Game struct {
	s *scene.Session

	buttons []button
	onMenu  bool

	tooltip       string
	width, height int

	heatmap  bool
	bgImage  *ebiten.Image
	bgKey    []field.Charge
	bgPoint  bool
	bgW, bgH int

	white *ebiten.Image
}

func NewGame(cfg config) *Game {
	s := scene.NewSession(cfg.width, cfg.height)
	s.PointCharge = cfg.pointCharge
	s.Grid = cfg.grid
	s.ShowCoordinates = cfg.coords

	g := &Game{
		s:       s,
		heatmap: cfg.heatmap,
		width:   cfg.width,
		height:  cfg.height,
	}
	g.buttons = g.newButtons()
	return g
}

func modeButton(label string, m scene.Mode) button {
	return button{
		label:  label,
		active: func(g *Game) bool { return g.s.Mode == m },
		press:  func(g *Game) { g.setMode(m) },
	}
}

func (g *Game) newButtons() []button {
	bs := []button{
		{label: "Undo", press: func(g *Game) { g.s.Undo() }},
		modeButton("Vector", scene.ModeVector),
		modeButton("Field line", scene.ModeFieldLine),
		modeButton("Equipotential", scene.ModeEquipotential),
		modeButton("Gauss", scene.ModeGauss),
		{
			label:  "Point charge",
			active: func(g *Game) bool { return g.s.PointCharge },
			press:  func(g *Game) { g.s.PointCharge = !g.s.PointCharge },
		},
		{
			label:  "Grid",
			active: func(g *Game) bool { return g.s.Grid },
			press:  func(g *Game) { g.s.Grid = !g.s.Grid },
		},
		{
			label:  "Coordinates",
			active: func(g *Game) bool { return g.s.ShowCoordinates },
			press:  func(g *Game) { g.s.ShowCoordinates = !g.s.ShowCoordinates },
		},
	}
	g.layoutButtons(bs)
	return bs
}

func (g *Game) layoutButtons(bs []button) {
	x := (g.width - buttonWidth*len(bs)) / 2
	y := (scene.TopMenuHeight - buttonHeight) / 2
	for i := range bs {
		bs[i].rect = image.Rect(x, y, x+buttonWidth-4, y+buttonHeight)
		x += buttonWidth
	}
}

func (g *Game) buttonAt(p image.Point) *button {
	for i := range g.buttons {
		if p.In(g.buttons[i].rect) {
			return &g.buttons[i]
		}
	}
	return nil
}

func (g *Game) setMode(m scene.Mode) {
	if err := g.s.SetMode(m); err != nil {
		log.Print(err)
	}
}

func (g *Game) handleKeys() {
	keys := []struct {
		key ebiten.Key
		fn  func()
	}{
		{ebiten.Key1, func() { g.setMode(scene.ModeVector) }},
		{ebiten.Key2, func() { g.setMode(scene.ModeFieldLine) }},
		{ebiten.Key3, func() { g.setMode(scene.ModeEquipotential) }},
		{ebiten.Key4, func() { g.setMode(scene.ModeGauss) }},
		{ebiten.KeyU, g.s.Undo},
		{ebiten.KeyP, func() { g.s.PointCharge = !g.s.PointCharge }},
		{ebiten.KeyG, func() { g.s.Grid = !g.s.Grid }},
		{ebiten.KeyC, func() { g.s.ShowCoordinates = !g.s.ShowCoordinates }},
		{ebiten.KeyH, func() { g.heatmap = !g.heatmap }},
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.key) {
			k.fn()
		}
	}
}

func (g *Game) Update() error {
	if w, h := g.s.Size(); w != g.width || h != g.height {
		g.s.Resize(g.width, g.height)
		g.layoutButtons(g.buttons)
	}
	g.handleKeys()

	x, y := ebiten.CursorPosition()
	cursor := image.Pt(x, y)
	p := r2.Vec{X: float64(x), Y: float64(y)}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if b := g.buttonAt(cursor); b != nil {
			b.press(g)
			g.onMenu = true
			break
		}
		g.s.Press(p)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		if !g.onMenu {
			g.s.Drag(p)
		}
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		if g.onMenu {
			g.onMenu = false
			break
		}
		closed, err := g.s.Release(p)
		if err != nil {
			log.Printf("release: %v", err)
		}
		if closed != nil {
			logGauss(closed, g.s.PointCharge)
		}
	}

	tip, overCharge := g.s.Hover(p)
	g.tooltip = tip
	if overCharge || g.buttonAt(cursor) != nil {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}

	if g.heatmap {
		g.refreshHeatmap()
	}
	return nil
}

func logGauss(gs *scene.Gauss, pointCharge bool) {
	p := &gs.Polygon
	log.Printf("gauss: %d vertices, flux=%.1f turns=%.3f %s",
		p.Len(), p.Flux(), p.Angle()/(-2*math.Pi), gs.Label(pointCharge))
}

// refreshHeatmap recomputes the background when the charges, the force law or
// the canvas size changed since the last pass.
func (g *Game) refreshHeatmap() {
	charges := slices.Collect(g.s.Charges.Active().All())
	if g.bgImage != nil && g.bgPoint == g.s.PointCharge &&
		g.bgW == g.width && g.bgH == g.height && slices.Equal(charges, g.bgKey) {
		return
	}

	m := g.s.Model()
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	for py := 0; py < g.height; py += heatStep {
		for px := 0; px < g.width; px += heatStep {
			c := heatColor(m.Field(r2.Vec{X: float64(px), Y: float64(py)}).Magnitude())
			for dy := 0; dy < heatStep && py+dy < g.height; dy++ {
				for dx := 0; dx < heatStep && px+dx < g.width; dx++ {
					img.SetRGBA(px+dx, py+dy, c)
				}
			}
		}
	}

	if g.bgImage != nil {
		g.bgImage.Deallocate()
	}
	g.bgImage = ebiten.NewImageFromImage(img)
	g.bgKey = charges
	g.bgPoint = g.s.PointCharge
	g.bgW, g.bgH = g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, minWidth), max(outsideHeight, minHeight)
	g.width, g.height = w, h
	return w, h
}
