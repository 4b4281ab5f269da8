package main

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"

	"electric-field/internal/field"
	"electric-field/internal/scene"
)

var (
	background  = color.RGBA{245, 245, 250, 255}
	topMenu     = color.RGBA{204, 210, 227, 255}
	bottomMenu  = color.RGBA{230, 230, 235, 255}
	buttonIdle  = color.RGBA{225, 228, 240, 255}
	buttonOn    = color.RGBA{120, 150, 230, 255}
	tooltipFill = color.RGBA{255, 255, 225, 235}
	bandFill    = color.RGBA{128, 128, 128, 160}

	positiveFill  = color.RGBA{92, 145, 255, 255}
	positiveRings = [3]color.RGBA{{72, 125, 235, 255}, {52, 105, 215, 255}, {32, 85, 195, 255}}
	negativeFill  = color.RGBA{255, 140, 140, 255}
	negativeRings = [3]color.RGBA{{235, 120, 120, 255}, {215, 100, 100, 255}, {195, 80, 80, 255}}
)

func (g *Game) Draw(screen *ebiten.Image) {
	if g.heatmap && g.bgImage != nil {
		screen.DrawImage(g.bgImage, nil)
	} else {
		screen.Fill(background)
	}

	for _, p := range g.s.GridPoints() {
		vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), 1, 1, color.Black, false)
	}
	g.drawTrash(screen)

	f := g.s.Frame()
	for _, b := range f.Bands {
		g.fillQuad(screen, b, bandFill)
	}
	for _, o := range f.Outlines {
		for i := 0; i+1 < len(o); i++ {
			line(screen, o[i], o[i+1], 1, color.Black)
		}
	}
	for _, s := range f.Segments {
		line(screen, s.From, s.To, 1, s.Color)
	}
	for _, a := range f.Arrows {
		drawArrow(screen, a)
	}
	for _, l := range f.Labels {
		text.Draw(screen, l.Text, basicfont.Face7x13, int(l.At.X), int(l.At.Y), color.Black)
	}

	held, holding := g.s.Held()
	for h, c := range g.s.Charges.Active().Handles() {
		if holding && h == held {
			continue
		}
		drawCharge(screen, c)
	}
	g.drawMenus(screen)
	if holding {
		if c, ok := g.s.Charges.Get(held); ok {
			drawCharge(screen, c)
		}
	}

	if g.tooltip != "" {
		x, y := ebiten.CursorPosition()
		drawTooltip(screen, g.tooltip, x+12, y+16)
	}
}

func line(dst *ebiten.Image, a, b r2.Vec, width float32, clr color.Color) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, false)
}

func drawArrow(dst *ebiten.Image, a scene.Arrow) {
	vector.DrawFilledCircle(dst, float32(a.Tail.X), float32(a.Tail.Y), 3, color.Black, false)
	line(dst, a.Tail, a.Head, 1, color.Black)
	if a.HasBarbs {
		line(dst, a.Head, a.Barbs[0], 1, color.Black)
		line(dst, a.Head, a.Barbs[1], 1, color.Black)
	}
}

func drawCharge(dst *ebiten.Image, c field.Charge) {
	fill, rings := positiveFill, positiveRings
	if c.Q < 0 {
		fill, rings = negativeFill, negativeRings
	}
	x, y := float32(c.Pos.X), float32(c.Pos.Y)
	vector.DrawFilledCircle(dst, x, y, 10, fill, true)
	for i, r := range rings {
		vector.StrokeCircle(dst, x, y, float32(8+i), 1.5, r, true)
	}

	label := strconv.Itoa(c.Q)
	dx := 3
	if c.Q < 0 {
		dx = 5
	}
	text.Draw(dst, label, basicfont.Face7x13, int(c.Pos.X)-dx, int(c.Pos.Y)+5, color.Black)
}

func (g *Game) drawMenus(dst *ebiten.Image) {
	w, h := float32(g.width), float32(g.height)
	vector.DrawFilledRect(dst, 0, h-scene.BottomMenuHeight, w, scene.BottomMenuHeight, bottomMenu, false)
	vector.DrawFilledRect(dst, 0, 0, w, scene.TopMenuHeight, topMenu, false)
	vector.StrokeLine(dst, 0, h-scene.BottomMenuHeight, w, h-scene.BottomMenuHeight, 1, color.Black, false)
	vector.StrokeLine(dst, 0, scene.TopMenuHeight, w, scene.TopMenuHeight, 1, color.Black, false)

	for _, b := range g.buttons {
		fill := buttonIdle
		if b.active != nil && b.active(g) {
			fill = buttonOn
		}
		r := b.rect
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fill, false)
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, color.Black, false)
		tw := len(b.label) * basicfont.Face7x13.Advance
		text.Draw(dst, b.label, basicfont.Face7x13, r.Min.X+(r.Dx()-tw)/2, r.Min.Y+r.Dy()/2+4, color.Black)
	}

	for _, c := range g.s.Charges.Palette() {
		drawCharge(dst, c)
	}
}

func (g *Game) drawTrash(dst *ebiten.Image) {
	x := float32(g.width - scene.TrashWidth)
	y := float32(g.height - scene.BottomMenuHeight - scene.TrashHeight)
	body := color.RGBA{150, 150, 160, 255}

	vector.StrokeRect(dst, x+14, y+24, scene.TrashWidth-28, scene.TrashHeight-30, 2, body, false)
	for i := float32(0); i < 3; i++ {
		lx := x + 26 + i*10
		vector.StrokeLine(dst, lx, y+32, lx, y+scene.TrashHeight-14, 1, body, false)
	}
	if g.s.Trash() == scene.TrashCan {
		// lid tipped open
		vector.StrokeLine(dst, x+12, y+22, x+40, y+2, 3, body, false)
		return
	}
	vector.StrokeLine(dst, x+10, y+20, x+scene.TrashWidth-10, y+20, 3, body, false)
}

func drawTooltip(dst *ebiten.Image, tip string, x, y int) {
	b := text.BoundString(basicfont.Face7x13, tip)
	vector.DrawFilledRect(dst, float32(x+b.Min.X-3), float32(y+b.Min.Y-3), float32(b.Dx()+6), float32(b.Dy()+6), tooltipFill, false)
	text.Draw(dst, tip, basicfont.Face7x13, x, y, color.Black)
}

// fillQuad fills a convex quadrilateral with a flat color.
func (g *Game) fillQuad(dst *ebiten.Image, q [4]r2.Vec, clr color.RGBA) {
	if g.white == nil {
		g.white = ebiten.NewImage(3, 3)
		g.white.Fill(color.White)
	}
	src := g.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	r, gr, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	vs := make([]ebiten.Vertex, 4)
	for i, p := range q {
		vs[i] = ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r * a, ColorG: gr * a, ColorB: b * a, ColorA: a,
		}
	}
	dst.DrawTriangles(vs, []uint16{0, 1, 2, 0, 2, 3}, src, nil)
}

// heatColor darkens the background in proportion to the field strength.
func heatColor(mag float64) color.RGBA {
	val := mag * bgScale
	if val > 1 || math.IsNaN(val) {
		val = 1
	}
	shade := 1 - val
	return color.RGBA{
		R: uint8(float64(background.R) * shade),
		G: uint8(float64(background.G) * shade),
		B: uint8(float64(background.B) * shade),
		A: 255,
	}
}
