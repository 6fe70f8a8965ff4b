// Package render draws a Simulation with ebiten. It only reads simulation state;
// the simulation never imports it.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Maze-Sense/internal/game"
)

const hudHeight = 16

var (
	hudFace = text.NewGoXFace(basicfont.Face7x13)

	colBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	colWall       = color.RGBA{R: 33, G: 33, B: 222, A: 255}
	colWallEdge   = color.RGBA{R: 90, G: 90, B: 255, A: 255}
	colDoor       = color.RGBA{R: 255, G: 184, B: 222, A: 255}
	colDot        = color.RGBA{R: 255, G: 184, B: 151, A: 255}
	colFruit      = color.RGBA{R: 230, G: 30, B: 30, A: 255}
	colPlayer     = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	colScaredBlue = color.RGBA{R: 33, G: 33, B: 255, A: 255}
	colScaredFlsh = color.RGBA{R: 245, G: 245, B: 255, A: 255}
	colEyes       = color.RGBA{R: 220, G: 220, B: 255, A: 255}

	roleColors = map[game.Role]color.RGBA{
		game.RoleShadow:  {R: 255, G: 0, B: 0, A: 255},
		game.RoleSpeedy:  {R: 255, G: 184, B: 255, A: 255},
		game.RoleBashful: {R: 0, G: 255, B: 255, A: 255},
		game.RolePokey:   {R: 255, G: 184, B: 82, A: 255},
	}
)

// Renderer draws the maze, agents and HUD into an offscreen buffer at native
// tile resolution and blits it scaled, with the event feed to the right.
type Renderer struct {
	sim   *game.Simulation
	Feed  *EventFeed
	scale float64

	mazeW, mazeH int
	buf          *ebiten.Image
}

// NewRenderer creates a renderer for sim drawn at an integer scale.
func NewRenderer(sim *game.Simulation, scale float64) *Renderer {
	ts := sim.TileSize()
	w := int(float64(sim.Maze().Width()) * ts)
	h := int(float64(sim.Maze().Height())*ts) + hudHeight
	return &Renderer{
		sim:   sim,
		Feed:  NewEventFeed(),
		scale: scale,
		mazeW: w,
		mazeH: h,
		buf:   ebiten.NewImage(w, h),
	}
}

// ScreenSize is the logical screen size including the feed panel.
func (r *Renderer) ScreenSize() (int, int) {
	return int(float64(r.mazeW)*r.scale) + feedPanelWidth, int(float64(r.mazeH) * r.scale)
}

// Draw renders the current state. alpha is the clock's interpolation factor
// between the previous and current tick.
func (r *Renderer) Draw(screen *ebiten.Image, alpha float64) {
	r.buf.Fill(colBackground)
	r.drawMaze(r.buf)
	r.drawPickups(r.buf)
	r.drawPlayer(r.buf, alpha)
	r.drawPursuers(r.buf, alpha)
	r.drawHUD(r.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.scale, r.scale)
	screen.DrawImage(r.buf, op)

	_, sh := r.ScreenSize()
	r.Feed.Draw(screen, int(float64(r.mazeW)*r.scale), sh)
}

func (r *Renderer) drawMaze(dst *ebiten.Image) {
	ts := float32(r.sim.TileSize())
	r.sim.Maze().Each(func(x, y int, c game.Cell) {
		px, py := float32(x)*ts, float32(y)*ts+hudHeight
		if c == game.CellWall {
			vector.FillRect(dst, px, py, ts, ts, colWall, false)
			vector.StrokeRect(dst, px+0.5, py+0.5, ts-1, ts-1, 1, colWallEdge, false)
		}
	})

	// The door is drawn over the wall row below the door row, two tiles wide.
	h := r.sim.House()
	dx := float32(h.DoorColumn-0.5) * ts
	dy := float32(h.DoorRow+1)*ts + hudHeight
	vector.FillRect(dst, dx, dy+ts/2-1, 2*ts, 2, colDoor, false)
}

func (r *Renderer) drawPickups(dst *ebiten.Image) {
	for _, pk := range r.sim.Pickups() {
		if !pk.Visible {
			continue
		}
		b := pk.Box
		if pk.Kind == game.PickupPowerPellet {
			c := b.Center()
			vector.FillCircle(dst, float32(c.X), float32(c.Y)+hudHeight, float32(b.MaxX-b.MinX)/2, colDot, true)
			continue
		}
		vector.FillRect(dst, float32(b.MinX), float32(b.MinY)+hudHeight, float32(b.MaxX-b.MinX), float32(b.MaxY-b.MinY), colDot, false)
	}
	if f := r.sim.Fruit(); f.Visible {
		c := f.Box.Center()
		vector.FillCircle(dst, float32(c.X), float32(c.Y)+hudHeight, float32(r.sim.TileSize())*0.7, colFruit, true)
	}
}

func (r *Renderer) drawPlayer(dst *ebiten.Image, alpha float64) {
	p := r.sim.Player
	if !p.Visible {
		return
	}
	ts := r.sim.TileSize()
	pos := interpolate(p.OldPosition, p.Position, alpha, ts)
	vector.FillCircle(dst, float32(pos.X+ts), float32(pos.Y+ts)+hudHeight, float32(ts*0.8), colPlayer, true)
}

func (r *Renderer) drawPursuers(dst *ebiten.Image, alpha float64) {
	ts := r.sim.TileSize()
	for _, g := range r.sim.Pursuers {
		if !g.Visible {
			continue
		}
		pos := interpolate(g.OldPosition, g.Position, alpha, ts)
		cx, cy := float32(pos.X+ts), float32(pos.Y+ts)+hudHeight
		c := pursuerColor(g)
		if g.Mode == game.ModeRetreating {
			vector.FillCircle(dst, cx-2, cy-1, 1.5, c, true)
			vector.FillCircle(dst, cx+2, cy-1, 1.5, c, true)
			continue
		}
		rad := float32(ts * 0.8)
		vector.FillCircle(dst, cx, cy-1, rad, c, true)
		vector.FillRect(dst, cx-rad, cy-1, 2*rad, rad, c, false)
	}
}

func (r *Renderer) drawHUD(dst *ebiten.Image) {
	s := r.sim
	line := fmt.Sprintf("L%d  %06d  x%d  %s", s.Level(), s.Score(), s.Lives(), s.Ambience())
	switch {
	case s.GameOver():
		line += "  GAME OVER"
	case !s.Playing():
		line += "  READY"
	}
	drawText(dst, line, 2, 1, color.White)
}

// pursuerColor picks the body colour: eyes when retreating, the frightened
// palette while scared, otherwise the role colour.
func pursuerColor(g *game.Pursuer) color.RGBA {
	switch {
	case g.Mode == game.ModeRetreating:
		return colEyes
	case g.Mode == game.ModeFrightened && g.Palette == game.PaletteWhite:
		return colScaredFlsh
	case g.Mode == game.ModeFrightened:
		return colScaredBlue
	default:
		return roleColors[g.Role]
	}
}

// interpolate blends the previous and current tick positions. Jumps longer than
// a tile (tunnel warps, resets) are drawn at the current position.
func interpolate(old, cur game.Position, alpha, tileSize float64) game.Position {
	if math.Abs(cur.X-old.X) > tileSize || math.Abs(cur.Y-old.Y) > tileSize {
		return cur
	}
	alpha = math.Max(0, math.Min(1, alpha))
	return game.Position{
		X: old.X + (cur.X-old.X)*alpha,
		Y: old.Y + (cur.Y-old.Y)*alpha,
	}
}

func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, hudFace, op)
}
