package game

import (
	"testing"
)

func testPlayer(t *testing.T, rows []string, at GridPosition, dir Direction) *Player {
	t.Helper()
	m, err := ParseTileMap(rows)
	if err != nil {
		t.Fatal(err)
	}
	return NewPlayer(m, 8, at, dir, 0.125)
}

func TestPlayer_StopsAtWall(t *testing.T) {
	p := testPlayer(t, corridorRows, GridPosition{X: 1, Y: 1}, DirRight)
	p.SetDesiredDirection(DirRight)
	for i := 0; i < 48; i++ {
		p.Update(8)
	}
	if g := p.Grid(); g.X != 7 || g.Y != 1 {
		t.Fatalf("after 48 ticks grid=%+v, want (7,1)", g)
	}
	if !p.Moving {
		t.Fatal("player should still be moving on arrival")
	}
	p.Update(8)
	if p.Moving {
		t.Fatal("player should stop when the tile ahead is a wall")
	}
	if g := p.Grid(); g.X != 7 {
		t.Fatalf("player moved into the wall: %+v", g)
	}
}

func TestPlayer_ReversesMidTile(t *testing.T) {
	p := testPlayer(t, corridorRows, GridPosition{X: 3, Y: 1}, DirRight)
	p.SetDesiredDirection(DirRight)
	for i := 0; i < 4; i++ {
		p.Update(8)
	}
	if g := p.Grid(); g.X != 3.5 {
		t.Fatalf("grid x=%v, want 3.5", g.X)
	}
	p.SetDesiredDirection(DirLeft)
	p.Update(8)
	if p.Direction != DirLeft {
		t.Fatalf("direction=%s, want left", p.Direction)
	}
	if g := p.Grid(); g.X != 3.375 {
		t.Fatalf("grid x=%v, want 3.375", g.X)
	}
}

func TestPlayer_BuffersTurnUntilTile(t *testing.T) {
	p := testPlayer(t, openField, GridPosition{X: 1, Y: 1}, DirRight)
	p.SetDesiredDirection(DirRight)
	for i := 0; i < 4; i++ {
		p.Update(8)
	}
	p.SetDesiredDirection(DirDown)
	for i := 0; i < 4; i++ {
		p.Update(8)
		if p.Direction != DirRight {
			t.Fatalf("turned early at grid %+v", p.Grid())
		}
	}
	if g := p.Grid(); g.X != 2 || g.Y != 1 {
		t.Fatalf("grid=%+v, want (2,1)", g)
	}
	p.Update(8)
	if p.Direction != DirDown {
		t.Fatalf("direction=%s, want down once on the tile", p.Direction)
	}
	if g := p.Grid(); g.X != 2 || g.Y != 1.125 {
		t.Fatalf("grid=%+v, want (2,1.125)", g)
	}
}

func TestPlayer_BlockedTurnKeepsGoing(t *testing.T) {
	p := testPlayer(t, corridorRows, GridPosition{X: 2, Y: 1}, DirRight)
	p.SetDesiredDirection(DirUp)
	p.Update(8)
	if p.Direction != DirRight || !p.Moving {
		t.Fatalf("direction=%s moving=%v, want right and moving", p.Direction, p.Moving)
	}
	if p.DesiredDirection != DirUp {
		t.Fatal("desired direction should be kept for the next tile")
	}
}

func TestPlayer_TunnelWarp(t *testing.T) {
	p := testPlayer(t, DefaultMaze, GridPosition{X: 0, Y: 14}, DirLeft)
	p.SetDesiredDirection(DirLeft)
	for i := 0; i < 7; i++ {
		p.Update(8)
	}
	if g := p.Grid(); g.X != 27.75 {
		t.Fatalf("grid x=%v after leaving the left edge, want 27.75", g.X)
	}
	p.Update(8)
	if g := p.Grid(); g.X != 27.625 || p.Direction != DirLeft {
		t.Fatalf("grid=%+v dir=%s, want to keep moving left from the right edge", g, p.Direction)
	}
}

func TestPlayer_ResetAndHitbox(t *testing.T) {
	p := testPlayer(t, openField, GridPosition{X: 1, Y: 1}, DirRight)
	p.SetDesiredDirection(DirDown)
	p.Update(8)
	p.Reset()
	if p.Moving || p.Grid() != (GridPosition{X: 1, Y: 1}) || p.Direction != DirRight {
		t.Fatalf("reset left %+v moving=%v dir=%s", p.Grid(), p.Moving, p.Direction)
	}
	// Sprite spans (4,4)-(20,20); the hitbox is its inner half.
	hb := p.Hitbox()
	if hb != (Rect{MinX: 8, MinY: 8, MaxX: 16, MaxY: 16}) {
		t.Fatalf("hitbox=%+v", hb)
	}
	if c := p.Center(); c != (Position{X: 12, Y: 12}) {
		t.Fatalf("center=%+v", c)
	}
}
