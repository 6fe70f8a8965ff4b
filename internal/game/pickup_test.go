package game

import "testing"

func TestPickup_Boxes(t *testing.T) {
	dot := NewPickup(PickupDot, 1, 1, 8, 10)
	if dot.Box != (Rect{MinX: 11, MinY: 11, MaxX: 13, MaxY: 13}) {
		t.Fatalf("dot box=%+v", dot.Box)
	}
	pellet := NewPickup(PickupPowerPellet, 1, 1, 8, 50)
	if pellet.Box != (Rect{MinX: 8, MinY: 8, MaxX: 16, MaxY: 16}) {
		t.Fatalf("pellet box=%+v", pellet.Box)
	}
	fruit := NewPickup(PickupFruit, 13, 17, 8, 100)
	if fruit.Visible {
		t.Fatal("fruit starts hidden")
	}
	if !dot.Visible || !pellet.Visible {
		t.Fatal("dots and pellets start visible")
	}
}

func TestPickup_BroadPhaseGatesCollection(t *testing.T) {
	pk := NewPickup(PickupDot, 1, 1, 8, 10)
	overlapping := rectAt(10, 10, 4, 4)

	pk.UpdateProximity(Position{X: 200, Y: 200}, 16)
	if pk.NearPlayer {
		t.Fatal("a distant player should exclude the pickup")
	}
	if pk.TryCollect(overlapping) {
		t.Fatal("pickups outside the broad phase are never collected")
	}

	pk.UpdateProximity(Position{X: 12, Y: 20}, 16)
	if !pk.NearPlayer {
		t.Fatal("a player within the window should include the pickup")
	}
	if pk.TryCollect(rectAt(20, 20, 4, 4)) {
		t.Fatal("no overlap, no collection")
	}
	if !pk.TryCollect(overlapping) {
		t.Fatal("overlapping near pickup should be collected")
	}
	if pk.Visible {
		t.Fatal("collection hides the pickup")
	}
	if pk.TryCollect(overlapping) {
		t.Fatal("a pickup is collected once")
	}

	// Hidden pickups keep their broad-phase flag until shown again.
	pk.UpdateProximity(Position{X: 12, Y: 12}, 16)
	pk.Show()
	if pk.NearPlayer {
		t.Fatal("Show clears the broad-phase flag")
	}
	pk.UpdateProximity(Position{X: 12, Y: 12}, 16)
	if !pk.TryCollect(overlapping) {
		t.Fatal("a shown pickup is collectable again")
	}
}

func TestPickup_TouchingEdgeIsNotCollected(t *testing.T) {
	pk := NewPickup(PickupDot, 1, 1, 8, 10)
	pk.UpdateProximity(Position{X: 12, Y: 12}, 16)
	if pk.TryCollect(rectAt(13, 11, 4, 2)) {
		t.Fatal("edge contact is not an overlap")
	}
}
