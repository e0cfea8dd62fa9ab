package game

import "testing"

// --- Blackboard ---

func TestBlackboard_StaleRules(t *testing.T) {
	var bb Blackboard
	if !bb.stale(0, Pos{1, 1}) {
		t.Fatal("empty cache should be stale")
	}
	bb.Path = []Pos{{1, 1}, {2, 2}}
	bb.HasPath = true
	bb.Goal = Pos{2, 2}
	bb.ComputedAt = 10

	if bb.stale(12, Pos{2, 2}) {
		t.Fatal("fresh cache for the same goal should be reused")
	}
	if !bb.stale(12, Pos{3, 3}) {
		t.Fatal("a moved goal should force a refresh")
	}
	if !bb.stale(10+pathRefreshTicks, Pos{2, 2}) {
		t.Fatal("cache should refresh every pathRefreshTicks")
	}
}

func TestBlackboard_AdvanceTo(t *testing.T) {
	bb := Blackboard{Path: []Pos{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, HasPath: true}
	if !bb.advanceTo(Pos{1, 0}) {
		t.Fatal("position on the path should be found")
	}
	if len(bb.Path) != 2 || bb.Path[0] != (Pos{2, 0}) {
		t.Fatalf("expected remaining [(2,0) (3,0)], got %v", bb.Path)
	}
	if !bb.advanceTo(Pos{1, 1}) {
		t.Fatal("a tank next to the first remaining cell is still on route")
	}
	if len(bb.Path) != 2 {
		t.Fatal("waiting next to the path must not consume it")
	}
	if bb.advanceTo(Pos{9, 9}) {
		t.Fatal("off-path position should report false")
	}
	bb.Invalidate()
	if bb.HasPath || bb.Path != nil {
		t.Fatal("Invalidate should drop the path")
	}
}

func TestBlackboard_RefreshCountsSearches(t *testing.T) {
	g := NewGrid(6, 6)
	var bb Blackboard
	bb.refresh(g, 3, Pos{0, 0}, Pos{3, 3})
	if !bb.HasPath || bb.Goal != (Pos{3, 3}) || bb.ComputedAt != 3 || bb.Searches != 1 {
		t.Fatalf("unexpected blackboard after refresh: %+v", bb)
	}
	if len(bb.Path) != 4 {
		t.Fatalf("expected a 4-cell diagonal path, got %v", bb.Path)
	}

	g.SetContent(Pos{3, 3}, CellWall)
	bb.refresh(g, 4, Pos{0, 0}, Pos{3, 3})
	if bb.HasPath || bb.Searches != 2 {
		t.Fatalf("walled goal should clear the path, got %+v", bb)
	}
	if !bb.stale(5, Pos{3, 3}) {
		t.Fatal("a failed search should leave the cache stale")
	}
}
