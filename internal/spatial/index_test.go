package spatial

import "testing"

func containsID(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func TestBuildEmpty(t *testing.T) {
	idx := Build(nil)
	if idx.Len() != 0 {
		t.Fatalf("want 0 leaves, got %d", idx.Len())
	}
	if _, ok := idx.OverallBounds(); ok {
		t.Fatal("want no overall bounds for empty index")
	}
	if got := idx.QueryRect(0, 0, 100, 100); len(got) != 0 {
		t.Fatalf("want no results, got %v", got)
	}
}

func TestQueryRectIntersects(t *testing.T) {
	idx := Build([]NodeBounds{
		{ID: "a", MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		{ID: "b", MinX: 20, MinY: 20, MaxX: 30, MaxY: 30},
	})
	got := idx.QueryRect(5, 5, 25, 25)
	if !containsID(got, "a") || !containsID(got, "b") {
		t.Fatalf("want both a and b, got %v", got)
	}
	got = idx.QueryRect(100, 100, 200, 200)
	if len(got) != 0 {
		t.Fatalf("want no matches far away, got %v", got)
	}
}

func TestQueryPointInclusiveEdges(t *testing.T) {
	idx := Build([]NodeBounds{{ID: "a", MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}})
	for _, p := range [][2]float64{{0, 0}, {10, 10}, {5, 0}, {0, 5}} {
		got := idx.QueryPoint(p[0], p[1])
		if !containsID(got, "a") {
			t.Errorf("point %v: want hit on inclusive edge, got %v", p, got)
		}
	}
	if got := idx.QueryPoint(10.01, 5); containsID(got, "a") {
		t.Errorf("point just outside edge should miss, got %v", got)
	}
}

// TestQueryPointSubsetOfQueryRect checks that QueryPoint(x,y) is always a
// subset of QueryRect(x,y,x,y).
func TestQueryPointSubsetOfQueryRect(t *testing.T) {
	idx := Build([]NodeBounds{
		{ID: "a", MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		{ID: "b", MinX: 5, MinY: 5, MaxX: 15, MaxY: 15},
	})
	x, y := 7.0, 7.0
	pointResult := idx.QueryPoint(x, y)
	rectResult := idx.QueryRect(x, y, x, y)
	for _, id := range pointResult {
		if !containsID(rectResult, id) {
			t.Errorf("query_point result %q not in query_rect(x,y,x,y) result %v", id, rectResult)
		}
	}
}

func TestGetNodeBounds(t *testing.T) {
	idx := Build([]NodeBounds{{ID: "a", MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}})
	b, ok := idx.GetNodeBounds("a")
	if !ok || b.MinX != 1 || b.MinY != 2 || b.MaxX != 3 || b.MaxY != 4 {
		t.Fatalf("got %+v, %v", b, ok)
	}
	if _, ok := idx.GetNodeBounds("missing"); ok {
		t.Fatal("want miss for unknown id")
	}
}

func TestOverallBoundsUnion(t *testing.T) {
	idx := Build([]NodeBounds{
		{ID: "a", MinX: -10, MinY: 0, MaxX: 5, MaxY: 5},
		{ID: "b", MinX: 0, MinY: -20, MaxX: 30, MaxY: 2},
	})
	b, ok := idx.OverallBounds()
	if !ok {
		t.Fatal("want overall bounds present")
	}
	if b.MinX != -10 || b.MinY != -20 || b.MaxX != 30 || b.MaxY != 5 {
		t.Fatalf("unexpected union: %+v", b)
	}
}

func TestNodeBoundsWidthHeightNonNegative(t *testing.T) {
	b := NodeBounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}
	if b.Width() != 10 || b.Height() != 20 {
		t.Fatalf("got width=%v height=%v", b.Width(), b.Height())
	}
}
