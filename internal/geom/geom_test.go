package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"origin", Point{10, 20}, true},
		{"inside", Point{50, 40}, true},
		{"last column", Point{109, 30}, true},
		{"right edge is exclusive", Point{110, 30}, false},
		{"bottom edge is exclusive", Point{50, 70}, false},
		{"left of rect", Point{9, 30}, false},
		{"above rect", Point{50, 19}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("%v.Contains(%v) = %v, want %v", r, tt.p, got, tt.want)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 50, 50}
	if a.Overlaps(Rect{50, 0, 50, 50}) {
		t.Error("adjacent rects should not overlap")
	}
	if !a.Overlaps(Rect{49, 49, 10, 10}) {
		t.Error("expected corner overlap")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d, want 3", got)
	}
	if got := Clamp(-5, 0, 3); got != 0 {
		t.Errorf("Clamp(-5, 0, 3) = %d, want 0", got)
	}
	if got := Clamp(2, 4, 1); got != 4 {
		t.Errorf("Clamp(2, 4, 1) = %d, want 4", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(Point{0, 0}, Point{3, 4}); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}
