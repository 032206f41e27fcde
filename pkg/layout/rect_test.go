package layout

import (
	"errors"
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect("a", 10, 20, 30, 40)
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{39, 59, true},
		{40, 20, false},
		{10, 60, false},
		{9, 20, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectSplit(t *testing.T) {
	tests := []struct {
		name       string
		r          Rect[string]
		fraction   float64
		head, tail Rect[string]
	}{
		{
			name:     "wide splits side by side",
			r:        NewRect("n", 0, 0, 600, 400),
			fraction: 0.5,
			head:     NewRect("n", 0, 0, 300, 400),
			tail:     NewRect("n", 300, 0, 300, 400),
		},
		{
			name:     "tall splits stacked",
			r:        NewRect("n", 300, 0, 300, 400),
			fraction: 7.0 / 12.0,
			head:     NewRect("n", 300, 0, 300, 233),
			tail:     NewRect("n", 300, 233, 300, 167),
		},
		{
			name:     "square splits side by side",
			r:        NewRect("n", 5, 5, 10, 10),
			fraction: 0.25,
			head:     NewRect("n", 5, 5, 2, 10),
			tail:     NewRect("n", 7, 5, 8, 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, tail, err := tt.r.Split(tt.fraction)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if head != tt.head {
				t.Errorf("head = %v, want %v", head, tt.head)
			}
			if tail != tt.tail {
				t.Errorf("tail = %v, want %v", tail, tt.tail)
			}
			if head.Area()+tail.Area() != tt.r.Area() {
				t.Errorf("parts cover %d, want %d", head.Area()+tail.Area(), tt.r.Area())
			}
		})
	}
}

func TestRectSplitInvalid(t *testing.T) {
	r := NewRect("n", 0, 0, 10, 10)
	for _, f := range []float64{0, 1, -0.5, 1.5, math.NaN(), math.Inf(1)} {
		if _, _, err := r.Split(f); !errors.Is(err, ErrInvalidFraction) {
			t.Errorf("Split(%v) error = %v, want ErrInvalidFraction", f, err)
		}
	}
}

func TestRectEqualIgnoresPosition(t *testing.T) {
	a := NewRect("n", 0, 0, 10, 20)
	b := NewRect("n", 50, 50, 10, 20)
	c := NewRect("n", 0, 0, 20, 10)
	d := NewRect("m", 0, 0, 10, 20)

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Error("rects differing only in position should be equal")
	}
	if a.Equal(c) {
		t.Error("rects with different sizes should differ")
	}
	if a.Equal(d) {
		t.Error("rects for different nodes should differ")
	}
}

func TestRectGeometry(t *testing.T) {
	r := NewRect("n", 10, 10, 20, 10)
	if r.Right() != 30 || r.Bottom() != 20 {
		t.Errorf("Right/Bottom = %d/%d, want 30/20", r.Right(), r.Bottom())
	}
	if got := r.Inset(2); got != NewRect("n", 12, 12, 16, 6) {
		t.Errorf("Inset(2) = %v", got)
	}
	if !r.Inset(5).IsEmpty() {
		t.Error("Inset(5) of a 10-high rect should be empty")
	}
	if r.Inset(5).Area() != 0 {
		t.Error("empty rect should have zero area")
	}
	if !r.Intersects(NewRect("m", 29, 19, 5, 5)) {
		t.Error("overlapping corner not detected")
	}
	if r.Intersects(NewRect("m", 30, 10, 5, 5)) {
		t.Error("touching edges should not intersect")
	}
	if !r.Encloses(NewRect("m", 10, 10, 20, 10)) || r.Encloses(NewRect("m", 9, 10, 5, 5)) {
		t.Error("Encloses mismatch")
	}
}
