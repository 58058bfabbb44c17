package spatial

import "testing"

func TestRect_Quadrants(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
	}{
		{"Even square", Rect{0, 0, 8, 8}},
		{"Odd both", Rect{3, -2, 5, 7}},
		{"Width one", Rect{0, 0, 1, 6}},
		{"Height one", Rect{2, 2, 9, 1}},
		{"Single tile", Rect{4, 4, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quads := tt.r.Quadrants()

			area := 0
			for _, q := range quads {
				if q.W < 0 || q.H < 0 {
					t.Fatalf("negative quadrant %v", q)
				}
				area += q.W * q.H
			}
			if area != tt.r.W*tt.r.H {
				t.Errorf("quadrant area = %d, want %d", area, tt.r.W*tt.r.H)
			}

			// Каждая клетка родителя попадает ровно в одну четверть
			for y := tt.r.Y; y < tt.r.Bottom(); y++ {
				for x := tt.r.X; x < tt.r.Right(); x++ {
					hits := 0
					for _, q := range quads {
						if q.ContainsPoint(x, y) {
							hits++
						}
					}
					if hits != 1 {
						t.Errorf("(%d,%d) covered %d times", x, y, hits)
					}
				}
			}

			// Правая нижняя четверть забирает остаток
			se := quads[3]
			if se.Right() != tt.r.Right() || se.Bottom() != tt.r.Bottom() {
				t.Errorf("SE %v does not reach the corner of %v", se, tt.r)
			}
		})
	}
}

func TestRect_IntersectsAndContains(t *testing.T) {
	base := Rect{0, 0, 10, 10}

	tests := []struct {
		name       string
		other      Rect
		intersects bool
		contains   bool
	}{
		{"Inside", Rect{2, 2, 3, 3}, true, true},
		{"Same", Rect{0, 0, 10, 10}, true, true},
		{"Overlap", Rect{5, 5, 10, 10}, true, false},
		{"Touching edge", Rect{10, 0, 5, 5}, false, false},
		{"Far", Rect{20, 20, 5, 5}, false, false},
		{"Empty inside", Rect{3, 3, 0, 4}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.intersects {
				t.Errorf("Intersects() = %v, want %v", got, tt.intersects)
			}
			if got := base.Contains(tt.other); got != tt.contains {
				t.Errorf("Contains() = %v, want %v", got, tt.contains)
			}
		})
	}
}

func TestRect_Intersection(t *testing.T) {
	got := Rect{0, 0, 10, 10}.Intersection(Rect{-3, 5, 6, 20})
	want := Rect{0, 5, 3, 5}
	if got != want {
		t.Errorf("Intersection() = %v, want %v", got, want)
	}

	if !(Rect{0, 0, 2, 2}).Intersection(Rect{5, 5, 1, 1}).Empty() {
		t.Error("disjoint intersection should be empty")
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value[string]
		want bool
	}{
		{"Unset equals unset", Unset[string](), Unset[string](), true},
		{"Same value", Some("sea"), Some("sea"), true},
		{"Different value", Some("sea"), Some("sand"), false},
		{"Set vs unset", Some(""), Unset[string](), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
