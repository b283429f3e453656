package grid

import "testing"

func TestIndex(t *testing.T) {
	tests := []struct {
		name       string
		i, j, cols int
		want       int
	}{
		{"origin", 0, 0, 8, 0},
		{"first row", 0, 3, 8, 3},
		{"second row", 1, 3, 8, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.i, tt.j, tt.cols); got != tt.want {
				t.Errorf("Index(%d, %d, %d) = %d, want %d", tt.i, tt.j, tt.cols, got, tt.want)
			}
		})
	}
}

func TestShapeContains(t *testing.T) {
	s := Shape{Rows: 6, Cols: 8}

	tests := []struct {
		name string
		i, j int
		want bool
	}{
		{"inside", 3, 4, true},
		{"top edge", 0, 0, true},
		{"bottom edge", 5, 7, true},
		{"negative row", -1, 0, false},
		{"negative col", 0, -1, false},
		{"row overflow", 6, 0, false},
		{"col overflow", 0, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.i, tt.j); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.i, tt.j, got, tt.want)
			}
		})
	}
}

func TestTranslateClips(t *testing.T) {
	shape := Shape{Rows: 6, Cols: 8}
	offsets := []Offset{
		{DI: -1, DJ: -1},
		{DI: 0, DJ: 0},
		{DI: 1, DJ: 1},
		{DI: -10, DJ: 0},
	}

	got := Translate(offsets, Pos{I: 0, J: 0}, shape)
	want := []Pos{{I: 0, J: 0}, {I: 1, J: 1}}

	if len(got) != len(want) {
		t.Fatalf("Translate() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Translate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
