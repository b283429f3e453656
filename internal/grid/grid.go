// Package grid holds the row-major index arithmetic and bounds-clipping
// helpers shared by brush, design and generator. Nothing here owns any
// state; every function is a pure transform on a Shape/Pos pair.
package grid

// Shape is the (rows, cols) extent of a 2D grid.
type Shape struct {
	Rows int
	Cols int
}

// Size returns the number of cells in the shape.
func (s Shape) Size() int {
	return s.Rows * s.Cols
}

// Contains reports whether (i, j) lies inside the shape.
func (s Shape) Contains(i, j int) bool {
	return i >= 0 && i < s.Rows && j >= 0 && j < s.Cols
}

// Pos is a grid coordinate, (i, j) with i the row and j the column.
type Pos struct {
	I int
	J int
}

// Offset is a signed (di, dj) displacement, centred on (0, 0).
type Offset struct {
	DI int
	DJ int
}

// Index returns the row-major linear index of (i, j) in a grid with the
// given number of columns.
func Index(i, j, cols int) int {
	return i*cols + j
}

// Idx is a convenience wrapper around Index for a Pos within a Shape.
func (s Shape) Idx(p Pos) int {
	return Index(p.I, p.J, s.Cols)
}

// Translate clips a list of offsets centred at pos against shape,
// returning the in-bounds absolute positions. Offsets that fall outside
// the shape are silently dropped, matching the brush's "at" contract.
func Translate(offsets []Offset, pos Pos, shape Shape) []Pos {
	out := make([]Pos, 0, len(offsets))
	for _, o := range offsets {
		i := pos.I + o.DI
		j := pos.J + o.DJ
		if !shape.Contains(i, j) {
			continue
		}
		out = append(out, Pos{I: i, J: j})
	}
	return out
}
