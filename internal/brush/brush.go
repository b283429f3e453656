// Package brush implements the structuring element used to stamp the
// Design: a centred list of integer offsets, plus the two derived
// brushes (big and very-big) the Design and Generator need.
package brush

import "github.com/flga/feasible/internal/grid"

// Brush is a centred list of offsets, with a nominal bounding shape
// used to derive padded brushes.
type Brush struct {
	Offsets []grid.Offset
	Shape   grid.Shape
}

// NotchedSquare returns a width x width square brush with its four
// notch x notch corners removed, centred on the origin via
// floor-division, matching notched_square_brush in the original source.
func NotchedSquare(width, notch int) Brush {
	offsets := make([]grid.Offset, 0, width*width)
	half := width / 2
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			if i < notch && j < notch {
				continue
			}
			if width-notch <= i && j < notch {
				continue
			}
			if i < notch && width-notch <= j {
				continue
			}
			if width-notch <= i && width-notch <= j {
				continue
			}
			offsets = append(offsets, grid.Offset{DI: i - half, DJ: j - half})
		}
	}
	return Brush{Offsets: offsets, Shape: grid.Shape{Rows: width, Cols: width}}
}

// FromFloatMask builds a brush from an M*N row-major float mask, taking
// every cell greater than 0.5 as an offset centred on the mask's middle.
// This is the on-disk brush format described by the library boundary.
func FromFloatMask(shape grid.Shape, mask []float32) Brush {
	offsets := make([]grid.Offset, 0)
	ci := shape.Rows / 2
	cj := shape.Cols / 2
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			if mask[grid.Index(i, j, shape.Cols)] > 0.5 {
				offsets = append(offsets, grid.Offset{DI: i - ci, DJ: j - cj})
			}
		}
	}
	return Brush{Offsets: offsets, Shape: shape}
}

// Mask rasterises the offset list into a Shape-sized bitmap with the
// origin at centre; offsets outside the shape are silently clipped.
func (b Brush) Mask() []bool {
	mask := make([]bool, b.Shape.Size())
	ci := b.Shape.Rows / 2
	cj := b.Shape.Cols / 2
	for _, o := range b.Offsets {
		i := ci + o.DI
		j := cj + o.DJ
		if !b.Shape.Contains(i, j) {
			continue
		}
		mask[grid.Index(i, j, b.Shape.Cols)] = true
	}
	return mask
}

// At returns the in-bounds absolute cells painted by placing the
// brush's centre at pos within a grid of the given shape.
func (b Brush) At(pos grid.Pos, shape grid.Shape) []grid.Pos {
	return grid.Translate(b.Offsets, pos, shape)
}

// ComputeBigBrush returns the morphological self-dilation of brush,
// re-centred so that a touch at (i, j) and its big-brush stamp at
// (i, j) share the same arithmetic centre for both odd and even brush
// widths. The "+1" and "mod 2" corrections are load-bearing and must
// not be simplified away.
func ComputeBigBrush(b Brush) Brush {
	m, n := b.Shape.Rows, b.Shape.Cols
	mPad, nPad := 2*m, 2*n
	padShape := grid.Shape{Rows: mPad, Cols: nPad}
	mask := make([]bool, padShape.Size())

	for _, o := range b.Offsets {
		ci := mPad/2 + o.DI - m%2
		cj := nPad/2 + o.DJ - n%2
		stampBrush(padShape, mask, b, grid.Pos{I: ci, J: cj}, true)
	}

	offsets := make([]grid.Offset, 0)
	for i := 0; i < mPad; i++ {
		for j := 0; j < nPad; j++ {
			if !mask[grid.Index(i, j, nPad)] {
				continue
			}
			di := i - mPad/2
			dj := j - nPad/2
			offsets = append(offsets, grid.Offset{DI: di + 1, DJ: dj + 1}) // yes, +1
		}
	}
	return Brush{Offsets: offsets, Shape: grid.Shape{Rows: mPad - 1, Cols: nPad - 1}}
}

// ComputeVeryBigSquareBrush returns every offset in a (3M, 3N) centred
// square: the conservative neighbourhood in which post-placement scans
// run.
func ComputeVeryBigSquareBrush(b Brush) Brush {
	m, n := 3*b.Shape.Rows, 3*b.Shape.Cols
	offsets := make([]grid.Offset, 0, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			offsets = append(offsets, grid.Offset{DI: i - m/2, DJ: j - n/2})
		}
	}
	return Brush{Offsets: offsets, Shape: grid.Shape{Rows: m, Cols: n}}
}

// stampBrush paints value into array at every in-bounds cell brush
// covers when centred at pos. It is the unexported counterpart of
// apply_brush in the original source, kept private because only
// ComputeBigBrush needs to paint into a scratch mask rather than a
// Design plane.
func stampBrush(shape grid.Shape, array []bool, b Brush, pos grid.Pos, value bool) {
	for _, p := range b.At(pos, shape) {
		array[shape.Idx(p)] = value
	}
}
