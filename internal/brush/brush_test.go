package brush

import (
	"sort"
	"testing"

	"github.com/flga/feasible/internal/grid"
)

func offsetSet(offsets []grid.Offset) map[grid.Offset]bool {
	m := make(map[grid.Offset]bool, len(offsets))
	for _, o := range offsets {
		m[o] = true
	}
	return m
}

func TestNotchedSquareSymmetric(t *testing.T) {
	b := NotchedSquare(5, 1)

	if len(b.Offsets) == 0 {
		t.Fatal("NotchedSquare produced no offsets")
	}

	set := offsetSet(b.Offsets)
	for o := range set {
		neg := grid.Offset{DI: -o.DI, DJ: -o.DJ}
		if !set[neg] {
			t.Errorf("offset %v has no symmetric counterpart %v", o, neg)
		}
	}
}

func TestNotchedSquareRemovesCorners(t *testing.T) {
	b := NotchedSquare(5, 1)
	mask := b.Mask()

	corners := []grid.Pos{{I: 0, J: 0}, {I: 0, J: 4}, {I: 4, J: 0}, {I: 4, J: 4}}
	for _, c := range corners {
		if mask[grid.Index(c.I, c.J, 5)] {
			t.Errorf("corner %v should have been notched out", c)
		}
	}

	if !mask[grid.Index(2, 2, 5)] {
		t.Error("center should be set")
	}
}

func TestBrushAtClipsToBounds(t *testing.T) {
	b := NotchedSquare(5, 1)
	shape := grid.Shape{Rows: 6, Cols: 8}

	got := b.At(grid.Pos{I: 0, J: 0}, shape)
	for _, p := range got {
		if !shape.Contains(p.I, p.J) {
			t.Errorf("At() returned out-of-bounds position %v", p)
		}
	}
	if len(got) == 0 {
		t.Fatal("At() at the corner should still cover some in-bounds cells")
	}
}

func TestFromFloatMaskRoundTrip(t *testing.T) {
	want := NotchedSquare(5, 1)
	mask := want.Mask()
	floatMask := make([]float32, len(mask))
	for i, v := range mask {
		if v {
			floatMask[i] = 1
		}
	}

	got := FromFloatMask(want.Shape, floatMask)

	wantSorted := append([]grid.Offset(nil), want.Offsets...)
	gotSorted := append([]grid.Offset(nil), got.Offsets...)
	sortOffsets(wantSorted)
	sortOffsets(gotSorted)

	if len(wantSorted) != len(gotSorted) {
		t.Fatalf("FromFloatMask produced %d offsets, want %d", len(gotSorted), len(wantSorted))
	}
	for i := range wantSorted {
		if wantSorted[i] != gotSorted[i] {
			t.Errorf("offset %d = %v, want %v", i, gotSorted[i], wantSorted[i])
		}
	}
}

func sortOffsets(o []grid.Offset) {
	sort.Slice(o, func(i, j int) bool {
		if o[i].DI != o[j].DI {
			return o[i].DI < o[j].DI
		}
		return o[i].DJ < o[j].DJ
	})
}

func TestComputeBigBrushCentredOddWidth(t *testing.T) {
	b := NotchedSquare(5, 1)
	big := ComputeBigBrush(b)

	// the big brush must contain the origin: a touch overlaps itself.
	found := false
	for _, o := range big.Offsets {
		if o.DI == 0 && o.DJ == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("big brush does not contain the origin")
	}

	if big.Shape.Rows != 2*b.Shape.Rows-1 || big.Shape.Cols != 2*b.Shape.Cols-1 {
		t.Errorf("big brush shape = %v, want (%d, %d)", big.Shape, 2*b.Shape.Rows-1, 2*b.Shape.Cols-1)
	}
}

func TestComputeBigBrushCentredEvenWidth(t *testing.T) {
	// a 4x4 square brush (even width) exercises the "- m%2" correction.
	b := NotchedSquare(4, 0)
	big := ComputeBigBrush(b)

	found := false
	for _, o := range big.Offsets {
		if o.DI == 0 && o.DJ == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("big brush does not contain the origin for an even-width brush")
	}
}

func TestComputeVeryBigSquareBrushIsFullSquare(t *testing.T) {
	b := NotchedSquare(5, 1)
	vbb := ComputeVeryBigSquareBrush(b)

	want := 3 * b.Shape.Rows * 3 * b.Shape.Cols
	if len(vbb.Offsets) != want {
		t.Errorf("very big brush has %d offsets, want %d", len(vbb.Offsets), want)
	}
	if vbb.Shape.Rows != 3*b.Shape.Rows || vbb.Shape.Cols != 3*b.Shape.Cols {
		t.Errorf("very big brush shape = %v, want (%d, %d)", vbb.Shape, 3*b.Shape.Rows, 3*b.Shape.Cols)
	}
}
