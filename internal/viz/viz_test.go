package viz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/design"
	"github.com/flga/feasible/internal/grid"
)

func TestRenderDesignProducesOneLinePerRow(t *testing.T) {
	shape := grid.Shape{Rows: 4, Cols: 5}
	b := brush.NotchedSquare(3, 0)
	d := design.New(shape, b)
	d.AddVoidTouch(grid.Pos{I: 1, J: 1})

	out := RenderDesign(d)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// one header line plus shape.Rows data lines.
	if len(lines) != shape.Rows+1 {
		t.Fatalf("got %d lines, want %d", len(lines), shape.Rows+1)
	}
}

func TestRenderBrushMarksSetCells(t *testing.T) {
	b := brush.NotchedSquare(3, 0)
	out := RenderBrush(b)
	if out == "" {
		t.Fatal("RenderBrush produced no output")
	}
	// a 3x3 brush with no notch sets all nine cells, two blocks each.
	if got := strings.Count(out, block); got != 2*9 {
		t.Fatalf("RenderBrush drew %d blocks, want %d", got, 2*9)
	}
}

func TestSaveTGAWritesValidHeader(t *testing.T) {
	shape := grid.Shape{Rows: 3, Cols: 4}
	b := brush.NotchedSquare(3, 0)
	d := design.New(shape, b)
	d.AddVoidTouch(grid.Pos{I: 1, J: 1})

	var buf bytes.Buffer
	if err := SaveTGA(&buf, d); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	wantLen := 18 + shape.Rows*shape.Cols*3
	if len(data) != wantLen {
		t.Fatalf("wrote %d bytes, want %d", len(data), wantLen)
	}
	if data[2] != 2 {
		t.Fatalf("image type = %d, want 2 (uncompressed true-colour)", data[2])
	}
	gotCols := int(data[12]) | int(data[13])<<8
	gotRows := int(data[14]) | int(data[15])<<8
	if gotCols != shape.Cols || gotRows != shape.Rows {
		t.Fatalf("header dims = %dx%d, want %dx%d", gotCols, gotRows, shape.Cols, shape.Rows)
	}
	if data[16] != 24 {
		t.Fatalf("bpp = %d, want 24", data[16])
	}
}
