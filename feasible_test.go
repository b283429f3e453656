package feasible

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/flga/feasible/internal/grid"
)

func encodeLatent(t *testing.T, values []float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func squareMask(shape grid.Shape) []float32 {
	out := make([]float32, shape.Size())
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestGenerateFeasibleDesignRoundTrip(t *testing.T) {
	latentShape := grid.Shape{Rows: 10, Cols: 10}
	brushShape := grid.Shape{Rows: 3, Cols: 3}

	r := rand.New(rand.NewSource(42))
	latent := make([]float32, latentShape.Size())
	for i := range latent {
		latent[i] = float32(r.NormFloat64())
	}

	void, voidTE, solidTE, err := GenerateFeasibleDesign(
		latentShape, encodeLatent(t, latent),
		brushShape, encodeLatent(t, squareMask(brushShape)),
		false,
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(void) != latentShape.Size() {
		t.Fatalf("void has %d entries, want %d", len(void), latentShape.Size())
	}
	if len(voidTE) != latentShape.Size() || len(solidTE) != latentShape.Size() {
		t.Fatal("touch-existing planes have the wrong length")
	}
}

func TestGenerateFeasibleDesignRejectsMismatchedLatentSize(t *testing.T) {
	latentShape := grid.Shape{Rows: 4, Cols: 4}
	brushShape := grid.Shape{Rows: 3, Cols: 3}

	_, _, _, err := GenerateFeasibleDesign(
		latentShape, []byte{0, 0, 0, 0},
		brushShape, encodeLatent(t, squareMask(brushShape)),
		false,
	)
	if err == nil {
		t.Fatal("expected an error for a mis-sized latent payload")
	}
}

func TestGenerateFeasibleDesignIsDeterministic(t *testing.T) {
	latentShape := grid.Shape{Rows: 8, Cols: 8}
	brushShape := grid.Shape{Rows: 3, Cols: 3}

	r := rand.New(rand.NewSource(7))
	latent := make([]float32, latentShape.Size())
	for i := range latent {
		latent[i] = float32(r.NormFloat64())
	}
	latentBytes := encodeLatent(t, latent)
	brushBytes := encodeLatent(t, squareMask(brushShape))

	void1, _, _, err := GenerateFeasibleDesign(latentShape, latentBytes, brushShape, brushBytes, false)
	if err != nil {
		t.Fatal(err)
	}
	void2, _, _, err := GenerateFeasibleDesign(latentShape, latentBytes, brushShape, brushBytes, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := range void1 {
		if void1[i] != void2[i] {
			t.Fatalf("non-deterministic output at index %d", i)
		}
	}
}
