package latentio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/flga/feasible/internal/grid"
)

func TestParseLatentFilename(t *testing.T) {
	seed, shape, err := ParseLatentFilename("latent_t_42_16x32.bin")
	if err != nil {
		t.Fatal(err)
	}
	if seed != 42 || shape.Rows != 16 || shape.Cols != 32 {
		t.Fatalf("got seed=%d shape=%v", seed, shape)
	}
}

func TestParseLatentFilenameRejectsGarbage(t *testing.T) {
	if _, _, err := ParseLatentFilename("nope.bin"); err == nil {
		t.Fatal("expected an error for a non-matching filename")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	shape := grid.Shape{Rows: 4, Cols: 5}
	latent := make([]float32, shape.Size())
	for i := range latent {
		latent[i] = float32(i) - 3.5
	}

	var buf bytes.Buffer
	if err := Save(&buf, latent); err != nil {
		t.Fatal(err)
	}

	got, err := Load(&buf, shape)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(latent) {
		t.Fatalf("got %d values, want %d", len(got), len(latent))
	}
	for i := range got {
		if got[i] != latent[i] {
			t.Fatalf("value %d = %v, want %v", i, got[i], latent[i])
		}
	}
}

func TestLoadRejectsShortPayload(t *testing.T) {
	shape := grid.Shape{Rows: 4, Cols: 5}
	buf := bytes.NewReader(make([]byte, 4)) // only one float32, need 20
	if _, err := Load(buf, shape); err == nil {
		t.Fatal("expected an error for a short payload")
	}
}

func TestLoadRejectsOversizedPayload(t *testing.T) {
	shape := grid.Shape{Rows: 2, Cols: 2}
	latent := make([]float32, shape.Size()+1)
	var buf bytes.Buffer
	if err := Save(&buf, latent); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&buf, shape); err == nil {
		t.Fatal("expected an error for an oversized payload")
	}
}

func TestLoadRejectsNaN(t *testing.T) {
	shape := grid.Shape{Rows: 1, Cols: 2}
	latent := []float32{0, float32(math.NaN())}
	var buf bytes.Buffer
	if err := Save(&buf, latent); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(&buf, shape); err == nil {
		t.Fatal("expected an error for a NaN payload")
	}
}

func TestSaveFileLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	shape := grid.Shape{Rows: 3, Cols: 3}
	latent := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}

	path, err := SaveFile(dir, 7, shape, latent)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "latent_t_7_3x3.bin" {
		t.Fatalf("unexpected filename %s", path)
	}

	got, seed, gotShape, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if seed != 7 || gotShape != shape {
		t.Fatalf("got seed=%d shape=%v", seed, gotShape)
	}
	for i := range got {
		if got[i] != latent[i] {
			t.Fatalf("value %d = %v, want %v", i, got[i], latent[i])
		}
	}
}

func TestSaveFileRejectsWrongLength(t *testing.T) {
	dir := t.TempDir()
	if _, err := SaveFile(dir, 1, grid.Shape{Rows: 2, Cols: 2}, []float32{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a mis-sized latent slice")
	}
}

func TestLoadFloatMaskFile(t *testing.T) {
	dir := t.TempDir()
	shape := grid.Shape{Rows: 2, Cols: 2}
	mask := []float32{1, 0, 0, 1}

	path := filepath.Join(dir, "mask.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(f, mask); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := LoadFloatMaskFile(path, shape)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != mask[i] {
			t.Fatalf("value %d = %v, want %v", i, got[i], mask[i])
		}
	}
}
