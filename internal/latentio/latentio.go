// Package latentio reads and writes the raw little-endian float32
// arrays the generator consumes and produces: the signed latent field
// and the brush float mask, both row-major over a grid.Shape. The
// binary layout has no header beyond the shape carried in the
// filename - a fixed record read straight off the wire with
// encoding/binary.
package latentio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/flga/feasible/internal/grid"
)

var (
	// ErrSize is returned when a stream's length does not match the
	// requested shape.
	ErrSize = errors.New("latentio: unexpected payload size")
	// ErrNaN is returned when a loaded field contains a NaN value; a
	// NaN latent has no well-defined sign and would silently corrupt
	// the generator's priority ordering.
	ErrNaN = errors.New("latentio: field contains NaN")
)

var latentFilenameRE = regexp.MustCompile(`latent_t_(-?\d+)_(\d+)x(\d+)\.bin$`)

// ParseLatentFilename extracts the seed and shape encoded in a name of
// the form "latent_t_<seed>_<rows>x<cols>.bin".
func ParseLatentFilename(name string) (seed int, shape grid.Shape, err error) {
	m := latentFilenameRE.FindStringSubmatch(name)
	if m == nil {
		return 0, grid.Shape{}, fmt.Errorf("latentio: %q does not match latent_t_<seed>_<rows>x<cols>.bin", name)
	}
	seed, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, grid.Shape{}, fmt.Errorf("latentio: bad seed in %q: %w", name, err)
	}
	rows, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, grid.Shape{}, fmt.Errorf("latentio: bad row count in %q: %w", name, err)
	}
	cols, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, grid.Shape{}, fmt.Errorf("latentio: bad column count in %q: %w", name, err)
	}
	return seed, grid.Shape{Rows: rows, Cols: cols}, nil
}

// LatentFilename formats the canonical name for a given seed and shape.
func LatentFilename(seed int, shape grid.Shape) string {
	return fmt.Sprintf("latent_t_%d_%dx%d.bin", seed, shape.Rows, shape.Cols)
}

// Load reads shape.Size() little-endian float32 values from r, row
// major, rejecting a short or oversized stream and any NaN payload.
func Load(r io.Reader, shape grid.Shape) ([]float32, error) {
	n := shape.Size()
	buf := make([]float32, n)
	if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrSize
		}
		return nil, fmt.Errorf("latentio: read: %w", err)
	}

	// A trailing byte past the expected payload means the caller asked
	// for the wrong shape; binary.Read itself can't see this since it
	// stops once buf is full.
	var probe [1]byte
	if nread, _ := r.Read(probe[:]); nread > 0 {
		return nil, ErrSize
	}

	for _, v := range buf {
		if math.IsNaN(float64(v)) {
			return nil, ErrNaN
		}
	}
	return buf, nil
}

// Save writes latent as little-endian float32, row major, with no
// header - the shape travels out of band, in the filename.
func Save(w io.Writer, latent []float32) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, latent); err != nil {
		return fmt.Errorf("latentio: write: %w", err)
	}
	return bw.Flush()
}

// LoadFile opens path, parses its shape from the filename, and loads
// the latent field.
func LoadFile(path string) (latent []float32, seed int, shape grid.Shape, err error) {
	seed, shape, err = ParseLatentFilename(path)
	if err != nil {
		return nil, 0, grid.Shape{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, grid.Shape{}, fmt.Errorf("latentio: open %s: %w", path, err)
	}
	defer f.Close()

	latent, err = Load(bufio.NewReader(f), shape)
	if err != nil {
		return nil, 0, grid.Shape{}, fmt.Errorf("latentio: %s: %w", path, err)
	}
	return latent, seed, shape, nil
}

// SaveFile writes latent to the canonical filename for seed and shape
// inside dir, returning the path it wrote.
func SaveFile(dir string, seed int, shape grid.Shape, latent []float32) (string, error) {
	if len(latent) != shape.Size() {
		return "", fmt.Errorf("latentio: %w: got %d values, want %d", ErrSize, len(latent), shape.Size())
	}
	path := dir + string(os.PathSeparator) + LatentFilename(seed, shape)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("latentio: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Save(f, latent); err != nil {
		return "", fmt.Errorf("latentio: %s: %w", path, err)
	}
	return path, nil
}

// LoadFloatMaskFile loads a brush mask stored in the same float32
// row-major format as a latent field; threshold-to-bool conversion is
// internal/brush.FromFloatMask's job, not this package's.
func LoadFloatMaskFile(path string, shape grid.Shape) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("latentio: open %s: %w", path, err)
	}
	defer f.Close()

	mask, err := Load(bufio.NewReader(f), shape)
	if err != nil {
		return nil, fmt.Errorf("latentio: %s: %w", path, err)
	}
	return mask, nil
}
