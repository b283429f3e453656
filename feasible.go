// Package feasible generates a feasible two-polarity pixel design from
// a signed latent field and a structuring-element brush: a single
// byte-in/bool-slice-out entry point wiring internal/latentio,
// internal/brush, internal/design and internal/generator together.
package feasible

import (
	"bytes"
	"fmt"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/generator"
	"github.com/flga/feasible/internal/grid"
	"github.com/flga/feasible/internal/latentio"
)

// GenerateFeasibleDesign runs the placement loop over a latent field
// of latentShape and a brush of brushShape, both supplied as raw
// little-endian float32 byte sequences, and returns the resulting
// void pixel plane plus both polarities' touch-existing planes, all
// row-major over latentShape.
func GenerateFeasibleDesign(
	latentShape grid.Shape, latentBytes []byte,
	brushShape grid.Shape, brushBytes []byte,
	verbose bool,
) (void, voidTouchExisting, solidTouchExisting []bool, err error) {
	latentT, err := latentio.Load(bytes.NewReader(latentBytes), latentShape)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("feasible: latent field: %w", err)
	}

	mask, err := latentio.Load(bytes.NewReader(brushBytes), brushShape)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("feasible: brush mask: %w", err)
	}
	b := brush.FromFloatMask(brushShape, mask)

	gen, err := generator.New(latentShape, b, latentT)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("feasible: %w", err)
	}
	gen.Verbose = verbose

	d, _, err := gen.Run()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("feasible: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("feasible: %w", err)
	}

	return d.Void(), d.VoidTouchExisting(), d.SolidTouchExisting(), nil
}
