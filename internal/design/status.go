package design

import "github.com/flga/feasible/internal/grid"

// Status is the human-readable classification of a single pixel or
// touch centre, derived from the raw boolean planes. It mirrors the
// status enum of the Rust original (status.rs), kept as an enum plus a
// short-string table rather than reinvented.
type Status byte

const (
	Unassigned Status = iota
	Painted
	PixelImpossible
	PixelExisting
	PixelPossible
	PixelRequired
	TouchRequired
	TouchInvalid
	TouchExisting
	TouchValid
	TouchFree
	TouchResolving
)

var statusLabel = map[Status]string{
	Unassigned:      " U",
	Painted:         " P",
	PixelImpossible: "PI",
	PixelExisting:   "PE",
	PixelPossible:   "PP",
	PixelRequired:   "PR",
	TouchRequired:   "TR",
	TouchInvalid:    "TI",
	TouchExisting:   "TE",
	TouchValid:      "TV",
	TouchFree:       "TF",
	TouchResolving:  "Tr",
}

// String returns the two-character label used by internal/viz.
func (s Status) String() string {
	if l, ok := statusLabel[s]; ok {
		return l
	}
	return "  "
}

// View derives the pixel and touch status planes for the polarity
// currently addressed as "void" (callers wanting the solid-side view
// should Invert first).
type View struct {
	Pixel []Status
	Touch []Status
}

// PixelStatus classifies a single pixel of the current void polarity:
// existing, impossible, required, or else "possible" (neither).
func (d *Design) PixelStatus(p grid.Pos) Status {
	idx := d.Shape.Idx(p)
	switch {
	case d.void.pixelExisting[idx]:
		return PixelExisting
	case d.void.pixelImpossible[idx]:
		return PixelImpossible
	case d.void.pixelRequired[idx]:
		return PixelRequired
	default:
		return PixelPossible
	}
}

// TouchStatus classifies a candidate void-touch centre: existing,
// invalid, resolving (its brush covers a still-unmet required pixel),
// free (its brush is already wholly committed), or else "valid".
func (d *Design) TouchStatus(p grid.Pos) Status {
	idx := d.Shape.Idx(p)
	switch {
	case d.void.touchExisting[idx]:
		return TouchExisting
	case d.void.touchInvalid[idx]:
		return TouchInvalid
	case d.touchCoversRequired(p):
		return TouchResolving
	case d.isFreeTouch(p):
		return TouchFree
	default:
		return TouchValid
	}
}

func (d *Design) touchCoversRequired(p grid.Pos) bool {
	for _, c := range d.Brush.At(p, d.Shape) {
		if d.void.pixelRequired[d.Shape.Idx(c)] {
			return true
		}
	}
	return false
}

// Snapshot renders the full pixel/touch status view over the current
// void polarity.
func (d *Design) Snapshot() View {
	n := d.Shape.Size()
	v := View{Pixel: make([]Status, n), Touch: make([]Status, n)}
	for idx := 0; idx < n; idx++ {
		p := grid.Pos{I: idx / d.Shape.Cols, J: idx % d.Shape.Cols}
		if d.void.painted[idx] {
			v.Pixel[idx] = Painted
		} else {
			v.Pixel[idx] = d.PixelStatus(p)
		}
		v.Touch[idx] = d.TouchStatus(p)
	}
	return v
}
