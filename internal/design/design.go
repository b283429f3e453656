// Package design implements the constraint-tracking / conflict
// resolution engine: the per-pixel, per-touch state machine described
// by the void/solid polarity mirrors, and the two touch operations that
// rewrite them while preserving the global invariants.
package design

import (
	"fmt"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/grid"
)

// planes holds one polarity's worth of boolean bitmaps, each a flat
// Shape.Size() bitmap in row-major order. A Design owns two of these,
// void and solid, and swaps their handles to invert - see Invert.
type planes struct {
	painted         []bool
	pixelExisting   []bool
	pixelImpossible []bool
	pixelRequired   []bool
	touchRequired   []bool
	touchInvalid    []bool
	touchExisting   []bool
}

func newPlanes(n int) *planes {
	return &planes{
		painted:         make([]bool, n),
		pixelExisting:   make([]bool, n),
		pixelImpossible: make([]bool, n),
		pixelRequired:   make([]bool, n),
		touchRequired:   make([]bool, n),
		touchInvalid:    make([]bool, n),
		touchExisting:   make([]bool, n),
	}
}

// Design is the live per-pixel/per-touch state for one grid. It is
// mutated only by AddVoidTouch, AddSolidTouch and the zero-cost Invert.
type Design struct {
	Shape        grid.Shape
	Brush        brush.Brush
	BigBrush     brush.Brush
	VeryBigBrush brush.Brush

	void  *planes
	solid *planes

	scan scanner
}

// Option configures a Design at construction time.
type Option func(*Design)

// WithParallelScan switches the required-pixel and free-touch scans to
// a fork-join worker pool instead of the sequential default - each
// candidate is checked independently of the others, so the scan splits
// cleanly across workers. See scanner.go.
func WithParallelScan() Option {
	return func(d *Design) { d.scan = newParallelScanner() }
}

// New creates an empty Design over shape, all planes false.
func New(shape grid.Shape, b brush.Brush, opts ...Option) *Design {
	n := shape.Size()
	d := &Design{
		Shape:        shape,
		Brush:        b,
		BigBrush:     brush.ComputeBigBrush(b),
		VeryBigBrush: brush.ComputeVeryBigSquareBrush(b),
		void:         newPlanes(n),
		solid:        newPlanes(n),
		scan:         sequentialScanner{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Invert swaps ownership of the void and solid plane sets in O(1). It
// never copies a plane.
func (d *Design) Invert() {
	d.void, d.solid = d.solid, d.void
}

// AddVoidTouch places a void stamp centred at pos. It returns every
// pixel in the very-big-brush neighbourhood of pos that is required in
// the void polarity after the placement (pixels already flagged by an
// earlier placement are included again) and the candidate void-touch
// centres whose brush covers at least one of them.
func (d *Design) AddVoidTouch(pos grid.Pos) (requiredPixels, resolvingTouches []grid.Pos) {
	d.applyCore(pos)

	requiredPixels = d.findRequiredPixels(pos)
	d.takeFreeTouches(pos)
	resolvingTouches = d.findResolvingTouches(requiredPixels)

	return requiredPixels, resolvingTouches
}

// AddSolidTouch is add_void_touch run against the inverted mirrors -
// the sole polarity primitive; no rule in this package is written
// twice.
func (d *Design) AddSolidTouch(pos grid.Pos) (requiredPixels, resolvingTouches []grid.Pos) {
	d.Invert()
	requiredPixels, resolvingTouches = d.AddVoidTouch(pos)
	d.Invert()
	return requiredPixels, resolvingTouches
}

// applyCore paints the brush footprint, records the touch itself and
// invalidates the opposite polarity's touch centres close enough to
// violate the min-spacing rule. It is shared between the initial
// placement at pos and every free touch taken around it, since a free
// touch commits exactly the same three effects a direct placement does.
func (d *Design) applyCore(pos grid.Pos) {
	d.paintPixels(pos)
	d.recordTouch(pos)
	d.invalidateOpposite(pos)
}

// paintPixels is step 1: every cell the brush covers becomes void, its
// solid mirror becomes impossible, and any pending "required" flag at
// that cell (either polarity) is cleared - it is now settled.
func (d *Design) paintPixels(pos grid.Pos) {
	for _, c := range d.Brush.At(pos, d.Shape) {
		idx := d.Shape.Idx(c)
		d.void.painted[idx] = true
		d.void.pixelExisting[idx] = true
		d.solid.pixelImpossible[idx] = true
		d.void.pixelRequired[idx] = false
		d.solid.pixelRequired[idx] = false
	}
}

// recordTouch is step 2: mark the centre itself as an existing void
// touch, clearing whatever advisory flags it held in either polarity.
func (d *Design) recordTouch(pos grid.Pos) {
	idx := d.Shape.Idx(pos)
	d.void.touchRequired[idx] = false
	d.void.touchInvalid[idx] = false
	d.solid.touchRequired[idx] = false
	d.solid.touchInvalid[idx] = false
	d.void.touchExisting[idx] = true
}

// invalidateOpposite is step 3: every centre within the big brush's
// footprint of pos can no longer host a solid touch without violating
// the min-spacing invariant.
func (d *Design) invalidateOpposite(pos grid.Pos) {
	for _, c := range d.BigBrush.At(pos, d.Shape) {
		d.solid.touchInvalid[d.Shape.Idx(c)] = true
	}
}

// findRequiredPixels is step 4: within the very-big-brush neighbourhood
// of pos, flag every pixel that is no longer possible to cover in
// solid - every solid touch centre that could have reached it is
// already invalid - so it must eventually become void.
func (d *Design) findRequiredPixels(pos grid.Pos) []grid.Pos {
	candidates := d.VeryBigBrush.At(pos, d.Shape)
	required := d.scan.filter(candidates, d.isRequiredPixel)
	for _, p := range required {
		d.void.pixelRequired[d.Shape.Idx(p)] = true
	}
	return required
}

func (d *Design) isRequiredPixel(p grid.Pos) bool {
	idx := d.Shape.Idx(p)
	if d.void.pixelExisting[idx] || d.void.pixelImpossible[idx] {
		return false
	}
	// Vacuously true when the brush clips to nothing at p: no solid
	// stamp can land there either, so the pixel is required.
	for _, c := range d.Brush.At(p, d.Shape) {
		if !d.solid.touchInvalid[d.Shape.Idx(c)] {
			return false
		}
	}
	return true
}

// takeFreeTouches is step 5: any centre in the neighbourhood whose
// brush footprint is already wholly void-existing-or-required costs
// nothing to place, so it is taken immediately.
func (d *Design) takeFreeTouches(pos grid.Pos) {
	candidates := d.VeryBigBrush.At(pos, d.Shape)
	free := d.scan.filter(candidates, func(p grid.Pos) bool {
		if p == pos {
			return false
		}
		return d.isFreeTouch(p)
	})
	for _, p := range free {
		d.applyCore(p)
	}
}

func (d *Design) isFreeTouch(p grid.Pos) bool {
	for _, c := range d.Brush.At(p, d.Shape) {
		idx := d.Shape.Idx(c)
		if !(d.void.pixelExisting[idx] || d.void.pixelRequired[idx]) {
			return false
		}
	}
	return true
}

// findResolvingTouches is step 6: for every required pixel not yet
// existing, collect every still-valid void touch centre that could
// cover it.
func (d *Design) findResolvingTouches(requiredPixels []grid.Pos) []grid.Pos {
	var resolving []grid.Pos
	for _, p := range requiredPixels {
		if d.void.pixelExisting[d.Shape.Idx(p)] {
			continue
		}
		for _, c := range d.Brush.At(p, d.Shape) {
			if !d.void.touchInvalid[d.Shape.Idx(c)] {
				resolving = append(resolving, c)
			}
		}
	}
	return resolving
}

// Void returns a copy of the void pixel bitmap, row-major.
func (d *Design) Void() []bool { return clone(d.void.painted) }

// Solid returns a copy of the solid pixel bitmap, row-major.
func (d *Design) Solid() []bool { return clone(d.solid.painted) }

// VoidTouchExisting returns a copy of the placed void-touch centres.
func (d *Design) VoidTouchExisting() []bool { return clone(d.void.touchExisting) }

// SolidTouchExisting returns a copy of the placed solid-touch centres.
func (d *Design) SolidTouchExisting() []bool { return clone(d.solid.touchExisting) }

// VoidPixelRequired returns a copy of the void-required plane.
func (d *Design) VoidPixelRequired() []bool { return clone(d.void.pixelRequired) }

// VoidTouchInvalid returns a copy of the void-touch-invalid plane.
func (d *Design) VoidTouchInvalid() []bool { return clone(d.void.touchInvalid) }

// SolidTouchInvalid returns a copy of the solid-touch-invalid plane.
func (d *Design) SolidTouchInvalid() []bool { return clone(d.solid.touchInvalid) }

// AtVoidTouchExisting reports whether a void touch already sits at pos.
func (d *Design) AtVoidTouchExisting(pos grid.Pos) bool {
	return d.void.touchExisting[d.Shape.Idx(pos)]
}

// AtVoidTouchInvalid reports whether placing a void touch at pos would
// violate the min-spacing invariant.
func (d *Design) AtVoidTouchInvalid(pos grid.Pos) bool {
	return d.void.touchInvalid[d.Shape.Idx(pos)]
}

// IsVoidPixelRequired reports whether pos is still flagged required in
// the void polarity - used by the Generator's resolve loop to decide
// when a batch of required pixels has been fully settled.
func (d *Design) IsVoidPixelRequired(pos grid.Pos) bool {
	return d.void.pixelRequired[d.Shape.Idx(pos)]
}

func clone(b []bool) []bool {
	out := make([]bool, len(b))
	copy(out, b)
	return out
}

// InvariantViolation is raised by Validate when one of the Design's
// global invariants does not hold. It is a bug in the engine, not a
// user error.
type InvariantViolation struct {
	Rule string
	Pos  grid.Pos
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("design: invariant %s violated at %v", v.Rule, v.Pos)
}

// Validate checks the Design's global invariants (P1-P6) and returns
// the first violation found, or nil. It walks every pixel and touch
// centre once; callers that only need this for tests or an opt-in
// debug mode should not call it on every mutation of a large grid.
func (d *Design) Validate() error {
	n := d.Shape.Size()
	for idx := 0; idx < n; idx++ {
		p := grid.Pos{I: idx / d.Shape.Cols, J: idx % d.Shape.Cols}

		// P1: void_pixel_existing and solid_pixel_existing are disjoint.
		if d.void.pixelExisting[idx] && d.solid.pixelExisting[idx] {
			return &InvariantViolation{Rule: "P1", Pos: p}
		}
		// invariant 2: existing implies the opposite mirror is impossible.
		if d.void.pixelExisting[idx] && !d.solid.pixelImpossible[idx] {
			return &InvariantViolation{Rule: "P2", Pos: p}
		}
		if d.solid.pixelExisting[idx] && !d.void.pixelImpossible[idx] {
			return &InvariantViolation{Rule: "P2", Pos: p}
		}
		// invariant 3: an existing touch was valid when placed - it can
		// never also be flagged invalid.
		if d.void.touchExisting[idx] && d.void.touchInvalid[idx] {
			return &InvariantViolation{Rule: "P3", Pos: p}
		}
		if d.solid.touchExisting[idx] && d.solid.touchInvalid[idx] {
			return &InvariantViolation{Rule: "P3", Pos: p}
		}
		// invariant 6: no pixel is simultaneously required and existing
		// of the same polarity.
		if d.void.pixelRequired[idx] && d.void.pixelExisting[idx] {
			return &InvariantViolation{Rule: "P6", Pos: p}
		}
		if d.solid.pixelRequired[idx] && d.solid.pixelExisting[idx] {
			return &InvariantViolation{Rule: "P6", Pos: p}
		}
	}

	// P4: solid_touch_invalid == big_brush dilation of the void touch centres.
	if err := d.validateTouchInvalid(); err != nil {
		return err
	}
	// P5: every required pixel's brush footprint is all solid-touch-invalid.
	for idx := 0; idx < n; idx++ {
		if !d.void.pixelRequired[idx] {
			continue
		}
		p := grid.Pos{I: idx / d.Shape.Cols, J: idx % d.Shape.Cols}
		if !d.isRequiredPixel(p) {
			return &InvariantViolation{Rule: "P5", Pos: p}
		}
	}
	return nil
}

// validateTouchInvalid checks P4: solid_touch_invalid is exactly the
// union, over every placed void touch centre, of that centre's
// big-brush footprint (the concrete operation invalidateOpposite
// performs on every placement). It does not check pixelExisting
// directly because the big brush is applied to touch centres, not to
// the painted pixels they cover.
func (d *Design) validateTouchInvalid() error {
	n := d.Shape.Size()
	want := make([]bool, n)
	for idx := 0; idx < n; idx++ {
		if !d.void.touchExisting[idx] {
			continue
		}
		p := grid.Pos{I: idx / d.Shape.Cols, J: idx % d.Shape.Cols}
		for _, c := range d.BigBrush.At(p, d.Shape) {
			want[d.Shape.Idx(c)] = true
		}
	}
	for idx := 0; idx < n; idx++ {
		if want[idx] != d.solid.touchInvalid[idx] {
			return &InvariantViolation{Rule: "P4", Pos: grid.Pos{I: idx / d.Shape.Cols, J: idx % d.Shape.Cols}}
		}
	}
	return nil
}
