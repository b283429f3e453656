// Package generator runs the void/solid placement loop that turns a
// signed latent field into a feasible Design: two priority queues,
// sorted once, consumed by popping whichever tail currently expresses
// the stronger polarity preference.
package generator

import (
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/design"
	"github.com/flga/feasible/internal/grid"
	"github.com/flga/feasible/internal/profile"
	"github.com/flga/feasible/internal/rate"
)

// Polarity identifies which side of a Design a placement commits to.
type Polarity int

const (
	Void Polarity = iota
	Solid
)

func (p Polarity) String() string {
	if p == Solid {
		return "solid"
	}
	return "void"
}

type entry struct {
	pos grid.Pos
	key float32
}

// Generator owns a Design and the two position queues derived from a
// signed latent field, and drives AddVoidTouch/AddSolidTouch placements
// until both queues are exhausted or no further progress is possible.
type Generator struct {
	Shape   grid.Shape
	Brush   brush.Brush
	LatentT []float32
	Verbose bool

	design *design.Design
	logger *log.Logger
	rate   *rate.Meter

	voidQueue  []entry
	solidQueue []entry

	prev    [2]grid.Pos
	prevSet [2]bool

	useParallel bool
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithParallelScan propagates design.WithParallelScan to the underlying
// Design - useful once the grid is large enough for the fork-join scans
// to pay for their own overhead.
func WithParallelScan() Option {
	return func(g *Generator) { g.useParallel = true }
}

// New validates the latent field against shape and builds both priority
// queues once, ascending by the signed key each polarity cares about.
func New(shape grid.Shape, b brush.Brush, latentT []float32, opts ...Option) (*Generator, error) {
	if len(latentT) != shape.Size() {
		return nil, fmt.Errorf("generator: latent field has %d entries, want %d", len(latentT), shape.Size())
	}
	for idx, v := range latentT {
		if math.IsNaN(float64(v)) {
			return nil, fmt.Errorf("generator: latent field contains NaN at index %d", idx)
		}
	}

	g := &Generator{
		Shape:   shape,
		Brush:   b,
		LatentT: latentT,
		logger:  log.New(os.Stderr, "generator: ", 0),
		rate:    rate.New(100),
	}
	for _, opt := range opts {
		opt(g)
	}

	var designOpts []design.Option
	if g.useParallel {
		designOpts = append(designOpts, design.WithParallelScan())
	}
	g.design = design.New(shape, b, designOpts...)
	g.voidQueue = buildQueue(shape, latentT, -1)
	g.solidQueue = buildQueue(shape, latentT, 1)
	return g, nil
}

func buildQueue(shape grid.Shape, latentT []float32, sign float32) []entry {
	n := shape.Size()
	q := make([]entry, n)
	for idx := 0; idx < n; idx++ {
		q[idx] = entry{
			pos: grid.Pos{I: idx / shape.Cols, J: idx % shape.Cols},
			key: sign * latentT[idx],
		}
	}
	sort.Slice(q, func(i, j int) bool { return q[i].key < q[j].key })
	return q
}

func popTail(q *[]entry) (entry, bool) {
	if len(*q) == 0 {
		return entry{}, false
	}
	e := (*q)[len(*q)-1]
	*q = (*q)[:len(*q)-1]
	return e, true
}

func pushTail(q *[]entry, e entry) {
	*q = append(*q, e)
}

// Design returns the Design under construction. The returned pointer
// is live, not a copy; Run mutates it without synchronisation.
func (g *Generator) Design() *design.Design {
	return g.design
}

// Run drains both queues, placing touches until neither queue has a
// usable candidate left or a fixed point is detected. It returns the
// finished Design and the number of placements actually made.
func (g *Generator) Run() (*design.Design, int, error) {
	t := profile.Start("generator.Run")
	defer t.Stop()

	placements := 0

	for {
		ve, vOK := popTail(&g.voidQueue)
		se, sOK := popTail(&g.solidQueue)

		if !vOK && !sOK {
			break
		}
		if !vOK {
			// void queue drained: borrow the solid candidate's position,
			// but re-key it under the void convention (-latent), not the
			// solid one - the two queues disagree in sign, not position.
			ve = entry{pos: se.pos, key: -g.LatentT[g.Shape.Idx(se.pos)]}
		}
		if !sOK {
			se = entry{pos: ve.pos, key: g.LatentT[g.Shape.Idx(ve.pos)]}
		}

		v, s := ve.key, se.key

		var polarity Polarity
		var chosen entry
		if s > v {
			polarity = Solid
			chosen = se
			if vOK {
				pushTail(&g.voidQueue, ve)
			}
		} else {
			polarity = Void
			chosen = ve
			if sOK {
				pushTail(&g.solidQueue, se)
			}
		}

		if g.prevSet[0] && g.prevSet[1] && g.prev[0] == chosen.pos && g.prev[1] == chosen.pos {
			g.trace("fixed point at (%d, %d), stopping", chosen.pos.I, chosen.pos.J)
			break
		}
		g.prev[0], g.prev[1] = g.prev[1], chosen.pos
		g.prevSet[0], g.prevSet[1] = g.prevSet[1], true

		inverted := polarity == Solid
		if inverted {
			g.design.Invert()
		}

		if g.design.AtVoidTouchInvalid(chosen.pos) || g.design.AtVoidTouchExisting(chosen.pos) {
			if inverted {
				g.design.Invert()
			}
			continue
		}

		placementStart := time.Now()
		requiredPixels, resolvingTouches := g.design.AddVoidTouch(chosen.pos)
		g.trace("touch %s (%d, %d): %d required, %d resolving candidates",
			polarity, chosen.pos.I, chosen.pos.J, len(requiredPixels), len(resolvingTouches))
		placements++

		resolved := g.resolve(requiredPixels, resolvingTouches, polarity)
		placements += resolved
		g.rate.Record(time.Since(placementStart))

		if inverted {
			g.design.Invert()
		}

		if g.Verbose && placements%500 == 0 {
			g.trace("throughput: %.0f placements/s", g.rate.PerSecond())
		}
	}

	g.trace("done: %d placements", placements)
	return g.design, placements, nil
}

// resolve repeatedly sorts the remaining resolving touches by the
// current void-frame preference and commits the strongest one, until
// every pixel in requiredPixels is no longer flagged required or no
// usable touch remains. It returns the number of additional placements
// made. The polarity argument only affects how resolving touches are
// ranked: solid placements rank ascending by +latent, void placements
// by -latent, matching each queue's own convention.
func (g *Generator) resolve(requiredPixels, resolvingTouches []grid.Pos, polarity Polarity) int {
	t := profile.Start("generator.resolve")
	defer t.Stop()

	placements := 0

	for {
		stillRequired := false
		for _, p := range requiredPixels {
			if g.design.IsVoidPixelRequired(p) {
				stillRequired = true
				break
			}
		}
		if !stillRequired {
			return placements
		}

		sortResolvingTouches(resolvingTouches, g.LatentT, g.Shape, polarity)

		var pos grid.Pos
		found := false
		for len(resolvingTouches) > 0 {
			pos = resolvingTouches[len(resolvingTouches)-1]
			resolvingTouches = resolvingTouches[:len(resolvingTouches)-1]
			if g.design.AtVoidTouchInvalid(pos) || g.design.AtVoidTouchExisting(pos) {
				continue
			}
			found = true
			break
		}
		if !found {
			return placements
		}

		newRequired, newResolving := g.design.AddVoidTouch(pos)
		g.trace("resolve %s (%d, %d): %d required, %d resolving candidates",
			polarity, pos.I, pos.J, len(newRequired), len(newResolving))
		placements++
		requiredPixels = newRequired
		resolvingTouches = newResolving
	}
}

// sortResolvingTouches orders touches ascending by the signed key the
// acting polarity prefers, so popping the tail yields the strongest
// remaining candidate - the void queue's own convention when acting as
// void, and its mirror when acting as solid under a temporary Invert.
func sortResolvingTouches(touches []grid.Pos, latentT []float32, shape grid.Shape, polarity Polarity) {
	key := func(p grid.Pos) float32 {
		v := latentT[shape.Idx(p)]
		if polarity == Solid {
			return v
		}
		return -v
	}
	sort.SliceStable(touches, func(i, j int) bool { return key(touches[i]) < key(touches[j]) })
}

func (g *Generator) trace(format string, args ...interface{}) {
	if !g.Verbose {
		return
	}
	g.logger.Printf(format, args...)
}
