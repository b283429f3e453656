package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/design"
	"github.com/flga/feasible/internal/generator"
	"github.com/flga/feasible/internal/grid"
	"github.com/flga/feasible/internal/latentio"
	"github.com/flga/feasible/internal/profile"
	"github.com/flga/feasible/internal/viz"
)

func run(latentPath, brushPath, outDir, tgaPath string, notch int, verbose, parallel, showProfile bool, cpuprof, memprof string) error {
	logger := log.New(os.Stderr, "feasible: ", 0)

	if cpuprof != "" {
		stop, err := profile.CPUProfile(cpuprof)
		if err != nil {
			return err
		}
		defer stop()
	}
	if memprof != "" {
		defer func() {
			if err := profile.WriteHeapProfile(memprof); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}()
	}

	latentT, seed, shape, err := latentio.LoadFile(latentPath)
	if err != nil {
		return err
	}
	logger.Printf("loaded %s: seed=%d shape=%dx%d", latentPath, seed, shape.Rows, shape.Cols)

	var b brush.Brush
	if brushPath != "" {
		brushShape := inferMaskShape(brushPath, shape)
		mask, err := latentio.LoadFloatMaskFile(brushPath, brushShape)
		if err != nil {
			return err
		}
		b = brush.FromFloatMask(brushShape, mask)
	} else {
		b = brush.NotchedSquare(5, notch)
	}

	var opts []generator.Option
	if parallel {
		opts = append(opts, generator.WithParallelScan())
	}

	gen, err := generator.New(shape, b, latentT, opts...)
	if err != nil {
		return err
	}
	gen.Verbose = verbose

	d, placements, err := gen.Run()
	if err != nil {
		return err
	}
	logger.Printf("done: %d placements", placements)

	if err := d.Validate(); err != nil {
		if iv, ok := err.(*design.InvariantViolation); ok {
			return fmt.Errorf("feasible: invariant violation: %s", iv)
		}
		return err
	}

	if outDir != "" {
		if _, err := latentio.SaveFile(outDir, seed, shape, boolsToFloats(d.Void())); err != nil {
			return err
		}
	}

	if tgaPath != "" {
		f, err := os.Create(tgaPath)
		if err != nil {
			return fmt.Errorf("could not create tga output: %s", err)
		}
		defer f.Close()
		if err := viz.SaveTGA(f, d); err != nil {
			return err
		}
	}

	if verbose {
		fmt.Fprint(os.Stdout, viz.RenderDesign(d))
	}

	if showProfile {
		profile.PrintSummary(os.Stderr)
	}

	return nil
}

func inferMaskShape(path string, fallback grid.Shape) grid.Shape {
	if _, shape, err := latentio.ParseLatentFilename(path); err == nil {
		return shape
	}
	return fallback
}

func boolsToFloats(b []bool) []float32 {
	out := make([]float32, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}

func main() {
	latentPath := flag.String("latent", "", "path to the latent_t_<seed>_<M>x<N>.bin field (required)")
	brushPath := flag.String("brush", "", "path to a brush float mask; defaults to a notched 5x5 square")
	notch := flag.Int("notch", 1, "corner notch size for the default brush")
	outDir := flag.String("out", "", "directory to write the resulting void field into")
	tgaPath := flag.String("tga", "", "path to write a TGA snapshot of the resulting design")
	verbose := flag.Bool("v", false, "print per-placement progress and a terminal render")
	parallel := flag.Bool("parallel", false, "use the fork-join scanner for required-pixel/free-touch scans")
	showProfile := flag.Bool("profile", false, "print a phase-duration summary to stderr when done")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")

	flag.Parse()

	if *latentPath == "" {
		fmt.Fprintln(os.Stderr, "feasible: -latent is required")
		os.Exit(2)
	}

	if err := run(*latentPath, *brushPath, *outDir, *tgaPath, *notch, *verbose, *parallel, *showProfile, *cpuprofile, *memprofile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
