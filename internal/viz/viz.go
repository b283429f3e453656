// Package viz renders a Design for human inspection: an ANSI terminal
// view built on pterm for colour terminal output, and a TGA snapshot
// for anything that needs to survive outside a terminal. TGA files are
// decoded with github.com/ftrvxmtrx/tga and written by SaveTGA's own
// encoder.
package viz

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/pterm/pterm"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/design"
	"github.com/flga/feasible/internal/grid"
)

// statusColor assigns each design.Status an RGB swatch, grounded on
// the Block enum of the original visualization.rs (status -> colour,
// "Unknown" left blank).
var statusColor = map[design.Status]color.RGBA{
	design.Unassigned:      {40, 40, 40, 255},
	design.Painted:         {220, 220, 220, 255},
	design.PixelImpossible: {120, 30, 30, 255},
	design.PixelExisting:   {230, 230, 230, 255},
	design.PixelPossible:   {60, 60, 60, 255},
	design.PixelRequired:   {230, 180, 40, 255},
	design.TouchRequired:   {230, 120, 40, 255},
	design.TouchInvalid:    {140, 30, 140, 255},
	design.TouchExisting:   {40, 160, 230, 255},
	design.TouchValid:      {40, 160, 60, 255},
	design.TouchFree:       {160, 220, 120, 255},
	design.TouchResolving:  {230, 60, 60, 255},
}

var statusStyle = map[design.Status]*pterm.Style{
	design.Unassigned:      pterm.NewStyle(pterm.FgGray),
	design.Painted:         pterm.NewStyle(pterm.FgWhite),
	design.PixelImpossible: pterm.NewStyle(pterm.FgRed),
	design.PixelExisting:   pterm.NewStyle(pterm.FgLightWhite),
	design.PixelPossible:   pterm.NewStyle(pterm.FgDarkGray),
	design.PixelRequired:   pterm.NewStyle(pterm.FgYellow),
	design.TouchRequired:   pterm.NewStyle(pterm.FgLightYellow),
	design.TouchInvalid:    pterm.NewStyle(pterm.FgMagenta),
	design.TouchExisting:   pterm.NewStyle(pterm.FgCyan),
	design.TouchValid:      pterm.NewStyle(pterm.FgGreen),
	design.TouchFree:       pterm.NewStyle(pterm.FgLightGreen),
	design.TouchResolving:  pterm.NewStyle(pterm.FgLightRed),
}

const block = "█"

func glyph(s design.Status) string {
	style, ok := statusStyle[s]
	if !ok {
		return "  "
	}
	return style.Sprint(block + block)
}

// RenderPlane writes a shape-shaped grid of two-character colour
// blocks for statuses, one row per grid row.
func RenderPlane(shape grid.Shape, statuses []design.Status) string {
	var sb strings.Builder
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			sb.WriteString(glyph(statuses[shape.Idx(grid.Pos{I: i, J: j})]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderDesign lays out two panels side by side under a one-line
// header: the pixel status and the touch status of the polarity
// currently addressed as void. Solid-side statuses are not drawn.
func RenderDesign(d *design.Design) string {
	view := d.Snapshot()
	pixelPlane := RenderPlane(d.Shape, view.Pixel)
	touchPlane := RenderPlane(d.Shape, view.Touch)

	pixelRows := strings.Split(strings.TrimRight(pixelPlane, "\n"), "\n")
	touchRows := strings.Split(strings.TrimRight(touchPlane, "\n"), "\n")

	var sb strings.Builder
	sb.WriteString(pterm.NewStyle(pterm.Bold).Sprintln("pixels" + strings.Repeat(" ", 2*d.Shape.Cols-4) + "touches"))
	for i := range pixelRows {
		sb.WriteString(pixelRows[i])
		sb.WriteString("  ")
		if i < len(touchRows) {
			sb.WriteString(touchRows[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Print writes RenderDesign's output to w.
func Print(w io.Writer, d *design.Design) error {
	_, err := fmt.Fprint(w, RenderDesign(d))
	return err
}

// RenderBrush draws a brush's footprint as a block of filled/empty
// cells, useful for sanity-checking a loaded float mask before it
// drives a generator run.
func RenderBrush(b brush.Brush) string {
	mask := b.Mask()
	var sb strings.Builder
	for i := 0; i < b.Shape.Rows; i++ {
		for j := 0; j < b.Shape.Cols; j++ {
			if mask[grid.Index(i, j, b.Shape.Cols)] {
				sb.WriteString(pterm.NewStyle(pterm.FgCyan).Sprint(block + block))
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// SaveTGA writes the design's pixel-status view as an uncompressed
// 24-bit TGA image, one pixel per grid cell, for inspection outside a
// terminal. The tga package only ships a decoder (it decodes brush
// masks authored as images, see LoadBrushTGA below), so the writer
// side is the plain 18-byte-header format by hand - the same format
// LoadBrushTGA and any other TGA viewer can read back.
func SaveTGA(w io.Writer, d *design.Design) error {
	view := d.Snapshot()
	cols, rows := d.Shape.Cols, d.Shape.Rows

	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-colour
	header[12] = byte(cols)
	header[13] = byte(cols >> 8)
	header[14] = byte(rows)
	header[15] = byte(rows >> 8)
	header[16] = 24 // bits per pixel
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("viz: write tga header: %w", err)
	}

	// TGA scanlines run bottom-to-top.
	pixels := make([]byte, cols*3)
	for i := rows - 1; i >= 0; i-- {
		for j := 0; j < cols; j++ {
			idx := d.Shape.Idx(grid.Pos{I: i, J: j})
			c, ok := statusColor[view.Pixel[idx]]
			if !ok {
				c = color.RGBA{0, 0, 0, 255}
			}
			pixels[j*3+0] = c.B
			pixels[j*3+1] = c.G
			pixels[j*3+2] = c.R
		}
		if _, err := w.Write(pixels); err != nil {
			return fmt.Errorf("viz: write tga row: %w", err)
		}
	}
	return nil
}

// LoadBrushTGA decodes a TGA image (for example one painted by hand in
// an external editor) into a boolean brush mask: a pixel counts as set
// when any of its colour channels is above half intensity.
func LoadBrushTGA(r io.Reader) (mask []bool, shape grid.Shape, err error) {
	img, err := tga.Decode(r)
	if err != nil {
		return nil, grid.Shape{}, fmt.Errorf("viz: decode tga: %w", err)
	}
	b := img.Bounds()
	shape = grid.Shape{Rows: b.Dy(), Cols: b.Dx()}
	mask = make([]bool, shape.Size())
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			r16, g16, b16, _ := img.At(b.Min.X+j, b.Min.Y+i).RGBA()
			mask[shape.Idx(grid.Pos{I: i, J: j})] = r16 > 0x7fff || g16 > 0x7fff || b16 > 0x7fff
		}
	}
	return mask, shape, nil
}
