package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/symbol-detect/internal/detection"
)

// AnnotateStyle controls how detections are drawn.
type AnnotateStyle struct {
	// BoxColor is the outline and label background color.
	BoxColor color.RGBA

	// Thickness is the outline width in pixels, drawn inward from the box
	// edge. Values below 1 are treated as 1.
	Thickness int

	// LabelGap is the distance in pixels between the label baseline and
	// the top edge of the box.
	LabelGap int
}

// DefaultAnnotateStyle returns a 2 px green outline with the label
// baseline 5 px above the box.
func DefaultAnnotateStyle() AnnotateStyle {
	c, _ := ParseColor(DefaultBoxColor)
	return AnnotateStyle{
		BoxColor:  c,
		Thickness: 2,
		LabelGap:  5,
	}
}

// LabelText formats the label drawn above a detection: the class name and
// the confidence with two decimals.
func LabelText(d detection.Detection) string {
	return fmt.Sprintf("%s %.2f", d.Class, d.Confidence)
}

// Annotate returns a copy of img with each detection's bounding box and
// label drawn on it.
//
// Parameters:
//   - img: The pre-detection raster. It is never modified.
//   - detections: Boxes in img's pixel coordinates.
//   - style: Outline color, thickness and label placement.
//
// Returns a newly allocated *image.NRGBA with bounds (0,0)-(w,h).
//
// # Rendering
//
// The outline is drawn inside the box. The label sits on a filled strip in
// the box color, left-aligned with the box, baseline LabelGap pixels above
// the top edge, in black or white depending on the strip's lightness.
// Anything that falls outside the image, such as the label of a box that
// touches the top edge, is clipped by the draw operations.
func Annotate(img image.Image, detections []detection.Detection, style AnnotateStyle) *image.NRGBA {
	out := imaging.Clone(img)
	offset := img.Bounds().Min

	thickness := style.Thickness
	if thickness < 1 {
		thickness = 1
	}
	fill := image.NewUniform(style.BoxColor)
	text := image.NewUniform(contrastColor(style.BoxColor))

	for _, d := range detections {
		box := d.Box.Sub(offset)
		drawOutline(out, box, fill, thickness)
		drawLabel(out, box.Min.X, box.Min.Y-style.LabelGap, LabelText(d), fill, text)
	}

	return out
}

// drawOutline paints the four edges of r, each thickness pixels wide,
// inside r.
func drawOutline(dst draw.Image, r image.Rectangle, src image.Image, thickness int) {
	if r.Empty() {
		return
	}
	t := thickness
	if t > r.Dx() {
		t = r.Dx()
	}
	if t > r.Dy() {
		t = r.Dy()
	}

	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), // top
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), // left
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawLabel renders text with its baseline at (x, baseline) on a filled
// background strip.
func drawLabel(dst draw.Image, x, baseline int, label string, bg, fg image.Image) {
	face := basicfont.Face7x13
	metrics := face.Metrics()

	d := &font.Drawer{
		Dst:  dst,
		Src:  fg,
		Face: face,
		Dot:  fixed.P(x, baseline),
	}

	width := d.MeasureString(label).Ceil()
	strip := image.Rect(x, baseline-metrics.Ascent.Ceil(), x+width+2, baseline+metrics.Descent.Ceil())
	draw.Draw(dst, strip.Intersect(dst.Bounds()), bg, image.Point{}, draw.Src)

	d.Dot = fixed.P(x+1, baseline)
	d.DrawString(label)
}
