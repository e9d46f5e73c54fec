package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBoxColor is the outline color of annotated detections.
const DefaultBoxColor = "#00FF00"

// ParseColor parses a hex color string like "#00FF00" or "#0F0".
func ParseColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// contrastColor picks black or white text for a label drawn on bg, based
// on the background's perceptual lightness.
func contrastColor(bg color.Color) color.Color {
	c, ok := colorful.MakeColor(bg)
	if !ok {
		return color.White
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.Black
	}
	return color.White
}
