package detection

import (
	"image"

	"github.com/anthonynsimon/bild/segment"
)

// Per-pixel states of the contour mask. The mask is a flat slice indexed
// y*width+x relative to the raster origin.
const (
	pixelBackground uint8 = iota // paper not (yet) reached from the border
	pixelInk                     // foreground not yet assigned to a region
	pixelOutside                 // paper connected to the border
	pixelClaimed                 // assigned to a region
)

// maxMaskPixels bounds the raster size so pixel indices fit the int32
// fill stack.
const maxMaskPixels = 1<<31 - 1

// Region is the area enclosed by one external contour.
type Region struct {
	// Bounds is the axis-aligned bounding rectangle, relative to the
	// raster origin (0,0). Max is exclusive.
	Bounds image.Rectangle

	// Area is the number of pixels enclosed by the contour, holes included.
	Area int
}

// foregroundMask applies an inverted fixed binary threshold: pixels whose
// luminance is at or below cutoff (dark ink on a light sheet) are
// foreground. A cutoff of 255 keeps pure white as background.
//
// Every mask entry is pixelInk or pixelBackground.
func foregroundMask(img image.Image, cutoff uint8) ([]uint8, int, int) {
	// Threshold maps pixels >= level to white.
	level := cutoff
	if level < 255 {
		level++
	}
	gray := segment.Threshold(img, level)
	width := gray.Rect.Dx()
	height := gray.Rect.Dy()

	mask := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		out := mask[y*width : (y+1)*width]
		for x, v := range row {
			if v == 0 {
				out[x] = pixelInk
			}
		}
	}
	return mask, width, height
}

// externalRegions extracts the regions enclosed by outermost contours only.
// It consumes mask: on return every entry is pixelOutside or pixelClaimed.
//
// # Algorithm
//
//  1. Outside: flood-fill background pixels reachable from the raster
//     border using 4-connectivity. Background pixels not reached are holes.
//  2. Filled regions: every pixel that is not outside belongs to the
//     interior of some outer contour. Group those pixels with 8-connected
//     flood fill, which is the dual of the 4-connected background fill.
//  3. A shape nested inside another shape's hole joins the enclosing
//     region, so only external contours are reported.
//
// Both fills mark a pixel when it is pushed, so each pixel enters the
// stack at most once and memory stays linear in the raster size.
//
// Regions are returned in raster-scan order of their first pixel
// (top to bottom, left to right), which makes the result stable for a
// given mask.
func externalRegions(mask []uint8, width, height int) []Region {
	stack := markOutside(mask, width, height, nil)

	regions := make([]Region, 0)
	for i, s := range mask {
		if s != pixelBackground && s != pixelInk {
			continue
		}
		var r Region
		r, stack = fillRegion(mask, i, width, height, stack[:0])
		regions = append(regions, r)
	}
	return regions
}

// markOutside flags background pixels connected to the border. It returns
// the stack so its storage can be reused.
func markOutside(mask []uint8, width, height int, stack []int32) []int32 {
	push := func(i int) {
		if mask[i] == pixelBackground {
			mask[i] = pixelOutside
			stack = append(stack, int32(i))
		}
	}

	for x := 0; x < width; x++ {
		push(x)
		push((height-1)*width + x)
	}
	for y := 0; y < height; y++ {
		push(y * width)
		push(y*width + width - 1)
	}

	for len(stack) > 0 {
		i := int(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		if x > 0 {
			push(i - 1)
		}
		if x < width-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - width)
		}
		if y < height-1 {
			push(i + width)
		}
	}
	return stack
}

// fillRegion claims the 8-connected non-outside pixels reachable from
// start and returns the region they cover, plus the stack for reuse.
func fillRegion(mask []uint8, start, width, height int, stack []int32) (Region, []int32) {
	startX, startY := start%width, start/width
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	area := 0

	mask[start] = pixelClaimed
	stack = append(stack, int32(start))

	for len(stack) > 0 {
		i := int(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		area++

		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}

		for ny := y - 1; ny <= y+1; ny++ {
			if ny < 0 || ny >= height {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= width {
					continue
				}
				j := ny*width + nx
				if s := mask[j]; s == pixelBackground || s == pixelInk {
					mask[j] = pixelClaimed
					stack = append(stack, int32(j))
				}
			}
		}
	}

	return Region{
		Bounds: image.Rect(minX, minY, maxX+1, maxY+1),
		Area:   area,
	}, stack
}
