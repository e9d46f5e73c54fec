package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion extracts r from img, grown by pad pixels on every side and
// clipped to the image, then scaled by scale using Lanczos resampling.
//
// r is in img's pixel coordinates. The result has bounds (0,0)-(w,h).
// A scale of 1, or one that is not positive, leaves the size unchanged.
func CropRegion(img image.Image, r image.Rectangle, pad int, scale float64) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if pad > 0 {
		r = r.Inset(-pad)
	}
	r = r.Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}

	cropped := imaging.Crop(img, r)

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.2f collapses crop region %v", scale, r)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return cropped, nil
}
