package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrImageRead is returned when an input image does not exist, cannot be
// read, is not a decodable image, or decodes to a raster with no pixels.
var ErrImageRead = errors.New("image read error")

// Load reads and decodes the image at path.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG,
//     JPEG, GIF (first frame), BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded raster. The concrete type depends on the
//     format and color model (e.g., *image.RGBA, *image.NRGBA, *image.YCbCr).
//   - error: Wraps ErrImageRead on any failure.
//
// Load never returns a zero-sized raster: an image that decodes to empty
// bounds is reported as an error.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %v", ErrImageRead, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image %s: %v", ErrImageRead, path, err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s image %s has no pixels", ErrImageRead, format, path)
	}

	return img, nil
}
