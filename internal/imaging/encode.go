package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEncoding is returned when a raster cannot be serialized.
var ErrEncoding = errors.New("encoding error")

// DefaultJPEGQuality is the JPEG quality used for result images.
const DefaultJPEGQuality = 95

// MimeJPEG is the media type of every encoded result image.
const MimeJPEG = "image/jpeg"

// EncodeJPEG encodes img as JPEG in memory.
//
// quality is clamped by the encoder to 1-100; zero or less selects
// DefaultJPEGQuality. Any failure wraps ErrEncoding.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: cannot encode an empty raster", ErrEncoding)
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: failed to encode JPEG: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 returns data as standard base64, optionally prefixed with a
// data URI scheme marker ("data:<mimeType>;base64,") so browsers can
// display it inline.
func EncodeBase64(data []byte, mimeType string, dataURI bool) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if !dataURI {
		return encoded
	}
	return "data:" + mimeType + ";base64," + encoded
}
