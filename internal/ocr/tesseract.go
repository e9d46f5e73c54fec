package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/ironsheep/symbol-detect/internal/imaging"
)

// ErrOCR is returned when tag text cannot be read.
var ErrOCR = errors.New("ocr error")

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Crop defaults for tag reading. Tags sit on or just inside the outline,
// and Tesseract does poorly on glyphs under ~20 px tall.
const (
	DefaultPad   = 4
	DefaultScale = 2.0
)

// engine recognizes the text in a PNG-encoded image.
type engine interface {
	Recognize(pngData []byte, language string) (string, error)
}

// Reader reads tag text inside detection boxes.
type Reader struct {
	// Language is the Tesseract language code.
	Language string

	// Pad grows each box by this many pixels before cropping.
	Pad int

	// Scale upsamples the crop before recognition.
	Scale float64

	engine engine
}

// NewReader returns a Reader using the system Tesseract installation.
// An empty language selects DefaultLanguage.
func NewReader(language string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{
		Language: language,
		Pad:      DefaultPad,
		Scale:    DefaultScale,
		engine:   tesseractEngine{},
	}
}

// ReadTag returns the text inside box, collapsed to a single line.
//
// box is in img's pixel coordinates. An empty string with a nil error
// means the region holds no readable text. Failures wrap ErrOCR.
func (r *Reader) ReadTag(img image.Image, box image.Rectangle) (string, error) {
	cropped, err := imaging.CropRegion(img, box, r.Pad, r.Scale)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCR, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return "", fmt.Errorf("%w: failed to encode crop: %v", ErrOCR, err)
	}

	text, err := r.engine.Recognize(buf.Bytes(), r.Language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCR, err)
	}
	return CleanTag(text), nil
}

// CleanTag collapses runs of whitespace (including newlines) to single
// spaces and strips characters Tesseract commonly hallucinates from
// symbol outlines at the edges of a crop.
func CleanTag(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.Trim(text, "|_[](){}'\"`~ ")
}
