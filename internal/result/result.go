package result

import (
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/ironsheep/symbol-detect/internal/detection"
	"github.com/ironsheep/symbol-detect/internal/imaging"
)

// BBox is a bounding box in normalized [0,1] coordinates.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Detection is one labeled region in the result document.
type Detection struct {
	ID         string  `json:"id"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`

	// Text is the tag text read inside the box, when tag OCR ran and
	// found any.
	Text string `json:"text,omitempty"`
}

// Document is the result of one pipeline run. It is built once and not
// modified afterwards.
type Document struct {
	ID             string      `json:"id"`
	OriginalImage  string      `json:"originalImage"`
	ProcessedImage string      `json:"processedImage"`
	Detections     []Detection `json:"detections"`

	// Strategy names the detector that produced Detections, so
	// placeholder heuristic output is never mistaken for model output.
	Strategy string `json:"strategy"`
}

// Bundle is a Document together with the exact JPEG bytes behind its
// processedImage field, so the same bytes can be written to disk.
type Bundle struct {
	Document      *Document
	ProcessedJPEG []byte
}

// Packager builds result documents.
type Packager struct {
	// Quality is the JPEG quality for both images.
	Quality int

	// DataURI prefixes the image fields with a data URI scheme marker.
	DataURI bool

	// Clamp clips boxes to the raster before normalizing.
	Clamp bool

	// NewID returns the run id. Defaults to a random UUID.
	NewID func() string
}

// NewPackager returns a Packager with default JPEG quality, clamping
// enabled, plain base64 and UUID run ids.
func NewPackager() *Packager {
	return &Packager{
		Quality: imaging.DefaultJPEGQuality,
		Clamp:   true,
		NewID:   newRunID,
	}
}

func newRunID() string {
	return uuid.New().String()
}

// Package builds the document for one run.
//
// original is the loaded raster and annotated the Annotate output; both
// must have the same size. detections are in original's pixel
// coordinates, in discovery order; the i-th detection gets the id
// "<run id>_<i>". Encoding failures wrap imaging.ErrEncoding.
func (p *Packager) Package(original, annotated image.Image, strategy string, detections []detection.Detection) (*Bundle, error) {
	origJPEG, err := imaging.EncodeJPEG(original, p.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original image: %w", err)
	}
	procJPEG, err := imaging.EncodeJPEG(annotated, p.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}

	newID := p.NewID
	if newID == nil {
		newID = newRunID
	}
	runID := newID()

	bounds := original.Bounds()
	out := make([]Detection, 0, len(detections))
	for i, d := range detections {
		out = append(out, Detection{
			ID:         fmt.Sprintf("%s_%d", runID, i),
			Class:      d.Class,
			Confidence: d.Confidence,
			BBox:       Normalize(d.Box, bounds, p.Clamp),
			Text:       d.Text,
		})
	}

	return &Bundle{
		Document: &Document{
			ID:             runID,
			OriginalImage:  imaging.EncodeBase64(origJPEG, imaging.MimeJPEG, p.DataURI),
			ProcessedImage: imaging.EncodeBase64(procJPEG, imaging.MimeJPEG, p.DataURI),
			Detections:     out,
			Strategy:       strategy,
		},
		ProcessedJPEG: procJPEG,
	}, nil
}

// Normalize converts a pixel box to fractions of bounds' width and height.
//
// With clamp set, each edge is first clipped into bounds, so the result
// satisfies 0 <= x, y and x+width, y+height <= 1. Without it, a box that
// extends past the raster yields values outside [0,1].
func Normalize(box, bounds image.Rectangle, clamp bool) BBox {
	box = box.Canon()
	if clamp {
		x0 := clampInt(box.Min.X, bounds.Min.X, bounds.Max.X)
		y0 := clampInt(box.Min.Y, bounds.Min.Y, bounds.Max.Y)
		x1 := clampInt(box.Max.X, x0, bounds.Max.X)
		y1 := clampInt(box.Max.Y, y0, bounds.Max.Y)
		box = image.Rect(x0, y0, x1, y1)
	}

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	if w == 0 || h == 0 {
		return BBox{}
	}

	return BBox{
		X:      float64(box.Min.X-bounds.Min.X) / w,
		Y:      float64(box.Min.Y-bounds.Min.Y) / h,
		Width:  float64(box.Dx()) / w,
		Height: float64(box.Dy()) / h,
	}
}

// clampInt constrains an integer value to the range [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
