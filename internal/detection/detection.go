package detection

import (
	"errors"
	"fmt"
	"image"
)

// ErrDetection is returned when a detector cannot produce a result for a
// raster: the raster is empty, or the strategy's prerequisites (model
// weights, a usable grayscale conversion) are not available.
//
// Finding nothing is not an error; detectors return an empty slice.
var ErrDetection = errors.New("detection error")

// Strategy names reported in the result document.
const (
	StrategyHeuristic = "heuristic"
	StrategyModel     = "model"
)

// Detection is a labeled region in pixel coordinates.
//
// Box follows the image.Rectangle convention: Min is inclusive, Max is
// exclusive, so Box.Dx() and Box.Dy() are the width and height and are
// never negative.
type Detection struct {
	// Class is the human-readable symbol name.
	Class string

	// Confidence is the score in [0, 1]. For the heuristic strategy this is
	// a placeholder value, not a classifier output.
	Confidence float64

	// Box is the axis-aligned bounding rectangle in raster coordinates.
	Box image.Rectangle

	// Text is the tag text read inside Box, when tag OCR is enabled.
	Text string
}

// Detector locates symbols in a raster.
//
// Implementations return detections in discovery order. Every returned
// detection has a confidence of at least confThreshold. iouThreshold
// parameterizes overlap suppression for strategies that perform it.
type Detector interface {
	Detect(img image.Image, confThreshold, iouThreshold float64) ([]Detection, error)

	// Strategy reports StrategyHeuristic or StrategyModel.
	Strategy() string
}

// checkRaster rejects rasters with no pixels.
func checkRaster(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no raster", ErrDetection)
	}
	if img.Bounds().Empty() {
		return fmt.Errorf("%w: empty raster", ErrDetection)
	}
	return nil
}
