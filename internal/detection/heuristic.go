package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Defaults for the heuristic strategy.
const (
	// DefaultThreshold is the luminance cutoff (0-255). Pixels at or below
	// this are treated as ink.
	DefaultThreshold uint8 = 127

	// DefaultMinArea is the smallest enclosed area, in square pixels, kept
	// as a symbol candidate. Smaller regions are noise or antialiasing.
	DefaultMinArea = 100
)

// HeuristicDetector finds symbol candidates by shape alone.
//
// It is a fallback for deployments without trained weights: it identifies
// where dark shapes are, not what they are. Class and confidence come from
// the injected Scorer, which by default is a RandomScorer placeholder.
// Results carry StrategyHeuristic so they are never mistaken for model
// output.
//
// # Algorithm
//
//  1. Flatten any transparency onto a white sheet.
//  2. Grayscale and inverted binary threshold at Threshold.
//  3. Extract external contours only (nested shapes merge into their
//     enclosing contour).
//  4. Drop regions whose enclosed area is below MinArea.
//  5. Take each region's axis-aligned bounding rectangle and score it.
//
// Geometry (steps 1-5 up to scoring) is deterministic; only class and
// confidence depend on the Scorer.
type HeuristicDetector struct {
	// Threshold is the luminance cutoff. Zero means DefaultThreshold.
	Threshold uint8

	// MinArea is the minimum enclosed area. Zero means DefaultMinArea.
	MinArea int

	// Scorer assigns class and confidence to each region. Required.
	Scorer Scorer
}

// NewHeuristicDetector returns a detector with default threshold and area
// filter that scores regions with scorer.
func NewHeuristicDetector(scorer Scorer) *HeuristicDetector {
	return &HeuristicDetector{
		Threshold: DefaultThreshold,
		MinArea:   DefaultMinArea,
		Scorer:    scorer,
	}
}

// Strategy implements Detector.
func (d *HeuristicDetector) Strategy() string {
	return StrategyHeuristic
}

// Regions returns the bounding rectangles of the external contours that
// pass the area filter, in discovery order and raster coordinates. It is
// the geometry half of Detect.
func (d *HeuristicDetector) Regions(img image.Image) ([]image.Rectangle, error) {
	if err := checkRaster(img); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width*height > maxMaskPixels {
		return nil, fmt.Errorf("%w: raster %dx%d is too large for contour extraction",
			ErrDetection, width, height)
	}

	threshold := d.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	minArea := d.MinArea
	if minArea <= 0 {
		minArea = DefaultMinArea
	}

	sheet := img
	if o, ok := img.(interface{ Opaque() bool }); !ok || !o.Opaque() {
		sheet = imaging.Overlay(imaging.New(width, height, color.White), img, image.Pt(0, 0), 1.0)
	}

	fg, maskW, maskH := foregroundMask(sheet, threshold)
	if maskW != width || maskH != height {
		return nil, fmt.Errorf("%w: grayscale conversion produced %dx%d for a %dx%d raster",
			ErrDetection, maskW, maskH, width, height)
	}

	rects := make([]image.Rectangle, 0)
	for _, r := range externalRegions(fg, width, height) {
		if r.Area < minArea {
			continue
		}
		rects = append(rects, r.Bounds.Add(bounds.Min))
	}
	return rects, nil
}

// Detect implements Detector. iouThreshold is accepted for contract parity;
// external contours never share pixels so nothing is suppressed.
func (d *HeuristicDetector) Detect(img image.Image, confThreshold, iouThreshold float64) ([]Detection, error) {
	if d.Scorer == nil {
		return nil, fmt.Errorf("%w: heuristic detector has no scorer", ErrDetection)
	}

	rects, err := d.Regions(img)
	if err != nil {
		return nil, err
	}

	detections := make([]Detection, 0, len(rects))
	for _, rect := range rects {
		class, confidence := d.Scorer.Score(rect, confThreshold)
		detections = append(detections, Detection{
			Class:      class,
			Confidence: confidence,
			Box:        rect,
		})
	}
	return detections, nil
}
