package pipeline

import (
	"fmt"

	"github.com/ironsheep/symbol-detect/internal/config"
	"github.com/ironsheep/symbol-detect/internal/detection"
	"github.com/ironsheep/symbol-detect/internal/imaging"
	"github.com/ironsheep/symbol-detect/internal/ocr"
	"github.com/ironsheep/symbol-detect/internal/result"
)

// New assembles a pipeline from cfg, which must already be validated.
//
// handle is the process-wide model handle for the model strategy; when nil
// and cfg resolves to the model strategy, a handle for cfg.ModelPath is
// created. The model itself is not loaded until the first run.
func New(cfg *config.Config, handle *detection.ModelHandle) (*Pipeline, error) {
	color, err := imaging.ParseColor(cfg.BoxColor)
	if err != nil {
		return nil, err
	}
	style := imaging.DefaultAnnotateStyle()
	style.BoxColor = color

	var detector detection.Detector
	switch cfg.ResolvedStrategy() {
	case config.StrategyModel:
		if handle == nil {
			handle = detection.NewModelHandle(detection.OpenONNX(cfg.ModelPath, cfg.LabelsPath))
		}
		detector = detection.NewModelDetector(handle)
	default:
		labels, err := detection.LoadLabels(cfg.LabelsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", detection.ErrDetection, err)
		}
		h := detection.NewHeuristicDetector(detection.NewRandomScorer(cfg.Seed, labels))
		h.Threshold = uint8(cfg.Threshold)
		h.MinArea = cfg.MinArea
		detector = h
	}

	packager := result.NewPackager()
	packager.Quality = cfg.Quality
	packager.DataURI = cfg.DataURI
	packager.Clamp = cfg.Clamp

	p := &Pipeline{
		Detector: detector,
		Packager: packager,
		Style:    style,
		Debug:    cfg.Debug,
	}
	if cfg.OCR {
		p.Tags = ocr.NewReader(cfg.OCRLanguage)
	}
	return p, nil
}
