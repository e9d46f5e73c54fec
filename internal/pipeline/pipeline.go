// Package pipeline runs one diagram through load, detect, annotate and
// package, and writes the annotated raster to disk.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/symbol-detect/internal/detection"
	"github.com/ironsheep/symbol-detect/internal/imaging"
	"github.com/ironsheep/symbol-detect/internal/result"
)

// ErrIO is returned when the annotated image cannot be written.
var ErrIO = errors.New("io error")

// TagReader reads the tag text inside a detection box.
type TagReader interface {
	ReadTag(img image.Image, box image.Rectangle) (string, error)
}

// Pipeline holds the stages of a run. Detector and Packager are required;
// a nil Tags skips tag reading.
type Pipeline struct {
	Detector detection.Detector
	Packager *result.Packager
	Style    imaging.AnnotateStyle
	Tags     TagReader

	// Debug logs per-stage timings and counts.
	Debug bool
}

// Request is the input of one run.
type Request struct {
	ImagePath string

	// OutputPath receives the annotated JPEG. Empty skips the write.
	OutputPath string

	Confidence float64
	IoU        float64
}

// Outcome is the result of a successful run.
type Outcome struct {
	Document *result.Document

	// ProcessedJPEG holds the bytes written to the output path; they are
	// the same bytes encoded in Document.ProcessedImage.
	ProcessedJPEG []byte
	Elapsed       time.Duration
}

// Run executes the pipeline once. Nothing is written when any stage
// fails. Errors wrap imaging.ErrImageRead, detection.ErrDetection,
// imaging.ErrEncoding or ErrIO.
func (p *Pipeline) Run(req Request) (*Outcome, error) {
	start := time.Now()

	if p.Detector == nil || p.Packager == nil {
		return nil, fmt.Errorf("%w: pipeline is not configured", detection.ErrDetection)
	}

	img, err := imaging.Load(req.ImagePath)
	if err != nil {
		return nil, err
	}
	p.debugf("Loaded %s (%dx%d)", req.ImagePath, img.Bounds().Dx(), img.Bounds().Dy())

	dets, err := p.Detector.Detect(img, req.Confidence, req.IoU)
	if err != nil {
		return nil, err
	}
	p.debugf("%s detector found %d symbols", p.Detector.Strategy(), len(dets))

	if p.Tags != nil {
		p.readTags(img, dets)
	}

	annotated := imaging.Annotate(img, dets, p.Style)

	bundle, err := p.Packager.Package(img, annotated, p.Detector.Strategy(), dets)
	if err != nil {
		return nil, err
	}

	if req.OutputPath != "" {
		if err := writeOutput(req.OutputPath, bundle.ProcessedJPEG); err != nil {
			return nil, err
		}
		p.debugf("Wrote %d bytes to %s", len(bundle.ProcessedJPEG), req.OutputPath)
	}

	return &Outcome{
		Document:      bundle.Document,
		ProcessedJPEG: bundle.ProcessedJPEG,
		Elapsed:       time.Since(start),
	}, nil
}

// readTags fills in Text for each detection. A failed read leaves the
// detection untagged.
func (p *Pipeline) readTags(img image.Image, dets []detection.Detection) {
	for i := range dets {
		text, err := p.Tags.ReadTag(img, dets[i].Box)
		if err != nil {
			log.Printf("Tag read failed for %s at %v: %v", dets[i].Class, dets[i].Box, err)
			continue
		}
		dets[i].Text = text
	}
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.Debug {
		log.Printf(format, args...)
	}
}

// writeOutput writes data to path, creating the parent directory.
// The data is always JPEG; other extensions only draw a warning.
func writeOutput(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
	default:
		log.Printf("Warning: %s will contain JPEG data regardless of its extension", path)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create output directory: %v", ErrIO, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write output image: %v", ErrIO, err)
	}
	return nil
}
