package detection

import (
	"fmt"
	"image"
	"os"
	"sync"
)

// DefaultModelInputSize is the square input resolution of YOLOv8 exports.
const DefaultModelInputSize = 640

// Prediction is one box emitted by a model after its own non-max
// suppression, in raster pixel coordinates.
type Prediction struct {
	Box        image.Rectangle
	ClassID    int
	Confidence float64
}

// Model is a loaded object-detection network.
//
// Predict must drop boxes below confThreshold and suppress same-class boxes
// whose IoU exceeds iouThreshold. Labels is the model's own label table,
// indexed by Prediction.ClassID.
type Model interface {
	Predict(img image.Image, confThreshold, iouThreshold float64) ([]Prediction, error)
	Labels() []string
	Close() error
}

// ModelOpener loads a Model. It is called at most once per ModelHandle.
type ModelOpener func() (Model, error)

// ModelHandle is a lazily initialized, immutable reference to a loaded
// model. The first call to Model loads it; later calls return the same
// model or the same error. Acquire one per process and pass it to every
// ModelDetector that needs it.
type ModelHandle struct {
	open ModelOpener

	once  sync.Once
	model Model
	err   error

	closeOnce sync.Once
	closeErr  error
}

// NewModelHandle returns a handle that loads its model with open on first use.
func NewModelHandle(open ModelOpener) *ModelHandle {
	return &ModelHandle{open: open}
}

// Model returns the loaded model, loading it on the first call.
func (h *ModelHandle) Model() (Model, error) {
	h.once.Do(func() {
		if h.open == nil {
			h.err = fmt.Errorf("%w: no model configured", ErrDetection)
			return
		}
		h.model, h.err = h.open()
	})
	return h.model, h.err
}

// Close releases the model if it was loaded. A handle closed before first
// use never loads; its Model reports ErrDetection. Close waits for a load
// in progress and is safe to call more than once.
func (h *ModelHandle) Close() error {
	h.once.Do(func() {
		h.err = fmt.Errorf("%w: model handle closed", ErrDetection)
	})
	h.closeOnce.Do(func() {
		if h.model != nil {
			h.closeErr = h.model.Close()
		}
	})
	return h.closeErr
}

// OpenONNX returns an opener for an ONNX YOLOv8 export. weightsPath must
// exist; labelsPath may be empty to use the fixed symbol vocabulary.
//
// The network is run through OpenCV's DNN module, which is only compiled in
// with the gocv build tag. Without it the opener fails with ErrDetection.
func OpenONNX(weightsPath, labelsPath string) ModelOpener {
	return func() (Model, error) {
		if weightsPath == "" {
			return nil, fmt.Errorf("%w: no model weights configured", ErrDetection)
		}
		if _, err := os.Stat(weightsPath); err != nil {
			return nil, fmt.Errorf("%w: model weights unavailable: %v", ErrDetection, err)
		}

		labels, err := LoadLabels(labelsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDetection, err)
		}

		return openONNXNet(weightsPath, labels, DefaultModelInputSize)
	}
}

// ModelDetector runs a pretrained detection model.
type ModelDetector struct {
	handle *ModelHandle
}

// NewModelDetector returns a detector backed by the model behind handle.
func NewModelDetector(handle *ModelHandle) *ModelDetector {
	return &ModelDetector{handle: handle}
}

// Strategy implements Detector.
func (d *ModelDetector) Strategy() string {
	return StrategyModel
}

// Detect implements Detector.
//
// Overlap suppression is delegated to the model; the detector only
// re-applies the confidence floor, clips boxes to the raster and resolves
// class indices through the model's label table.
func (d *ModelDetector) Detect(img image.Image, confThreshold, iouThreshold float64) ([]Detection, error) {
	if err := checkRaster(img); err != nil {
		return nil, err
	}
	if d.handle == nil {
		return nil, fmt.Errorf("%w: no model configured", ErrDetection)
	}

	model, err := d.handle.Model()
	if err != nil {
		return nil, err
	}

	predictions, err := model.Predict(img, confThreshold, iouThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: inference failed: %v", ErrDetection, err)
	}

	bounds := img.Bounds()
	labels := model.Labels()
	detections := make([]Detection, 0, len(predictions))
	for _, p := range predictions {
		if p.Confidence < confThreshold {
			continue
		}
		box := p.Box.Canon().Intersect(bounds)
		if box.Empty() {
			continue
		}
		confidence := p.Confidence
		if confidence > 1 {
			confidence = 1
		}
		detections = append(detections, Detection{
			Class:      labelFor(labels, p.ClassID),
			Confidence: confidence,
			Box:        box,
		})
	}
	return detections, nil
}
