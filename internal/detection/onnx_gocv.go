//go:build gocv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// onnxModel runs a YOLOv8 ONNX export through OpenCV DNN.
//
// The export's single output has shape [1, 4+classes, anchors]: rows 0-3
// are cx, cy, w, h in input-tensor pixels and the remaining rows are
// per-class scores.
type onnxModel struct {
	net       gocv.Net
	labels    []string
	inputSize int
}

func openONNXNet(weightsPath string, labels []string, inputSize int) (Model, error) {
	net := gocv.ReadNetFromONNX(weightsPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to load ONNX model %s", ErrDetection, weightsPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: failed to select DNN backend: %v", ErrDetection, err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: failed to select DNN target: %v", ErrDetection, err)
	}

	return &onnxModel{
		net:       net,
		labels:    labels,
		inputSize: inputSize,
	}, nil
}

func (m *onnxModel) Labels() []string {
	return m.labels
}

func (m *onnxModel) Close() error {
	return m.net.Close()
}

func (m *onnxModel) Predict(img image.Image, confThreshold, iouThreshold float64) ([]Prediction, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	// Mat channels are BGR; the network was trained on RGB.
	blob := gocv.BlobFromImage(src, 1.0/255.0, image.Pt(m.inputSize, m.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	m.net.SetInput(blob, "")
	out := m.net.Forward("")
	defer out.Close()

	dims := out.Size()
	if len(dims) != 3 || dims[1] <= 4 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, anchors := dims[1], dims[2]
	classes := rows - 4

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output tensor: %w", err)
	}

	bounds := img.Bounds()
	xFactor := float64(bounds.Dx()) / float64(m.inputSize)
	yFactor := float64(bounds.Dy()) / float64(m.inputSize)

	boxes := make([]image.Rectangle, 0)
	shifted := make([]image.Rectangle, 0)
	scores := make([]float32, 0)
	classIDs := make([]int, 0)

	// Offsetting each class into its own coordinate band makes a single
	// NMS pass suppress same-class overlaps only.
	band := 2 * max(bounds.Dx(), bounds.Dy())

	for i := 0; i < anchors; i++ {
		bestClass := -1
		var bestScore float32
		for c := 0; c < classes; c++ {
			score := data[(4+c)*anchors+i]
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}
		if bestClass < 0 || float64(bestScore) < confThreshold {
			continue
		}

		cx := float64(data[0*anchors+i])
		cy := float64(data[1*anchors+i])
		w := float64(data[2*anchors+i])
		h := float64(data[3*anchors+i])

		left := int((cx-w/2)*xFactor) + bounds.Min.X
		top := int((cy-h/2)*yFactor) + bounds.Min.Y
		right := int((cx+w/2)*xFactor) + bounds.Min.X
		bottom := int((cy+h/2)*yFactor) + bounds.Min.Y

		box := image.Rect(left, top, right, bottom)
		boxes = append(boxes, box)
		shifted = append(shifted, box.Add(image.Pt(bestClass*band, bestClass*band)))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, bestClass)
	}

	if len(boxes) == 0 {
		return []Prediction{}, nil
	}

	keep := gocv.NMSBoxes(shifted, scores, float32(confThreshold), float32(iouThreshold))

	predictions := make([]Prediction, 0, len(keep))
	for _, idx := range keep {
		predictions = append(predictions, Prediction{
			Box:        boxes[idx],
			ClassID:    classIDs[idx],
			Confidence: float64(scores[idx]),
		})
	}
	return predictions, nil
}
