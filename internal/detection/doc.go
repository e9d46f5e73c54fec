// Package detection locates graphical symbols in diagram rasters.
//
// Two interchangeable strategies implement the Detector interface:
//
//   - ModelDetector runs a pretrained object-detection network (a YOLOv8
//     ONNX export) through a lazily loaded ModelHandle. Overlap
//     suppression is the network runtime's job.
//   - HeuristicDetector is the fallback used when no trained weights are
//     available. It thresholds the raster, extracts external contours,
//     filters them by area and asks a Scorer for class and confidence.
//     The default RandomScorer is a placeholder, not a classifier.
//
// # Coordinate System
//
// Detections are returned in raster pixel coordinates using the
// image.Rectangle convention:
//   - Origin at the raster's Bounds().Min (top-left)
//   - X increases rightward, Y increases downward
//   - Min is inclusive, Max is exclusive
//
// # Class Vocabulary
//
// The fixed P&ID symbol vocabulary (pipe couplings, valve variants,
// instrument bubbles, equipment tags, ...) is a static table indexed by
// class id. It is never mutated; SymbolClasses returns a copy.
//
// # Errors
//
// Every failure wraps ErrDetection. An image with no symbols is not a
// failure: Detect returns an empty, non-nil slice.
//
// # Limitations
//
// The heuristic strategy works best on clean scans with dark line work on
// a light background. Touching symbols merge into one region, and a
// symbol drawn around a line that runs to the sheet edge is reported
// together with that line.
package detection
