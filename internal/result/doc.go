// Package result assembles the JSON document a pipeline run emits.
//
// The Packager converts detections from pixel rectangles to fractions of
// the raster size, gives every detection a run-scoped id, and embeds the
// original and annotated rasters as base64 JPEG.
//
// # Document Schema
//
//	{
//	  "id": "<run uuid>",
//	  "originalImage": "<base64 JPEG>",
//	  "processedImage": "<base64 JPEG>",
//	  "detections": [
//	    {"id": "<run uuid>_0", "class": "gate_valve", "confidence": 0.91,
//	     "bbox": {"x": 0.1, "y": 0.2, "width": 0.05, "height": 0.04}}
//	  ],
//	  "strategy": "heuristic"
//	}
//
// Image fields may carry a "data:image/jpeg;base64," prefix when the
// Packager is configured for inline display.
//
// # Normalized Coordinates
//
// bbox values are fractions of the raster width (x, width) and height
// (y, height) at full float64 precision. With clamping enabled (the
// default) boxes are first clipped to the raster, so
// 0 <= x, y and x+width, y+height <= 1 always hold.
package result
