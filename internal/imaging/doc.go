// Package imaging holds the raster stages of the symbol detection
// pipeline: loading the input image, drawing annotations, cropping
// regions and encoding result images.
//
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// Regions use the image.Rectangle convention:
//   - Min (top-left) is inclusive
//   - Max (bottom-right) is exclusive
//   - Width = Dx(), Height = Dy()
//
// Functions that return a new raster (Annotate, CropRegion) return an
// *image.NRGBA whose bounds start at (0,0).
//
// # Ownership
//
// No function in this package modifies its input raster. Annotate draws on
// a private clone so the original can still be encoded unchanged.
//
// # Error Handling
//
// Load wraps ErrImageRead for missing, unreadable, undecodable and empty
// images. EncodeJPEG wraps ErrEncoding. Callers test with errors.Is.
package imaging
