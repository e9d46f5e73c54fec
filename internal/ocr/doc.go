// Package ocr reads equipment and instrument tags inside detected symbols
// using the Tesseract OCR engine (via gosseract/v2).
//
// P&ID symbols usually carry a short tag such as "PV-101" or "FIC 204"
// inside or just around their outline. Reader crops each detection with a
// small margin, upsamples it and runs Tesseract in single-block mode; the
// recognized text is collapsed to one line.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The engine is only compiled in when cgo is enabled. Without cgo every
// read fails with ErrOCR and callers fall back to untagged detections.
//
// # Languages
//
// The default language is English ("eng"). Any installed Tesseract
// language code can be passed to NewReader, including combinations such
// as "eng+deu".
package ocr
