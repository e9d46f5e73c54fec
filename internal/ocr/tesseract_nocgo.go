//go:build !cgo

package ocr

import "errors"

type tesseractEngine struct{}

func (tesseractEngine) Recognize([]byte, string) (string, error) {
	return "", errors.New("tesseract support not compiled in (build with CGO_ENABLED=1)")
}

// Version returns the linked Tesseract version, or "unavailable" when the
// engine is not compiled in.
func Version() string {
	return "unavailable"
}
