//go:build !gocv

package detection

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenONNX_NotCompiledIn(t *testing.T) {
	weights := filepath.Join(t.TempDir(), "best.onnx")
	if err := os.WriteFile(weights, []byte("not a model"), 0o644); err != nil {
		t.Fatalf("failed to write weights: %v", err)
	}

	_, err := OpenONNX(weights, "")()
	if !errors.Is(err, ErrDetection) {
		t.Fatalf("expected ErrDetection, got %v", err)
	}
	if !strings.Contains(err.Error(), "not compiled in") {
		t.Errorf("error should explain the missing build tag: %v", err)
	}
}
