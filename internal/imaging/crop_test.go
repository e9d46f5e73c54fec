package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := CropRegion(img, image.Rect(0, 0, 50, 50), 0, 1.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}

	if cropped.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", cropped.Bounds())
	}

	r, g, b, _ := cropped.At(25, 25).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 0 || uint8(b>>8) != 0 {
		t.Errorf("top-left quadrant should be red, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestCropRegion_PaddingClipped(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	cropped, err := CropRegion(img, image.Rect(5, 5, 20, 20), 10, 1.0)
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}

	// Padding grows to (-5,-5)-(30,30) and is clipped to (0,0)-(30,30).
	if cropped.Bounds().Dx() != 30 || cropped.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 30x30", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropRegion_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	cropped, err := CropRegion(img, image.Rect(0, 0, 50, 50), 0, 2.0)
	if err != nil {
		t.Fatalf("CropRegion with scale failed: %v", err)
	}

	if cropped.Bounds().Dx() != 100 || cropped.Bounds().Dy() != 100 {
		t.Errorf("scaled dimensions: got %dx%d, want 100x100", cropped.Bounds().Dx(), cropped.Bounds().Dy())
	}
}

func TestCropRegion_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	if _, err := CropRegion(img, image.Rect(150, 150, 200, 200), 0, 1.0); err == nil {
		t.Error("expected error for region outside the image")
	}
}
