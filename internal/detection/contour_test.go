package detection

import (
	"image"
	"testing"
)

// testMask is an ink mask with its dimensions.
type testMask struct {
	pix           []uint8
	width, height int
}

// newMask returns an all-background mask of the given size.
func newMask(width, height int) *testMask {
	return &testMask{pix: make([]uint8, width*height), width: width, height: height}
}

func (m *testMask) set(x, y int) {
	m.pix[y*m.width+x] = pixelInk
}

// drawSquare sets the outline of the square [x1,x2]x[y1,y2] (inclusive).
func drawSquare(m *testMask, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		m.set(x, y1)
		m.set(x, y2)
	}
	for y := y1; y <= y2; y++ {
		m.set(x1, y)
		m.set(x2, y)
	}
}

// regions runs contour extraction over the mask.
func (m *testMask) regions() []Region {
	return externalRegions(m.pix, m.width, m.height)
}

func TestExternalRegions_Empty(t *testing.T) {
	regions := newMask(20, 20).regions()
	if len(regions) != 0 {
		t.Errorf("Expected 0 regions in empty mask, got %d", len(regions))
	}
}

func TestExternalRegions_SquareOutline(t *testing.T) {
	mask := newMask(20, 20)
	drawSquare(mask, 5, 5, 15, 15)

	regions := mask.regions()
	if len(regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(regions))
	}

	want := image.Rect(5, 5, 16, 16)
	if regions[0].Bounds != want {
		t.Errorf("Bounds = %v, want %v", regions[0].Bounds, want)
	}
	// The hole counts towards the enclosed area.
	if regions[0].Area != 11*11 {
		t.Errorf("Area = %d, want %d", regions[0].Area, 11*11)
	}
}

func TestExternalRegions_NestedShapeMerges(t *testing.T) {
	mask := newMask(30, 30)
	drawSquare(mask, 2, 2, 27, 27)
	drawSquare(mask, 10, 10, 15, 15) // inside the hole of the outer square

	regions := mask.regions()
	if len(regions) != 1 {
		t.Fatalf("Nested contour should not be reported, got %d regions", len(regions))
	}
	if regions[0].Bounds != image.Rect(2, 2, 28, 28) {
		t.Errorf("Unexpected bounds %v", regions[0].Bounds)
	}
}

func TestExternalRegions_DiscoveryOrder(t *testing.T) {
	mask := newMask(40, 40)
	drawSquare(mask, 25, 25, 35, 35) // lower right
	drawSquare(mask, 20, 2, 30, 10)  // upper right
	drawSquare(mask, 2, 5, 10, 15)   // upper left, starts lower than the upper right one

	regions := mask.regions()
	if len(regions) != 3 {
		t.Fatalf("Expected 3 regions, got %d", len(regions))
	}

	wantMinY := []int{2, 5, 25}
	for i, r := range regions {
		if r.Bounds.Min.Y != wantMinY[i] {
			t.Errorf("Region %d starts at y=%d, want %d", i, r.Bounds.Min.Y, wantMinY[i])
		}
	}
}

func TestExternalRegions_DiagonalConnectivity(t *testing.T) {
	mask := newMask(10, 10)
	mask.set(2, 2)
	mask.set(3, 3)
	mask.set(4, 4)

	regions := mask.regions()
	if len(regions) != 1 {
		t.Fatalf("Diagonal pixels should form one region, got %d", len(regions))
	}
	if regions[0].Area != 3 {
		t.Errorf("Area = %d, want 3", regions[0].Area)
	}
}

func TestExternalRegions_TouchingBorder(t *testing.T) {
	mask := newMask(10, 10)
	for x := 0; x < 10; x++ {
		mask.set(x, 0)
	}

	regions := mask.regions()
	if len(regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(regions))
	}
	if regions[0].Bounds != image.Rect(0, 0, 10, 1) {
		t.Errorf("Unexpected bounds %v", regions[0].Bounds)
	}
}

func TestExternalRegions_ConsumesMask(t *testing.T) {
	mask := newMask(12, 12)
	drawSquare(mask, 3, 3, 8, 8)
	mask.set(10, 1)

	if got := len(mask.regions()); got != 2 {
		t.Fatalf("Expected 2 regions, got %d", got)
	}
	for i, s := range mask.pix {
		if s != pixelOutside && s != pixelClaimed {
			t.Fatalf("Pixel (%d,%d) left in state %d", i%mask.width, i/mask.width, s)
		}
	}
}

func TestExternalRegions_SolidRaster(t *testing.T) {
	mask := newMask(64, 48)
	for i := range mask.pix {
		mask.pix[i] = pixelInk
	}

	regions := mask.regions()
	if len(regions) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(regions))
	}
	if regions[0].Area != 64*48 {
		t.Errorf("Area = %d, want %d", regions[0].Area, 64*48)
	}
	if regions[0].Bounds != image.Rect(0, 0, 64, 48) {
		t.Errorf("Unexpected bounds %v", regions[0].Bounds)
	}
}

func TestForegroundMask_CutoffInclusive(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.Pix = []uint8{0, 126, 127, 129}

	mask, w, h := foregroundMask(img, 127)
	if w != 4 || h != 1 {
		t.Fatalf("Mask size = %dx%d, want 4x1", w, h)
	}
	want := []uint8{pixelInk, pixelInk, pixelInk, pixelBackground}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("Gray %d: state %d, want %d", img.Pix[i], mask[i], want[i])
		}
	}
}

func TestForegroundMask_MaxCutoffKeepsWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Pix = []uint8{254, 255}

	mask, _, _ := foregroundMask(img, 255)
	if mask[0] != pixelInk || mask[1] != pixelBackground {
		t.Errorf("Cutoff 255 mask = %v, want [ink background]", mask)
	}
}
