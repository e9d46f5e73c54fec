package detection

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// drawRectangle draws a rectangle outline in black, corners inclusive
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		img.Set(x, y1, color.Black)
		img.Set(x, y2, color.Black)
	}
	for y := y1; y <= y2; y++ {
		img.Set(x1, y, color.Black)
		img.Set(x2, y, color.Black)
	}
}

// createDiagramImage creates a white sheet with two symbol outlines and a
// speck of noise
func createDiagramImage() *image.RGBA {
	img := createTestImage(200, 120, color.White)
	drawRectangle(img, 20, 20, 60, 50)
	drawRectangle(img, 100, 40, 150, 100)
	img.Set(180, 10, color.Black)
	return img
}

// fixedScorer always returns the same class and the minimum confidence
type fixedScorer struct {
	calls int
}

func (s *fixedScorer) Score(_ image.Rectangle, minConfidence float64) (string, float64) {
	s.calls++
	return "gate_valve", minConfidence
}

func TestHeuristicDetect_AllWhite(t *testing.T) {
	d := NewHeuristicDetector(NewRandomScorer(1, nil))
	img := createTestImage(100, 100, color.White)

	dets, err := d.Detect(img, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if dets == nil {
		t.Fatal("Detect should return an empty slice, not nil")
	}
	if len(dets) != 0 {
		t.Errorf("Expected 0 detections in white image, got %d", len(dets))
	}
}

func TestHeuristicDetect_Rectangles(t *testing.T) {
	scorer := &fixedScorer{}
	d := NewHeuristicDetector(scorer)

	dets, err := d.Detect(createDiagramImage(), 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("Expected 2 detections, got %d", len(dets))
	}

	want := []image.Rectangle{
		image.Rect(20, 20, 61, 51),
		image.Rect(100, 40, 151, 101),
	}
	for i, det := range dets {
		if det.Box != want[i] {
			t.Errorf("detection %d box = %v, want %v", i, det.Box, want[i])
		}
		if det.Class != "gate_valve" || det.Confidence != 0.5 {
			t.Errorf("detection %d not scored by the injected scorer: %+v", i, det)
		}
	}
	if scorer.calls != 2 {
		t.Errorf("scorer called %d times, want 2", scorer.calls)
	}
}

func TestHeuristicDetect_MinArea(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	drawRectangle(img, 40, 40, 47, 47) // 8x8 = 64 px enclosed

	small := &HeuristicDetector{MinArea: 50, Scorer: &fixedScorer{}}
	dets, err := small.Detect(img, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 {
		t.Errorf("minArea=50: expected 1 detection, got %d", len(dets))
	}

	large := &HeuristicDetector{MinArea: 100, Scorer: &fixedScorer{}}
	dets, err = large.Detect(img, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("minArea=100: expected 0 detections, got %d", len(dets))
	}
}

func TestHeuristicDetect_ThresholdIgnoresLightInk(t *testing.T) {
	img := createTestImage(100, 100, color.White)
	light := color.RGBA{200, 200, 200, 255}
	for x := 20; x <= 80; x++ {
		for y := 20; y <= 80; y++ {
			img.Set(x, y, light)
		}
	}

	d := NewHeuristicDetector(&fixedScorer{})
	dets, err := d.Detect(img, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("Light gray fill is above the cutoff, expected 0 detections, got %d", len(dets))
	}
}

func TestHeuristicDetect_TransparentBackground(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 80, 80)) // fully transparent
	for x := 10; x <= 40; x++ {
		for y := 10; y <= 40; y++ {
			if x == 10 || x == 40 || y == 10 || y == 40 {
				img.Set(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}

	d := NewHeuristicDetector(&fixedScorer{})
	dets, err := d.Detect(img, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("Transparent pixels should read as paper, expected 1 detection, got %d", len(dets))
	}
	if dets[0].Box != image.Rect(10, 10, 41, 41) {
		t.Errorf("Unexpected box %v", dets[0].Box)
	}
}

func TestHeuristicDetect_OffsetBounds(t *testing.T) {
	base := createTestImage(100, 100, color.White)
	drawRectangle(base, 50, 50, 70, 70)
	sub := base.SubImage(image.Rect(40, 40, 100, 100))

	d := NewHeuristicDetector(&fixedScorer{})
	dets, err := d.Detect(sub, 0.5, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("Expected 1 detection, got %d", len(dets))
	}
	if dets[0].Box != image.Rect(50, 50, 71, 71) {
		t.Errorf("Box should be in raster coordinates, got %v", dets[0].Box)
	}
}

func TestHeuristicDetect_GeometryIndependentOfSeed(t *testing.T) {
	img := createDiagramImage()

	run := func(seed int64) []Detection {
		d := NewHeuristicDetector(NewRandomScorer(seed, nil))
		dets, err := d.Detect(img, 0.25, 0.45)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		return dets
	}

	a := run(99)
	b := run(99)
	c := run(12345)

	if len(a) != len(b) || len(a) != len(c) {
		t.Fatalf("detection counts differ: %d, %d, %d", len(a), len(b), len(c))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("same seed produced different detection %d: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].Box != c[i].Box {
			t.Errorf("seed changed geometry of detection %d: %v vs %v", i, a[i].Box, c[i].Box)
		}
	}
}

func TestHeuristicDetect_ConfidenceFloor(t *testing.T) {
	d := NewHeuristicDetector(NewRandomScorer(5, nil))
	dets, err := d.Detect(createDiagramImage(), 0.8, 0.45)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for _, det := range dets {
		if det.Confidence < 0.8 || det.Confidence > 1.0 {
			t.Errorf("confidence %f outside [0.8, 1]", det.Confidence)
		}
	}
}

func TestHeuristicDetect_EmptyRaster(t *testing.T) {
	d := NewHeuristicDetector(&fixedScorer{})
	img := image.NewRGBA(image.Rect(0, 0, 0, 0))

	_, err := d.Detect(img, 0.5, 0.45)
	if !errors.Is(err, ErrDetection) {
		t.Errorf("expected ErrDetection for empty raster, got %v", err)
	}
}

func TestHeuristicDetect_NoScorer(t *testing.T) {
	d := &HeuristicDetector{}
	_, err := d.Detect(createDiagramImage(), 0.5, 0.45)
	if !errors.Is(err, ErrDetection) {
		t.Errorf("expected ErrDetection without a scorer, got %v", err)
	}
}

func TestHeuristicDetector_Strategy(t *testing.T) {
	if got := NewHeuristicDetector(nil).Strategy(); got != StrategyHeuristic {
		t.Errorf("Strategy() = %q", got)
	}
}

func TestHeuristicDetect_InkAtCutoff(t *testing.T) {
	img := createTestImage(60, 60, color.White)
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			img.Set(x, y, color.Gray{Y: 127})
		}
	}
	for y := 35; y < 55; y++ {
		for x := 35; x < 55; x++ {
			img.Set(x, y, color.Gray{Y: 129})
		}
	}

	rects, err := NewHeuristicDetector(&fixedScorer{}).Regions(img)
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(rects) != 1 || rects[0] != image.Rect(10, 10, 30, 30) {
		t.Errorf("Gray 127 should be ink and 129 paper, got %v", rects)
	}
}

func TestHeuristicDetect_AreaCountsPixels(t *testing.T) {
	// A solid 10x10 blob covers exactly 100 pixels and passes the default
	// filter.
	img := createTestImage(40, 40, color.White)
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			img.Set(x, y, color.Black)
		}
	}
	img.Set(2, 2, color.Black)

	rects, err := NewHeuristicDetector(&fixedScorer{}).Regions(img)
	if err != nil {
		t.Fatalf("Regions failed: %v", err)
	}
	if len(rects) != 1 || rects[0] != image.Rect(15, 15, 25, 25) {
		t.Errorf("Expected only the 10x10 blob, got %v", rects)
	}
}

func TestHeuristicRegions_LargeRasterMemory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large raster in short mode")
	}

	const width, height = 4000, 3000
	// Upper bound on bytes allocated per pixel by Regions.
	const maxBytesPerPixel = 24

	for _, tc := range []struct {
		name  string
		ink   color.Color
		count int
	}{
		{"blank sheet", color.White, 0},
		{"solid ink", color.Black, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, width, height))
			draw.Draw(img, img.Bounds(), image.NewUniform(tc.ink), image.Point{}, draw.Src)
			d := NewHeuristicDetector(&fixedScorer{})

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)
			rects, err := d.Regions(img)
			runtime.ReadMemStats(&after)

			if err != nil {
				t.Fatalf("Regions failed: %v", err)
			}
			if len(rects) != tc.count {
				t.Errorf("Expected %d regions, got %d", tc.count, len(rects))
			}

			allocated := after.TotalAlloc - before.TotalAlloc
			if limit := uint64(width * height * maxBytesPerPixel); allocated > limit {
				t.Errorf("Regions allocated %d MiB on a %dx%d raster, limit %d MiB",
					allocated>>20, width, height, limit>>20)
			}
		})
	}
}
