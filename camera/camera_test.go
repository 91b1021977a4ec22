package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1024, 768)

	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected camera at (0.5, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1024, 768)

	sx, sy := cam.WorldToScreen(0.5, 0.5)
	if math.Abs(float64(sx-512)) > 0.01 || math.Abs(float64(sy-384)) > 0.01 {
		t.Errorf("expected screen center (512, 384), got (%f, %f)", sx, sy)
	}
}

func TestDomainFitsShorterSide(t *testing.T) {
	cam := New(1024, 768)

	// Bottom-left of the domain lands at the bottom of the viewport
	sx, sy := cam.WorldToScreen(0, 0)
	if math.Abs(float64(sx-128)) > 0.01 || math.Abs(float64(sy-768)) > 0.01 {
		t.Errorf("expected (128, 768) for world origin, got (%f, %f)", sx, sy)
	}

	sx, sy = cam.WorldToScreen(1, 1)
	if math.Abs(float64(sx-896)) > 0.01 || math.Abs(float64(sy)) > 0.01 {
		t.Errorf("expected (896, 0) for world (1,1), got (%f, %f)", sx, sy)
	}

	if l := cam.WorldLength(0.015); math.Abs(float64(l)-11.52) > 0.01 {
		t.Errorf("expected 11.52 px for 0.015 world units, got %f", l)
	}
}

func TestYAxisPointsUp(t *testing.T) {
	cam := New(800, 800)

	_, low := cam.WorldToScreen(0.5, 0.1)
	_, high := cam.WorldToScreen(0.5, 0.9)
	if high >= low {
		t.Errorf("expected higher world y to be higher on screen: y=0.9 -> %f, y=0.1 -> %f", high, low)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1024, 768)
	cam.Zoom = 2.5
	cam.X, cam.Y = 0.3, 0.7

	testCases := []struct{ sx, sy float32 }{
		{512, 384},
		{100, 100},
		{1000, 700},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := New(800, 800)

	wx, wy := cam.ScreenToWorld(200, 600)
	cam.ZoomAt(2, 200, 600)
	sx, sy := cam.WorldToScreen(wx, wy)

	if math.Abs(float64(sx-200)) > 0.01 || math.Abs(float64(sy-600)) > 0.01 {
		t.Errorf("expected anchor to stay at (200, 600), got (%f, %f)", sx, sy)
	}
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 800)

	cam.ZoomAt(100, 400, 400)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomAt(0.0001, 400, 400)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestPanAndReset(t *testing.T) {
	cam := New(800, 800)

	// Dragging right by 80px moves the view left by 0.1 world units
	cam.Pan(80, 0)
	if math.Abs(cam.X-0.4) > 1e-9 {
		t.Errorf("expected camera x 0.4 after pan, got %f", cam.X)
	}

	cam.Reset()
	if cam.X != 0.5 || cam.Y != 0.5 || cam.Zoom != 1 {
		t.Errorf("expected reset camera, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 800)
	cam.Zoom = 4 // view spans 0.25 world units around the center

	if !cam.IsVisible(0.5, 0.5, 0) {
		t.Error("expected center to be visible")
	}
	if cam.IsVisible(0.05, 0.5, 0.01) {
		t.Error("expected far-left particle to be culled")
	}
	if !cam.IsVisible(0.63, 0.5, 0.01) {
		t.Error("expected particle overlapping the edge to be visible")
	}
}
