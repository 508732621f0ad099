package carousel

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePoster(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScaledWidth(t *testing.T) {
	cases := []struct{ srcW, srcH, targetH, want int }{
		{1000, 1500, 1500, 1000}, // already at target height
		{600, 900, 1500, 1000},   // 2:3 poster scales up
		{2000, 1000, 1500, 3000}, // landscape scales up
		{682, 1023, 1500, 1000},
	}
	for _, tc := range cases {
		if got := ScaledWidth(tc.srcW, tc.srcH, tc.targetH); got != tc.want {
			t.Errorf("ScaledWidth(%d, %d, %d) = %d, expected %d", tc.srcW, tc.srcH, tc.targetH, got, tc.want)
		}
	}
}

func TestStripWidth(t *testing.T) {
	// Spacing before the first poster, between each pair, and after the last.
	if got := StripWidth([]int{300, 450, 300}, 40); got != 1210 {
		t.Errorf("expected 1210, got %d", got)
	}
	if got := StripWidth([]int{500}, 40); got != 580 {
		t.Errorf("single poster: expected 580, got %d", got)
	}
	if got := StripWidth(nil, 40); got != 40 {
		t.Errorf("empty strip: expected 40, got %d", got)
	}
}

func TestCompositorPipeline(t *testing.T) {
	dir := t.TempDir()
	posters := []string{
		writePoster(t, dir, "a.png", 100, 150, color.NRGBA{R: 200, A: 255}),
		writePoster(t, dir, "b.png", 200, 150, color.NRGBA{G: 200, A: 255}),
	}

	opts := Options{Spacing: 10, PosterHeight: 150, Background: color.NRGBA{R: 20, G: 20, B: 30, A: 255}}
	c, err := NewCompositor(opts)
	if err != nil {
		t.Fatalf("NewCompositor failed: %v", err)
	}

	if err := c.Normalize(context.Background(), posters); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	w, h := c.StripSize()
	if w != 100+200+3*10 || h != 150 {
		t.Errorf("unexpected strip size %dx%d", w, h)
	}

	stripPath := filepath.Join(dir, "strip.png")
	strip, err := c.Concatenate(context.Background(), stripPath)
	if err != nil {
		t.Fatalf("Concatenate failed: %v", err)
	}
	if strip.Path != stripPath || strip.Width != w || strip.Height != h {
		t.Errorf("unexpected strip %+v", strip)
	}

	f, err := os.Open(stripPath)
	if err != nil {
		t.Fatalf("open strip: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode strip: %v", err)
	}
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("written strip is %dx%d, expected %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), w, h)
	}

	// Spacing columns keep the background; poster columns carry poster color.
	r, g, b, _ := img.At(5, 75).RGBA()
	if r>>8 != 20 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("gutter pixel is not background: %d %d %d", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(60, 75).RGBA()
	if r>>8 < 150 {
		t.Errorf("first poster pixel not red enough: %d", r>>8)
	}

	overlayPath := filepath.Join(dir, "overlay.png")
	spec := OverlaySpec{Width: 640, Height: 360, Title: "TEST", Footer: "2 POSTERS"}
	if err := c.Overlay(spec, overlayPath); err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if _, err := os.Stat(overlayPath); err != nil {
		t.Errorf("overlay not written: %v", err)
	}
}

func TestCompositorRejectsOutOfOrderCalls(t *testing.T) {
	c, err := NewCompositor(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Concatenate(context.Background(), "strip.png"); err == nil {
		t.Error("Concatenate before Normalize must fail")
	}
	if err := c.Overlay(OverlaySpec{Width: 1, Height: 1}, "overlay.png"); err == nil {
		t.Error("Overlay before Concatenate must fail")
	}
	if err := c.Normalize(context.Background(), nil); err == nil {
		t.Error("Normalize without posters must fail")
	}
}

func TestNormalizeRejectsSecondCall(t *testing.T) {
	dir := t.TempDir()
	posters := []string{writePoster(t, dir, "a.png", 100, 150, color.NRGBA{B: 200, A: 255})}

	c, err := NewCompositor(Options{Spacing: 10, PosterHeight: 150, Background: color.NRGBA{A: 255}})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Normalize(context.Background(), posters); err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}
	if err := c.Normalize(context.Background(), posters); err == nil {
		t.Error("second Normalize must fail")
	}
}

func TestScrollGeometry(t *testing.T) {
	// A 5000px strip at 1500px scaled to 1080 output height.
	scaled := ScaledStripWidth(5000, 1500, 1080)
	if scaled != 3600 {
		t.Errorf("expected scaled width 3600, got %d", scaled)
	}

	d := ScrollDuration(5000, 1920, 120)
	if math.Abs(d-(5000-1920)/120.0) > 1e-9 {
		t.Errorf("unexpected scroll duration %f", d)
	}
}

func TestScrollFilter(t *testing.T) {
	filter := ScrollFilter(1920, 1080, 25)
	for _, part := range []string{
		"[0:v]scale=-1:1080",
		"crop=1920:1080:",
		"min(iw-1920,",
		"[bg][1:v]overlay=0:0:format=auto",
	} {
		if !strings.Contains(filter, part) {
			t.Errorf("filter missing %q: %s", part, filter)
		}
	}
}

func TestRenderOverlay(t *testing.T) {
	img, err := RenderOverlay(OverlaySpec{Width: 640, Height: 360, Title: "HELLO", Footer: "3 POSTERS"})
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
		t.Fatalf("unexpected canvas size %v", img.Bounds())
	}

	// The middle of the frame stays fully transparent so the scroll shows
	// through; the very top row carries the gradient bar.
	if _, _, _, a := img.At(320, 180).RGBA(); a != 0 {
		t.Errorf("center pixel must be transparent, alpha %d", a>>8)
	}
	if _, _, _, a := img.At(320, 0).RGBA(); a == 0 {
		t.Error("top gradient row must not be transparent")
	}

	if _, err := RenderOverlay(OverlaySpec{Width: 0, Height: 360}); err == nil {
		t.Error("zero width must be rejected")
	}
}
