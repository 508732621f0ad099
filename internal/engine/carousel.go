package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ivlev/storyreel/internal/carousel"
	"github.com/ivlev/storyreel/internal/encoder"
)

// CarouselRequest orders one scrolling poster reel.
type CarouselRequest struct {
	PosterPaths []string
	Title       string
	Footer      string
	QRLink      string

	Output      string
	Width       int
	Height      int
	FPS         int
	ScrollSpeed float64 // pixels per second, used when Duration is zero
	Duration    float64 // seconds; zero derives from ScrollSpeed

	Options  carousel.Options
	Settings encoder.Settings
}

// RenderCarousel drives the compositor through its three phases, then runs
// the scroll render with the same partial-file publish discipline as Render.
// The strip and overlay are working files and live in a temp dir.
func (e *Engine) RenderCarousel(ctx context.Context, req CarouselRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Output == "" {
		return errors.New("engine: output path is required")
	}
	if req.Width <= 0 || req.Height <= 0 || req.FPS <= 0 {
		return errors.Errorf("engine: invalid carousel geometry %dx%d@%d", req.Width, req.Height, req.FPS)
	}

	tmpDir, err := os.MkdirTemp("", "storyreel_")
	if err != nil {
		return errors.Wrap(err, "temp dir")
	}
	defer os.RemoveAll(tmpDir)

	comp, err := carousel.NewCompositor(req.Options)
	if err != nil {
		return err
	}
	if err := comp.Normalize(ctx, req.PosterPaths); err != nil {
		return err
	}
	strip, err := comp.Concatenate(ctx, filepath.Join(tmpDir, "carousel_strip.png"))
	if err != nil {
		return err
	}

	overlayPath := filepath.Join(tmpDir, "overlay.png")
	err = comp.Overlay(carousel.OverlaySpec{
		Width:  req.Width,
		Height: req.Height,
		Title:  req.Title,
		Footer: req.Footer,
		QRLink: req.QRLink,
	}, overlayPath)
	if err != nil {
		return err
	}

	scaledW := carousel.ScaledStripWidth(strip.Width, strip.Height, req.Height)
	duration := req.Duration
	if duration <= 0 {
		if req.ScrollSpeed <= 0 {
			return errors.New("engine: either a duration or a scroll speed is required")
		}
		duration = carousel.ScrollDuration(scaledW, req.Width, req.ScrollSpeed)
	}
	if duration <= 0 {
		return errors.Errorf("engine: strip (%dpx scaled) is narrower than the output frame (%dpx), nothing to scroll", scaledW, req.Width)
	}

	log.WithFields(log.Fields{
		"posters":  len(req.PosterPaths),
		"strip":    strip.Width,
		"duration": duration,
		"output":   req.Output,
	}).Info("rendering carousel")

	partial := partialPath(req.Output)
	args := carousel.BuildScrollArgs(strip.Path, overlayPath, partial,
		req.Width, req.Height, req.FPS, duration, req.Settings)

	if err := e.Runner.Run(ctx, args); err != nil {
		if rmErr := os.Remove(partial); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warnf("could not remove partial output %s", partial)
		}
		return errors.Wrap(err, "carousel render failed")
	}
	return errors.Wrapf(os.Rename(partial, req.Output), "publish %s", req.Output)
}
