// Package carousel builds the scrolling-poster variant: heterogeneous poster
// images are normalized to one height, concatenated onto a single wide strip,
// and scrolled under a static alpha overlay by a time-parameterized crop.
//
// The compositor is an ordered state machine: Normalize -> Concatenate ->
// Overlay. Normalization is a full first pass over every poster because the
// canvas width depends on the sum of all scaled widths.
package carousel

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Spacing      int // pixels before the first poster and between each pair
	PosterHeight int // every poster is scaled to this height
	Background   color.NRGBA
}

func DefaultOptions() Options {
	return Options{
		Spacing:      40,
		PosterHeight: 1500,
		Background:   color.NRGBA{R: 20, G: 20, B: 30, A: 255},
	}
}

// Strip describes the finished wide canvas.
type Strip struct {
	Path   string
	Width  int
	Height int
}

type phase int

const (
	phaseNormalizing phase = iota
	phaseConcatenated
	phaseOverlaid
)

type Compositor struct {
	opts Options

	phase   phase
	posters []string
	scaled  []int // per-poster width at PosterHeight
	strip   Strip
}

func NewCompositor(opts Options) (*Compositor, error) {
	if opts.Spacing < 0 || opts.PosterHeight <= 0 {
		return nil, errors.Errorf("invalid strip options: spacing %d, poster height %d", opts.Spacing, opts.PosterHeight)
	}
	return &Compositor{opts: opts}, nil
}

// ScaledWidth is the aspect-preserving width of a source image at targetH.
func ScaledWidth(srcW, srcH, targetH int) int {
	return int(float64(srcW) * float64(targetH) / float64(srcH))
}

// StripWidth is the canvas width for the given scaled poster widths: the sum
// plus spacing before the first poster, between each pair, and after the last.
func StripWidth(scaledWidths []int, spacing int) int {
	total := spacing * (len(scaledWidths) + 1)
	for _, w := range scaledWidths {
		total += w
	}
	return total
}

// Normalize decodes every poster header and fixes the canvas geometry. No
// pixel data is read yet; this pass only needs dimensions.
func (c *Compositor) Normalize(ctx context.Context, posterPaths []string) error {
	if c.phase != phaseNormalizing {
		return errors.New("carousel: Normalize called twice")
	}
	if len(posterPaths) == 0 {
		return errors.New("carousel: no poster paths provided")
	}

	scaled := make([]int, len(posterPaths))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range posterPaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(p)
			if err != nil {
				return errors.Wrapf(err, "poster %s", p)
			}
			defer f.Close()
			cfg, _, err := image.DecodeConfig(f)
			if err != nil {
				return errors.Wrapf(err, "decode poster %s", p)
			}
			scaled[i] = ScaledWidth(cfg.Width, cfg.Height, c.opts.PosterHeight)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.posters = posterPaths
	c.scaled = scaled
	c.strip = Strip{
		Width:  StripWidth(scaled, c.opts.Spacing),
		Height: c.opts.PosterHeight,
	}
	c.phase = phaseConcatenated
	return nil
}

// StripSize reports the canvas geometry fixed by Normalize.
func (c *Compositor) StripSize() (width, height int) {
	return c.strip.Width, c.strip.Height
}

// Concatenate pastes every poster, scaled to the common height, onto a fresh
// canvas at increasing x offsets and writes it as PNG (JPEG caps out at
// 65500 px wide, which long filmographies exceed).
func (c *Compositor) Concatenate(ctx context.Context, outPath string) (Strip, error) {
	if c.phase != phaseConcatenated {
		return Strip{}, errors.New("carousel: Concatenate requires a completed Normalize")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, c.strip.Width, c.strip.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(c.opts.Background), image.Point{}, draw.Src)

	x := c.opts.Spacing
	for i, p := range c.posters {
		if err := ctx.Err(); err != nil {
			return Strip{}, err
		}

		f, err := os.Open(p)
		if err != nil {
			return Strip{}, errors.Wrapf(err, "poster %s", p)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return Strip{}, errors.Wrapf(err, "decode poster %s", p)
		}

		dst := image.Rect(x, 0, x+c.scaled[i], c.strip.Height)
		xdraw.CatmullRom.Scale(canvas, dst, img, img.Bounds(), xdraw.Over, nil)
		x += c.scaled[i] + c.opts.Spacing
	}

	if err := savePNG(canvas, outPath); err != nil {
		return Strip{}, err
	}

	c.strip.Path = outPath
	c.phase = phaseOverlaid
	return c.strip, nil
}

// Overlay renders the static title/footer bars (and optional QR tag) at the
// output frame size and writes them next to the strip. Requires Concatenate
// to have completed; the compositor is terminal afterwards.
func (c *Compositor) Overlay(spec OverlaySpec, outPath string) error {
	if c.phase != phaseOverlaid {
		return errors.New("carousel: Overlay requires a completed Concatenate")
	}
	img, err := RenderOverlay(spec)
	if err != nil {
		return err
	}
	return savePNG(img, outPath)
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
