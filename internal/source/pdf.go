package source

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/storyreel/internal/system"
)

// PDFSource rasterizes document pages into segment stills. Pages are
// materialized as PNG files because the compiled encoder command consumes
// file inputs, not in-memory frames.
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	if dpi <= 0 {
		dpi = 150
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open pdf %s", path)
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (s *PDFSource) Count() int { return s.doc.NumPage() }

// Images renders every page under tmpDir, in parallel up to the system's
// render worker budget. Each worker opens its own fitz handle; a Document is
// not safe for concurrent rendering.
func (s *PDFSource) Images(ctx context.Context, tmpDir string) ([]string, error) {
	n := s.doc.NumPage()
	paths := make([]string, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(system.RenderWorkers())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := fitz.New(s.path)
			if err != nil {
				return errors.Wrapf(err, "open pdf %s", s.path)
			}
			defer doc.Close()

			img, err := doc.ImageDPI(i, float64(s.dpi))
			if err != nil {
				return errors.Wrapf(err, "render page %d", i)
			}

			out := filepath.Join(tmpDir, fmt.Sprintf("page%04d.png", i))
			f, err := os.Create(out)
			if err != nil {
				return errors.Wrapf(err, "create %s", out)
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return errors.Wrapf(err, "encode page %d", i)
			}
			if err := f.Close(); err != nil {
				return errors.Wrapf(err, "close %s", out)
			}
			paths[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *PDFSource) Close() error { return s.doc.Close() }
