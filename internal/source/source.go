// Package source provisions the still images a timeline is built from.
// Segments can reference images directly, come from a directory scan, or be
// rasterized out of a PDF document.
package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Source yields the ordered image files for a render. Images may need a
// materialization step (PDF pages are rendered to PNG under tmpDir); plain
// image sources return their paths unchanged.
type Source interface {
	Count() int
	Images(ctx context.Context, tmpDir string) ([]string, error)
	Close() error
}

// ImageSource serves an explicit ordered list of image files.
type ImageSource struct {
	paths []string
}

func NewImageSource(paths []string) (*ImageSource, error) {
	if len(paths) == 0 {
		return nil, errors.New("source: no image paths provided")
	}
	return &ImageSource{paths: paths}, nil
}

// NewDirSource scans dir for images, ordered by name.
func NewDirSource(dir string) (*ImageSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", dir)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, errors.Errorf("source: no images found in %s", dir)
	}
	return &ImageSource{paths: paths}, nil
}

func (s *ImageSource) Count() int { return len(s.paths) }

func (s *ImageSource) Images(ctx context.Context, tmpDir string) ([]string, error) {
	return s.paths, nil
}

func (s *ImageSource) Close() error { return nil }
