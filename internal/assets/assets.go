// Package assets resolves referenced media files before any graph is built:
// it confirms images exist and decode, and probes audio durations through
// ffprobe. A missing image is a hard error; a missing audio track is reported
// as absent so the caller can drop it from the mix.
package assets

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
)

type ImageInfo struct {
	Path   string
	Width  int
	Height int
}

// ResolveImage verifies the file exists and is a decodable still image.
func ResolveImage(path string) (ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, errors.Wrapf(err, "image %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, errors.Wrapf(err, "decode image %s", path)
	}
	return ImageInfo{Path: path, Width: cfg.Width, Height: cfg.Height}, nil
}

// Exists reports whether path names a readable regular file.
func Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Prober asks ffprobe for container-level metadata.
type Prober struct {
	Binary string
}

func NewProber() *Prober {
	return &Prober{Binary: "ffprobe"}
}

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// Duration returns the asset duration in seconds.
func (p *Prober) Duration(path string) (float64, error) {
	var out, errb bytes.Buffer
	cmd := exec.Command(p.Binary, "-v", "error", "-print_format", "json", "-show_format", path)
	cmd.Stdout = &out
	cmd.Stderr = &errb

	if err := cmd.Run(); err != nil {
		return 0, errors.Wrapf(err, "ffprobe %s: %s", path, errb.String())
	}

	var meta probeFormat
	if err := json.Unmarshal(out.Bytes(), &meta); err != nil {
		return 0, errors.Wrapf(err, "ffprobe output for %s", path)
	}

	dur, err := strconv.ParseFloat(meta.Format.Duration, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "ffprobe duration %q for %s", meta.Format.Duration, path)
	}
	if dur <= 0 {
		return 0, errors.Errorf("ffprobe reported non-positive duration %f for %s", dur, path)
	}
	return dur, nil
}

// ResolveAudio reports whether the track exists and, if probing succeeds, its
// duration. A track that exists but cannot be probed yields ok=true with
// duration 0; callers that only need a best-effort duration (the bitrate
// budgeter) fall back on their own defaults.
func (p *Prober) ResolveAudio(path string) (ok bool, duration float64) {
	if !Exists(path) {
		return false, 0
	}
	dur, err := p.Duration(path)
	if err != nil {
		return true, 0
	}
	return true, dur
}
