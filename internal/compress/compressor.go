package compress

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ivlev/storyreel/internal/assets"
	"github.com/ivlev/storyreel/internal/encoder"
)

// Compressor runs the budgeted compression pass: mono, 16 kHz, constant
// bitrate from Budget. The sample rate matches what speech transcription
// backends resample to anyway.
type Compressor struct {
	Runner *encoder.Runner
	Prober *assets.Prober
}

func NewCompressor() *Compressor {
	return &Compressor{Runner: encoder.NewRunner(), Prober: assets.NewProber()}
}

// BuildArgs is the pure argument list for one compression pass.
func BuildArgs(src, dst string, bitrateKbps int) []string {
	return []string{
		"-y", "-i", src,
		"-ab", fmt.Sprintf("%dk", bitrateKbps),
		"-ac", "1",
		"-ar", "16000",
		"-map", "0:a",
		dst,
	}
}

// OutputPath derives the compressed sibling path: name_compressed.ext.
func OutputPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + "_compressed" + ext
}

// Compress writes a size-budgeted copy of src next to it and returns the new
// path. A failed duration probe falls back to the conservative bitrate; a
// failed encode is a real error.
func (c *Compressor) Compress(ctx context.Context, src string, targetMB float64) (string, error) {
	if targetMB <= 0 {
		return "", errors.Errorf("target size must be positive, got %f MB", targetMB)
	}
	if !assets.Exists(src) {
		return "", errors.Errorf("audio file not found: %s", src)
	}

	duration, err := c.Prober.Duration(src)
	if err != nil {
		log.WithError(err).Warnf("could not probe %s, using %dk", src, FallbackBitrateKbps)
		duration = 0
	}

	kbps := Budget(duration, targetMB)
	log.WithFields(log.Fields{
		"duration": duration,
		"bitrate":  fmt.Sprintf("%dk", kbps),
	}).Info("compressing audio")

	dst := OutputPath(src)
	if err := c.Runner.Run(ctx, BuildArgs(src, dst, kbps)); err != nil {
		return "", errors.Wrapf(err, "compress %s", src)
	}
	return dst, nil
}
