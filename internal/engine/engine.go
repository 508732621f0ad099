// Package engine orchestrates one render: resolve assets, build the filter
// graphs, compile the command, run the encoder, and publish the output
// atomically. Graph construction is pure; the only blocking operation is the
// encoder process itself, so cancellation simply kills the child.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ivlev/storyreel/internal/assets"
	"github.com/ivlev/storyreel/internal/encoder"
	"github.com/ivlev/storyreel/internal/filtergraph"
	"github.com/ivlev/storyreel/internal/timeline"
)

// Request is one immutable render order. Two requests with distinct outputs
// are safe to run concurrently from separate engines; racing on the same
// output path is the caller's responsibility to avoid.
type Request struct {
	Timeline timeline.Timeline
	Output   string
	Settings encoder.Settings

	// SyncToNarration scales segment durations so the video length matches
	// the narration track.
	SyncToNarration bool
}

type Engine struct {
	Runner *encoder.Runner
	Prober *assets.Prober

	mu sync.Mutex // one render in flight per engine
}

func New() *Engine {
	return &Engine{Runner: encoder.NewRunner(), Prober: assets.NewProber()}
}

// Render runs the full pipeline. The encoder writes to a hidden partial file
// that is renamed onto the target only after a zero exit, so a failed render
// never leaves a half-written output mistaken for success.
func (e *Engine) Render(ctx context.Context, req Request) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Output == "" {
		return errors.New("engine: output path is required")
	}

	t := req.Timeline

	images := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		info, err := assets.ResolveImage(s.ImagePath)
		if err != nil {
			return errors.Wrapf(err, "segment %d", i)
		}
		images[i] = info.Path
	}

	mix, narrationDur := e.resolveMix(t.Audio)

	if req.SyncToNarration && mix.Narration != nil && narrationDur > 0 {
		scaled, err := scaleToNarration(t, narrationDur)
		if err != nil {
			return err
		}
		t = scaled
	}

	video, err := filtergraph.BuildVideo(t.Segments, t.Resolution, t.FPS, t.Transition)
	if err != nil {
		return err
	}
	audio := filtergraph.BuildAudio(mix, video.Inputs)

	partial := partialPath(req.Output)
	args := encoder.Compile(video, audio, images, partial, req.Settings)

	log.WithFields(log.Fields{
		"segments": len(t.Segments),
		"duration": video.Duration(),
		"tracks":   mix.TrackCount(),
		"output":   req.Output,
	}).Info("rendering")

	if err := e.Runner.Run(ctx, args); err != nil {
		if rmErr := os.Remove(partial); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warnf("could not remove partial output %s", partial)
		}
		return errors.Wrap(err, "render failed")
	}

	if err := os.Rename(partial, req.Output); err != nil {
		return errors.Wrapf(err, "publish %s", req.Output)
	}
	return nil
}

// resolveMix drops tracks whose files are missing. A referenced but absent
// audio track degrades to "no track" instead of failing the render, but the
// drop is logged so it is never silent.
func (e *Engine) resolveMix(mix timeline.AudioMix) (timeline.AudioMix, float64) {
	var narrationDur float64

	if mix.Narration != nil {
		ok, dur := e.Prober.ResolveAudio(mix.Narration.Path)
		if !ok {
			log.Warnf("narration file %s not found, rendering without it", mix.Narration.Path)
			mix.Narration = nil
		} else {
			narrationDur = dur
		}
	}
	if mix.Music != nil {
		if ok, _ := e.Prober.ResolveAudio(mix.Music.Path); !ok {
			log.Warnf("music file %s not found, rendering without it", mix.Music.Path)
			mix.Music = nil
		}
	}
	return mix, narrationDur
}

// scaleToNarration stretches or squeezes every segment so the composed video
// lasts exactly as long as the narration, then revalidates: the summed
// on-screen time has to cover the crossfade overlaps on top of the target.
func scaleToNarration(t timeline.Timeline, narrationDur float64) (timeline.Timeline, error) {
	target := narrationDur
	if t.Transition.Type == timeline.TransitionCrossfade && len(t.Segments) > 1 {
		target += float64(len(t.Segments)-1) * t.Transition.Duration
	}

	sum := 0.0
	for _, s := range t.Segments {
		sum += s.Duration
	}
	if sum <= 0 {
		return timeline.Timeline{}, errors.New("engine: cannot scale zero-length timeline")
	}

	factor := target / sum
	segments := make([]timeline.Segment, len(t.Segments))
	for i, s := range t.Segments {
		s.Duration *= factor
		segments[i] = s
	}

	scaled, err := timeline.New(segments, t.Transition, t.Resolution, t.FPS, t.Audio)
	if err != nil {
		return timeline.Timeline{}, errors.Wrap(err, "after narration sync")
	}
	log.Debugf("segment durations scaled x%.3f to match narration (%.2fs)", factor, narrationDur)
	return scaled, nil
}

func partialPath(output string) string {
	dir := filepath.Dir(output)
	base := filepath.Base(output)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+stem+".partial"+ext)
}
