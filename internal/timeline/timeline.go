// Package timeline defines the immutable composition request handed to the
// render pipeline. A Timeline is validated once at construction; everything
// downstream (graph builders, command compiler) may assume it is well formed.
package timeline

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrNoSegments       = errors.New("timeline: at least one segment is required")
	ErrBadResolution    = errors.New("timeline: resolution must be positive and even")
	ErrBadFPS           = errors.New("timeline: fps must be positive")
	ErrBadDuration      = errors.New("timeline: segment duration must be positive")
	ErrFadeTooLong      = errors.New("timeline: crossfade must be shorter than every segment")
	ErrBadFadeDuration  = errors.New("timeline: crossfade duration must be positive")
	ErrUnknownTransition = errors.New("timeline: unknown transition type")
)

type TransitionType string

const (
	TransitionNone      TransitionType = "none"
	TransitionCrossfade TransitionType = "crossfade"
)

type Transition struct {
	Type     TransitionType
	Duration float64 // seconds, crossfade only
}

// Segment is one still image and its on-screen time before any transition
// overlap is subtracted.
type Segment struct {
	ImagePath string
	Duration  float64
}

type AudioTrack struct {
	Path   string
	Volume float64 // clamped to [0,1] at construction
}

// AudioMix holds zero to two tracks. Narration always plays at full volume,
// music at its configured weight.
type AudioMix struct {
	Narration *AudioTrack
	Music     *AudioTrack
}

// TrackCount reports how many tracks are present.
func (m AudioMix) TrackCount() int {
	n := 0
	if m.Narration != nil {
		n++
	}
	if m.Music != nil {
		n++
	}
	return n
}

type Resolution struct {
	Width  int
	Height int
}

type Timeline struct {
	Segments   []Segment
	Transition Transition
	Resolution Resolution
	FPS        int
	Audio      AudioMix
}

// New validates and normalizes a composition request. Segment durations are
// snapped to whole frames so xfade offsets stay aligned with the frame-based
// trim applied per segment, and track volumes are clamped to [0,1].
func New(segments []Segment, tr Transition, res Resolution, fps int, audio AudioMix) (Timeline, error) {
	if len(segments) == 0 {
		return Timeline{}, ErrNoSegments
	}
	if fps <= 0 {
		return Timeline{}, ErrBadFPS
	}
	if res.Width <= 0 || res.Height <= 0 || res.Width%2 != 0 || res.Height%2 != 0 {
		return Timeline{}, ErrBadResolution
	}

	snapped := make([]Segment, len(segments))
	for i, s := range segments {
		if s.Duration <= 0 {
			return Timeline{}, errors.Wrapf(ErrBadDuration, "segment %d", i)
		}
		s.Duration = snapToFrame(s.Duration, fps)
		if s.Duration <= 0 {
			return Timeline{}, errors.Wrapf(ErrBadDuration, "segment %d rounds to zero frames", i)
		}
		snapped[i] = s
	}

	switch tr.Type {
	case TransitionNone:
		tr.Duration = 0
	case TransitionCrossfade:
		if tr.Duration <= 0 {
			return Timeline{}, ErrBadFadeDuration
		}
		for i, s := range snapped {
			if tr.Duration >= s.Duration {
				return Timeline{}, errors.Wrapf(ErrFadeTooLong, "segment %d lasts %.3fs, crossfade %.3fs", i, s.Duration, tr.Duration)
			}
		}
	default:
		return Timeline{}, errors.Wrapf(ErrUnknownTransition, "%q", tr.Type)
	}

	if audio.Narration != nil {
		t := *audio.Narration
		t.Volume = clampVolume(t.Volume)
		audio.Narration = &t
	}
	if audio.Music != nil {
		t := *audio.Music
		t.Volume = clampVolume(t.Volume)
		audio.Music = &t
	}

	return Timeline{
		Segments:   snapped,
		Transition: tr,
		Resolution: res,
		FPS:        fps,
		Audio:      audio,
	}, nil
}

// TotalDuration is the expected output length: the plain sum of segment
// durations, minus one crossfade overlap per adjacent pair.
func (t Timeline) TotalDuration() float64 {
	sum := 0.0
	for _, s := range t.Segments {
		sum += s.Duration
	}
	if t.Transition.Type == TransitionCrossfade && len(t.Segments) > 1 {
		sum -= float64(len(t.Segments)-1) * t.Transition.Duration
	}
	return sum
}

func snapToFrame(d float64, fps int) float64 {
	return math.Round(d*float64(fps)) / float64(fps)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
