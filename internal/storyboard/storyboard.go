// Package storyboard reads and writes the yaml description of a story
// timeline: ordered segments with durations, the transition, and the audio
// tracks. A storyboard is just serialization; validation happens when it is
// converted to a timeline.
package storyboard

import (
	"fmt"

	"github.com/ivlev/storyreel/internal/timeline"
)

type Storyboard struct {
	Version    string         `yaml:"version"`
	Output     string         `yaml:"output,omitempty"`
	Resolution string         `yaml:"resolution"` // WxH, e.g. 1920x1080
	FPS        int            `yaml:"fps"`
	Transition TransitionSpec `yaml:"transition"`
	Segments   []SegmentSpec  `yaml:"segments"`
	Audio      AudioSpec      `yaml:"audio,omitempty"`
}

type TransitionSpec struct {
	Type     string  `yaml:"type"`
	Duration float64 `yaml:"duration,omitempty"`
}

type SegmentSpec struct {
	Image    string  `yaml:"image"`
	Duration float64 `yaml:"duration"`
}

type AudioSpec struct {
	Narration   string  `yaml:"narration,omitempty"`
	Music       string  `yaml:"music,omitempty"`
	MusicVolume float64 `yaml:"music_volume,omitempty"`
}

// Timeline converts the storyboard into a validated composition request.
func (s *Storyboard) Timeline() (timeline.Timeline, error) {
	var w, h int
	if _, err := fmt.Sscanf(s.Resolution, "%dx%d", &w, &h); err != nil {
		return timeline.Timeline{}, fmt.Errorf("storyboard: resolution %q is not WxH: %w", s.Resolution, err)
	}

	segments := make([]timeline.Segment, len(s.Segments))
	for i, seg := range s.Segments {
		segments[i] = timeline.Segment{ImagePath: seg.Image, Duration: seg.Duration}
	}

	tr := timeline.Transition{Type: timeline.TransitionNone}
	if s.Transition.Type != "" {
		tr = timeline.Transition{
			Type:     timeline.TransitionType(s.Transition.Type),
			Duration: s.Transition.Duration,
		}
	}

	var mix timeline.AudioMix
	if s.Audio.Narration != "" {
		mix.Narration = &timeline.AudioTrack{Path: s.Audio.Narration, Volume: 1.0}
	}
	if s.Audio.Music != "" {
		mix.Music = &timeline.AudioTrack{Path: s.Audio.Music, Volume: s.Audio.MusicVolume}
	}

	return timeline.New(segments, tr, timeline.Resolution{Width: w, Height: h}, s.FPS, mix)
}
