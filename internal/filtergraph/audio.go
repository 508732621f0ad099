package filtergraph

import (
	"fmt"

	"github.com/ivlev/storyreel/internal/timeline"
)

// AudioGraph is the audio side of a filter_complex. Nil means video-only
// output: the command compiler must then emit no audio mapping at all.
type AudioGraph struct {
	Statements []string
	Output     string   // label of the final node, e.g. "[aout]"
	Paths      []string // audio input files in the order they must be added
}

// BuildAudio builds the mix for the present tracks. Input stream indices
// start at videoInputs because images and audio share one flat input index
// space in the final command, images first.
//
// One track gets a single volume node; two tracks each get a volume node and
// feed an amix with duration=longest, so the shorter track is padded with
// silence instead of truncating the mix.
func BuildAudio(mix timeline.AudioMix, videoInputs int) *AudioGraph {
	narration, music := mix.Narration, mix.Music

	switch {
	case narration == nil && music == nil:
		return nil

	case narration != nil && music != nil:
		idx := videoInputs
		return &AudioGraph{
			Statements: []string{
				fmt.Sprintf("[%d:a]volume=%.2f[voice]", idx, narration.Volume),
				fmt.Sprintf("[%d:a]volume=%.2f[music]", idx+1, music.Volume),
				"[voice][music]amix=inputs=2:duration=longest[aout]",
			},
			Output: "[aout]",
			Paths:  []string{narration.Path, music.Path},
		}

	default:
		track := narration
		if track == nil {
			track = music
		}
		return &AudioGraph{
			Statements: []string{
				fmt.Sprintf("[%d:a]volume=%.2f[aout]", videoInputs, track.Volume),
			},
			Output: "[aout]",
			Paths:  []string{track.Path},
		}
	}
}
