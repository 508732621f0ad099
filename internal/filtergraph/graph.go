// Package filtergraph turns a validated timeline into the filter_complex
// statements fed to ffmpeg. Construction is pure: no file is touched and no
// process is spawned, which is what keeps the offset arithmetic testable.
package filtergraph

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/storyreel/internal/timeline"
)

// VideoGraph is the video side of a filter_complex: one normalization chain
// per segment plus either an xfade fold or a single concat node.
type VideoGraph struct {
	Statements []string
	Output     string // label of the final node, e.g. "[vout]"
	Inputs     int    // number of image inputs consumed

	duration float64
}

// Duration is the composed output length implied by the graph.
func (g *VideoGraph) Duration() float64 {
	return g.duration
}

// BuildVideo emits, per segment, a chain that scales into the target frame,
// pads the remainder with centered black, pins SAR/pixel format, forces a
// constant frame rate, and trims to an exact frame count. Segments are then
// folded with xfade, or concatenated when no transition is requested.
func BuildVideo(segments []timeline.Segment, res timeline.Resolution, fps int, tr timeline.Transition) (*VideoGraph, error) {
	// Revalidate here so a caller bypassing timeline.New still cannot
	// observe a partially built graph. The validated copy also carries the
	// frame-snapped durations the offset arithmetic depends on.
	t, err := timeline.New(segments, tr, res, fps, timeline.AudioMix{})
	if err != nil {
		return nil, err
	}
	segments = t.Segments
	tr = t.Transition

	g := &VideoGraph{Inputs: len(segments)}

	for i, s := range segments {
		frames := int(math.Round(s.Duration * float64(fps)))
		g.Statements = append(g.Statements, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,"+
				"pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,format=yuv420p,"+
				"fps=fps=%d,trim=start_frame=0:end_frame=%d[v%d]",
			i, res.Width, res.Height, res.Width, res.Height, fps, frames, i))
		g.duration += s.Duration
	}

	if tr.Type == timeline.TransitionCrossfade && len(segments) > 1 {
		// Left fold: each step crossfades the running composite into the
		// next segment. The offset advances by the previous segment's
		// duration minus the overlap, so the total comes out at
		// sum(d_i) - (n-1)*fade regardless of how durations vary.
		current := "[v0]"
		offset := 0.0
		for i := 1; i < len(segments); i++ {
			offset += segments[i-1].Duration - tr.Duration
			out := fmt.Sprintf("[x%d]", i)
			g.Statements = append(g.Statements, fmt.Sprintf(
				"%s[v%d]xfade=transition=fade:duration=%f:offset=%f%s",
				current, i, tr.Duration, offset, out))
			current = out
		}
		g.Output = current
		g.duration -= float64(len(segments)-1) * tr.Duration
		return g, nil
	}

	var inputs strings.Builder
	for i := range segments {
		fmt.Fprintf(&inputs, "[v%d]", i)
	}
	g.Statements = append(g.Statements, fmt.Sprintf(
		"%sconcat=n=%d:v=1:a=0[vout]", inputs.String(), len(segments)))
	g.Output = "[vout]"
	return g, nil
}
