package encoder

import (
	"strings"

	"github.com/ivlev/storyreel/internal/filtergraph"
)

// Compile merges the video and audio graphs into one ordered argument list:
// looped image inputs first, then audio inputs, then the combined
// filter_complex, stream mappings, and encode parameters. audio may be nil
// for video-only output, in which case no audio mapping or codec flags are
// emitted - mapping a stream that has no input makes ffmpeg fail outright.
func Compile(video *filtergraph.VideoGraph, audio *filtergraph.AudioGraph, images []string, output string, s Settings) []string {
	args := []string{"-y"}

	for _, img := range images {
		args = append(args, "-loop", "1", "-i", img)
	}
	if audio != nil {
		for _, p := range audio.Paths {
			args = append(args, "-i", p)
		}
	}

	statements := make([]string, 0, len(video.Statements)+3)
	statements = append(statements, video.Statements...)
	if audio != nil {
		statements = append(statements, audio.Statements...)
	}
	args = append(args, "-filter_complex", strings.Join(statements, ";"))

	args = append(args, "-map", video.Output)
	if audio != nil {
		args = append(args, "-map", audio.Output)
	}

	args = append(args, "-c:v", s.VideoEncoder)
	args = append(args, QualityArgs(s.VideoEncoder, s.Quality)...)
	args = append(args, "-pix_fmt", s.PixelFormat)

	if audio != nil {
		args = append(args, "-c:a", s.AudioCodec, "-b:a", s.AudioBitrate)
	}

	return append(args, output)
}
