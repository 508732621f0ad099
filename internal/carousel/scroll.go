package carousel

import (
	"fmt"

	"github.com/ivlev/storyreel/internal/encoder"
)

// ScaledStripWidth is the strip width after ffmpeg scales it to the output
// frame height (scale=-1:H preserves aspect ratio).
func ScaledStripWidth(stripW, stripH, outH int) int {
	return int(float64(stripW) * float64(outH) / float64(stripH))
}

// ScrollDuration derives the render length from a constant scroll speed: the
// crop window has to travel the scaled strip minus one output frame width.
func ScrollDuration(scaledStripW, outW int, pxPerSecond float64) float64 {
	return float64(scaledStripW-outW) / pxPerSecond
}

// ScrollFilter builds the crop-and-scale graph: the crop x origin moves
// linearly from 0 to iw-W over the full duration (the min() pins the final
// frame), and the static overlay is composited on top without moving.
func ScrollFilter(outW, outH int, duration float64) string {
	return fmt.Sprintf(
		"[0:v]scale=-1:%d,crop=%d:%d:'min(iw-%d,(iw-%d)*t/%f)':0[bg];"+
			"[bg][1:v]overlay=0:0:format=auto",
		outH, outW, outH, outW, outW, duration)
}

// BuildScrollArgs compiles the carousel render command: two looped image
// inputs (strip, overlay), the scroll graph, and a hard -t since looped
// inputs never end on their own.
func BuildScrollArgs(stripPath, overlayPath, output string, outW, outH, fps int, duration float64, s encoder.Settings) []string {
	args := []string{
		"-y",
		"-loop", "1", "-i", stripPath,
		"-loop", "1", "-i", overlayPath,
		"-filter_complex", ScrollFilter(outW, outH, duration),
		"-t", fmt.Sprintf("%f", duration),
		"-c:v", s.VideoEncoder,
	}
	args = append(args, encoder.QualityArgs(s.VideoEncoder, s.Quality)...)
	args = append(args,
		"-pix_fmt", s.PixelFormat,
		"-r", fmt.Sprintf("%d", fps),
		output,
	)
	return args
}
