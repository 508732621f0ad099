// Package encoder compiles filter graphs into a flat ffmpeg argument vector
// and runs the resulting command. Compilation is pure data transformation;
// only the Runner touches the process table.
package encoder

import "fmt"

// Settings are the fixed encode parameters appended after the stream
// mappings. AudioCodec/AudioBitrate are only emitted when the command
// actually maps an audio stream.
type Settings struct {
	VideoEncoder string // libx264, h264_videotoolbox, h264_nvenc
	Quality      int    // CRF for x264, -cq for nvenc, bitrate = Q*100k for videotoolbox
	PixelFormat  string
	AudioCodec   string
	AudioBitrate string
}

func DefaultSettings() Settings {
	return Settings{
		VideoEncoder: "libx264",
		Quality:      23,
		PixelFormat:  "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
	}
}

// QualityArgs translates the quality knob per encoder. VideoToolbox has no
// portable constant-quality flag, so it gets a bitrate instead.
func QualityArgs(videoEncoder string, quality int) []string {
	switch videoEncoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}
