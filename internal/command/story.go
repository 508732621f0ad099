package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/encoder"
	"github.com/ivlev/storyreel/internal/engine"
	"github.com/ivlev/storyreel/internal/source"
	"github.com/ivlev/storyreel/internal/storyboard"
	"github.com/ivlev/storyreel/internal/system"
	"github.com/ivlev/storyreel/internal/timeline"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Render a narrated still-image timeline",
	RunE:  runStory,
}

func init() {
	f := storyCmd.Flags()
	f.String("storyboard", "", "YAML storyboard describing the whole timeline")
	f.StringSlice("images", nil, "ordered image files (alternative to --input)")
	f.String("input", "", "directory of images or a PDF whose pages become segments")
	f.String("output", "", "output video path (default: generated under output/)")
	f.Float64("duration", 5, "seconds per image")
	f.String("transition", "crossfade", "transition between segments: crossfade, none")
	f.Float64("fade", 1.0, "crossfade duration in seconds")
	f.String("resolution", "1920x1080", "output resolution WxH")
	f.Int("fps", 30, "output frame rate")
	f.String("narration", "", "narration audio file")
	f.String("music", "", "background music file")
	f.Float64("music-volume", 0.3, "music volume 0.0-1.0")
	f.Bool("sync-audio", false, "scale segment durations to match the narration length")
	f.String("encoder", "", "video encoder (default: best available H.264)")
	f.Int("quality", 0, "encoder quality (0 = per-encoder default)")
	f.Int("dpi", 300, "rasterization DPI for PDF input")

	rootCmd.AddCommand(storyCmd)
}

func runStory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f := cmd.Flags()

	output, _ := f.GetString("output")

	var t timeline.Timeline
	if sbPath, _ := f.GetString("storyboard"); sbPath != "" {
		sb, err := storyboard.Read(sbPath)
		if err != nil {
			return err
		}
		t, err = sb.Timeline()
		if err != nil {
			return err
		}
		if output == "" {
			output = sb.Output
		}
	} else {
		var cleanup func()
		var err error
		t, cleanup, err = timelineFromFlags(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	if output == "" {
		output = defaultOutput(t)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(output))
	}

	syncAudio, _ := f.GetBool("sync-audio")
	req := engine.Request{
		Timeline:        t,
		Output:          output,
		Settings:        settingsFromFlags(cmd),
		SyncToNarration: syncAudio,
	}

	if err := newEngine().Render(ctx, req); err != nil {
		return err
	}
	log.Infof("rendered %s", output)
	return nil
}

// timelineFromFlags assembles a timeline from loose flags: an explicit image
// list, a directory or PDF input, or the newest files under the conventional
// input/ directories when nothing is given. The cleanup removes any pages
// materialized from a PDF and must run after the render finishes.
func timelineFromFlags(ctx context.Context, cmd *cobra.Command) (timeline.Timeline, func(), error) {
	f := cmd.Flags()
	noop := func() {}

	images, _ := f.GetStringSlice("images")
	input, _ := f.GetString("input")
	dpi, _ := f.GetInt("dpi")

	var src source.Source
	var err error
	switch {
	case len(images) > 0:
		src, err = source.NewImageSource(images)
	case strings.EqualFold(filepath.Ext(input), ".pdf"):
		src, err = source.NewPDFSource(input, dpi)
	case input != "":
		src, err = source.NewDirSource(input)
	default:
		src, err = source.NewDirSource("input/images")
	}
	if err != nil {
		return timeline.Timeline{}, noop, err
	}
	defer src.Close()

	tmpDir, err := os.MkdirTemp("", "storyreel_pages_")
	if err != nil {
		return timeline.Timeline{}, noop, errors.Wrap(err, "temp dir")
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	paths, err := src.Images(ctx, tmpDir)
	if err != nil {
		cleanup()
		return timeline.Timeline{}, noop, err
	}

	perImage, _ := f.GetFloat64("duration")
	segments := make([]timeline.Segment, len(paths))
	for i, p := range paths {
		segments[i] = timeline.Segment{ImagePath: p, Duration: perImage}
	}

	trType, _ := f.GetString("transition")
	fade, _ := f.GetFloat64("fade")
	tr := timeline.Transition{Type: timeline.TransitionType(trType)}
	if tr.Type == timeline.TransitionCrossfade {
		tr.Duration = fade
	}

	resolution, _ := f.GetString("resolution")
	var w, h int
	if _, err := fmt.Sscanf(resolution, "%dx%d", &w, &h); err != nil {
		cleanup()
		return timeline.Timeline{}, noop, errors.Errorf("resolution %q is not WxH", resolution)
	}
	fps, _ := f.GetInt("fps")

	mix := timeline.AudioMix{}
	narration, _ := f.GetString("narration")
	if narration == "" {
		if latest, err := system.LatestAudio("input/audio"); err == nil {
			narration = latest
			log.Infof("using newest narration: %s", narration)
		}
	}
	if narration != "" {
		mix.Narration = &timeline.AudioTrack{Path: narration, Volume: 1.0}
	}
	if music, _ := f.GetString("music"); music != "" {
		volume, _ := f.GetFloat64("music-volume")
		mix.Music = &timeline.AudioTrack{Path: music, Volume: volume}
	}

	t, err := timeline.New(segments, tr, timeline.Resolution{Width: w, Height: h}, fps, mix)
	if err != nil {
		cleanup()
		return timeline.Timeline{}, noop, err
	}
	return t, cleanup, nil
}

// settingsFromFlags picks the encoder and translates the quality knob the
// same way for story and carousel renders.
func settingsFromFlags(cmd *cobra.Command) encoder.Settings {
	f := cmd.Flags()
	s := encoder.DefaultSettings()

	if enc, _ := f.GetString("encoder"); enc != "" {
		s.VideoEncoder = enc
	} else {
		s.VideoEncoder = system.BestH264Encoder()
		if s.VideoEncoder != "libx264" {
			log.Infof("hardware encoder detected: %s", s.VideoEncoder)
		}
	}

	if q, _ := f.GetInt("quality"); q > 0 {
		s.Quality = q
	} else {
		switch s.VideoEncoder {
		case "h264_videotoolbox":
			s.Quality = 75
		case "h264_nvenc":
			s.Quality = 28
		default:
			s.Quality = 23
		}
	}
	return s
}

func defaultOutput(t timeline.Timeline) string {
	name := "story"
	if len(t.Segments) > 0 {
		base := filepath.Base(t.Segments[0].ImagePath)
		name = strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	}
	stamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s.mp4", name, stamp))
}
