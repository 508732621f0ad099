package encoder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ivlev/storyreel/internal/filtergraph"
	"github.com/ivlev/storyreel/internal/timeline"
)

func buildGraphs(t *testing.T, images []string, mix timeline.AudioMix) (*filtergraph.VideoGraph, *filtergraph.AudioGraph) {
	t.Helper()
	segments := make([]timeline.Segment, len(images))
	for i, img := range images {
		segments[i] = timeline.Segment{ImagePath: img, Duration: 5}
	}
	video, err := filtergraph.BuildVideo(segments, timeline.Resolution{Width: 1920, Height: 1080}, 30,
		timeline.Transition{Type: timeline.TransitionCrossfade, Duration: 1})
	if err != nil {
		t.Fatalf("BuildVideo failed: %v", err)
	}
	return video, filtergraph.BuildAudio(mix, len(images))
}

func TestCompileVideoOnly(t *testing.T) {
	images := []string{"a.png", "b.png"}
	video, audio := buildGraphs(t, images, timeline.AudioMix{})
	if audio != nil {
		t.Fatal("empty mix must produce no audio graph")
	}

	args := Compile(video, audio, images, "out.mp4", DefaultSettings())

	joined := strings.Join(args, " ")
	for _, banned := range []string{"-c:a", "-b:a", "[aout]"} {
		if strings.Contains(joined, banned) {
			t.Errorf("video-only command must not contain %q: %s", banned, joined)
		}
	}
	if args[0] != "-y" {
		t.Errorf("overwrite flag must come first, got %s", args[0])
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output path must come last, got %s", args[len(args)-1])
	}
}

func TestCompileInputOrdering(t *testing.T) {
	images := []string{"a.png", "b.png"}
	mix := timeline.AudioMix{
		Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1},
		Music:     &timeline.AudioTrack{Path: "music.mp3", Volume: 0.3},
	}
	video, audio := buildGraphs(t, images, mix)

	args := Compile(video, audio, images, "out.mp4", DefaultSettings())

	// Every image is looped; audio follows in narration-then-music order.
	var inputs []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-i" {
			inputs = append(inputs, args[i+1])
		}
	}
	want := []string{"a.png", "b.png", "voice.mp3", "music.mp3"}
	if !reflect.DeepEqual(inputs, want) {
		t.Errorf("expected inputs %v, got %v", want, inputs)
	}

	loops := 0
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-loop" && args[i+1] == "1" {
			loops++
		}
	}
	if loops != len(images) {
		t.Errorf("expected %d -loop 1 pairs, got %d", len(images), loops)
	}
}

func TestCompileSingleFilterComplex(t *testing.T) {
	images := []string{"a.png", "b.png", "c.png"}
	mix := timeline.AudioMix{Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1}}
	video, audio := buildGraphs(t, images, mix)

	args := Compile(video, audio, images, "out.mp4", DefaultSettings())

	var filters []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-filter_complex" {
			filters = append(filters, args[i+1])
		}
	}
	if len(filters) != 1 {
		t.Fatalf("expected exactly one -filter_complex, got %d", len(filters))
	}

	// Video statements precede audio statements in the joined graph.
	fc := filters[0]
	if !strings.Contains(fc, ";") {
		t.Error("statements must be joined with semicolons")
	}
	if vi, ai := strings.Index(fc, "[v0]"), strings.Index(fc, "[aout]"); vi < 0 || ai < 0 || vi > ai {
		t.Errorf("video chains must precede the audio mix: %s", fc)
	}
}

func TestCompileMapsBothStreams(t *testing.T) {
	images := []string{"a.png", "b.png"}
	mix := timeline.AudioMix{Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1}}
	video, audio := buildGraphs(t, images, mix)

	args := Compile(video, audio, images, "out.mp4", DefaultSettings())

	var maps []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-map" {
			maps = append(maps, args[i+1])
		}
	}
	want := []string{video.Output, "[aout]"}
	if !reflect.DeepEqual(maps, want) {
		t.Errorf("expected maps %v, got %v", want, maps)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:a aac -b:a 192k") {
		t.Errorf("audio codec flags missing: %s", joined)
	}
}

func TestQualityArgs(t *testing.T) {
	cases := []struct {
		encoder string
		quality int
		want    []string
	}{
		{"libx264", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"h264_nvenc", 28, []string{"-cq", "28"}},
		{"h264_videotoolbox", 75, []string{"-b:v", "7500k"}},
		{"libx265", 26, []string{"-crf", "26", "-preset", "medium"}},
	}
	for _, tc := range cases {
		if got := QualityArgs(tc.encoder, tc.quality); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s/%d: expected %v, got %v", tc.encoder, tc.quality, tc.want, got)
		}
	}
}
