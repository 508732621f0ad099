package filtergraph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ivlev/storyreel/internal/timeline"
)

func TestBuildAudioEmptyMix(t *testing.T) {
	if g := BuildAudio(timeline.AudioMix{}, 4); g != nil {
		t.Errorf("empty mix must yield no audio graph, got %+v", g)
	}
}

func TestBuildAudioSingleTrack(t *testing.T) {
	cases := []struct {
		name string
		mix  timeline.AudioMix
		path string
	}{
		{"narration only", timeline.AudioMix{
			Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1},
		}, "voice.mp3"},
		{"music only", timeline.AudioMix{
			Music: &timeline.AudioTrack{Path: "music.mp3", Volume: 0.3},
		}, "music.mp3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := BuildAudio(tc.mix, 4)
			if g == nil {
				t.Fatal("expected a graph")
			}
			if len(g.Statements) != 1 {
				t.Fatalf("single track needs one statement, got %v", g.Statements)
			}
			// Four image inputs occupy indices 0..3, so the track is input 4.
			if !strings.HasPrefix(g.Statements[0], "[4:a]volume=") {
				t.Errorf("wrong input index: %s", g.Statements[0])
			}
			if !strings.HasSuffix(g.Statements[0], "[aout]") {
				t.Errorf("missing output label: %s", g.Statements[0])
			}
			if g.Output != "[aout]" {
				t.Errorf("unexpected output %s", g.Output)
			}
			if len(g.Paths) != 1 || g.Paths[0] != tc.path {
				t.Errorf("unexpected paths %v", g.Paths)
			}
		})
	}
}

func TestBuildAudioTwoTracks(t *testing.T) {
	mix := timeline.AudioMix{
		Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1},
		Music:     &timeline.AudioTrack{Path: "music.mp3", Volume: 0.3},
	}
	g := BuildAudio(mix, 4)
	if g == nil {
		t.Fatal("expected a graph")
	}
	if len(g.Statements) != 3 {
		t.Fatalf("expected volume+volume+amix, got %v", g.Statements)
	}
	if g.Statements[0] != "[4:a]volume=1.00[voice]" {
		t.Errorf("narration node: %s", g.Statements[0])
	}
	if g.Statements[1] != "[5:a]volume=0.30[music]" {
		t.Errorf("music node: %s", g.Statements[1])
	}
	if g.Statements[2] != "[voice][music]amix=inputs=2:duration=longest[aout]" {
		t.Errorf("mix node: %s", g.Statements[2])
	}
	// Narration first: its index precedes music in the input list.
	if len(g.Paths) != 2 || g.Paths[0] != "voice.mp3" || g.Paths[1] != "music.mp3" {
		t.Errorf("unexpected path order %v", g.Paths)
	}
}

func TestBuildAudioIndexFollowsImageCount(t *testing.T) {
	mix := timeline.AudioMix{
		Narration: &timeline.AudioTrack{Path: "voice.mp3", Volume: 1},
	}
	for _, images := range []int{1, 4, 12} {
		g := BuildAudio(mix, images)
		want := fmt.Sprintf("[%d:a]", images)
		if !strings.HasPrefix(g.Statements[0], want) {
			t.Errorf("%d images: expected prefix %s, got %s", images, want, g.Statements[0])
		}
	}
}
