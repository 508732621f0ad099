// Package system wraps host-level concerns: encoder availability, file
// descriptor limits, worker sizing, and the newest-file input convention.
package system

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

// pageRenderMB is the working-set estimate for one rasterization worker.
const pageRenderMB = 512

// BestH264Encoder probes ffmpeg for hardware H.264 encoders and falls back
// to software x264.
func BestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	for _, enc := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(string(out), enc) {
			return enc
		}
	}
	return "libx264"
}

// RenderWorkers sizes the rasterization pool: one per CPU, capped so the
// workers' combined working set stays inside available memory.
func RenderWorkers() int {
	workers := runtime.NumCPU()

	if vm, err := mem.VirtualMemory(); err == nil {
		byMem := int(vm.Available / (pageRenderMB * 1024 * 1024))
		if byMem < workers {
			workers = byMem
		}
	}

	if workers < 1 {
		return 1
	}
	return workers
}

// LatestFile returns the most recently modified file in dir matching one of
// the extensions (lower case, with dot).
func LatestFile(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", dir)
	}

	var latest string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(dir, f.Name())
		}
	}

	if latest == "" {
		return "", errors.Errorf("no %s files found in %s", strings.Join(extensions, "/"), dir)
	}
	return latest, nil
}

// LatestAudio finds the newest audio file in dir.
func LatestAudio(dir string) (string, error) {
	return LatestFile(dir, []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"})
}

// LatestImage finds the newest still image in dir.
func LatestImage(dir string) (string, error) {
	return LatestFile(dir, []string{".jpg", ".jpeg", ".png"})
}
