//go:build unix

package system

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// InitResourceLimits raises the open-file limit; a long timeline opens one
// ffmpeg input per image plus the audio tracks.
func InitResourceLimits() {
	var rLimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Warn("could not read open-file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Warn("could not raise open-file limit")
	}
}
