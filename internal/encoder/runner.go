package encoder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// tailLines is how much stderr context a failure report keeps.
const tailLines = 20

// RunError carries the exit code and the stderr tail of a failed encoder run.
type RunError struct {
	ExitCode int
	Tail     []string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("encoder exited with code %d:\n%s", e.ExitCode, strings.Join(e.Tail, "\n"))
}

// Runner invokes the external encoder. It streams stderr line by line while
// the process runs, logs progress-relevant lines, and classifies the outcome
// strictly by exit code - never by scraping success or failure text.
type Runner struct {
	Binary string
}

func NewRunner() *Runner {
	return &Runner{Binary: "ffmpeg"}
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "stderr pipe")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", r.Binary)
	}

	log.WithField("binary", r.Binary).Debugf("> %s %s", r.Binary, strings.Join(args, " "))

	tail := make([]string, 0, tailLines)
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanStatusLines)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(tail) == tailLines {
			copy(tail, tail[1:])
			tail = tail[:tailLines-1]
		}
		tail = append(tail, line)

		if strings.Contains(line, "frame=") || strings.Contains(line, "time=") {
			log.Debug(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "encoder canceled")
		}
		return &RunError{ExitCode: code, Tail: tail}
	}
	return nil
}

// scanStatusLines splits on \n like bufio.ScanLines but also on bare \r,
// which is how ffmpeg redraws its progress line.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
