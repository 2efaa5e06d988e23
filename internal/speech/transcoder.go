package speech

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/voicedesk/voicedesk/pkg/logging"
)

// Transcoder converts browser-captured audio containers into WAV. A nil
// result means the input could not be converted; callers must treat that
// defensively rather than as a turn-aborting error.
type Transcoder interface {
	ToWAV(ctx context.Context, raw []byte) []byte
}

// FFmpegTranscoder shells out to the ffmpeg binary, piping the container in
// on stdin and reading WAV from stdout.
type FFmpegTranscoder struct {
	path    string
	timeout time.Duration
	logger  *logging.Logger
}

// NewFFmpegTranscoder creates a transcoder using the given ffmpeg binary.
func NewFFmpegTranscoder(path string, timeout time.Duration, logger *logging.Logger) *FFmpegTranscoder {
	if path == "" {
		path = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FFmpegTranscoder{path: path, timeout: timeout, logger: logger}
}

// ToWAV converts raw container bytes to WAV, returning nil on any failure.
func (t *FFmpegTranscoder) ToWAV(ctx context.Context, raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.path, "-i", "pipe:0", "-f", "wav", "pipe:1")
	cmd.Stdin = bytes.NewReader(raw)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.logger.Warn("ffmpeg transcode failed",
			"error", err,
			"stderr_len", stderr.Len(),
		)
		return nil
	}
	if stdout.Len() == 0 {
		return nil
	}
	return stdout.Bytes()
}
