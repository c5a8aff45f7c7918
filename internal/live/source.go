package live

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/stylelens/stylelens/internal/errors"
)

// FrameSource produces JPEG frames from a camera or another feed. Close
// releases the underlying capture resource; no frames may be captured
// after Close.
type FrameSource interface {
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}

// CameraSource grabs single frames from a V4L2 device by shelling out to
// ffmpeg. One frame per Capture keeps the device free between ticks, so
// other programs can still open the camera while the loop idles.
type CameraSource struct {
	Device string
	closed bool
}

// NewCameraSource returns a source reading from device (e.g. /dev/video0).
func NewCameraSource(device string) *CameraSource {
	return &CameraSource{Device: device}
}

func (c *CameraSource) Capture(ctx context.Context) ([]byte, error) {
	if c.closed {
		return nil, errors.New(errors.ErrCodeLiveCaptureFailed, "capture source is closed")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "v4l2",
		"-i", c.Device,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"-loglevel", "error",
		"pipe:1",
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return nil, errors.NewLiveSourceError(c.Device, fmt.Errorf("ffmpeg: %s", msg))
	}

	if out.Len() == 0 {
		return nil, errors.NewLiveSourceError(c.Device, fmt.Errorf("ffmpeg produced no frame"))
	}
	return out.Bytes(), nil
}

func (c *CameraSource) Close() error {
	c.closed = true
	return nil
}

// FileSource replays a fixed set of image files, one per Capture, and
// repeats the last one once exhausted. Used for tests and for analyzing a
// recorded sequence without a camera.
type FileSource struct {
	Paths  []string
	next   int
	closed bool
}

func NewFileSource(paths ...string) *FileSource {
	return &FileSource{Paths: paths}
}

func (f *FileSource) Capture(ctx context.Context) ([]byte, error) {
	if f.closed {
		return nil, errors.New(errors.ErrCodeLiveCaptureFailed, "capture source is closed")
	}
	if len(f.Paths) == 0 {
		return nil, errors.New(errors.ErrCodeLiveSourceUnavailable, "no frames configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := f.Paths[f.next]
	if f.next < len(f.Paths)-1 {
		f.next++
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLiveSourceError(path, err)
	}
	return data, nil
}

func (f *FileSource) Close() error {
	f.closed = true
	return nil
}
