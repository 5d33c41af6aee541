package segments

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// Result holds the two scratch artifacts produced from one source.
// Both live in the scratch directory until the artifact store moves
// them to durable storage.
type Result struct {
	VideoPath     string
	ThumbnailPath string
}

// Processor trims a source video to a time range and generates a
// thumbnail from the trimmed output. All work is sequential: the
// thumbnail must reflect the trimmed content's first frame, so it is
// only generated after the trim succeeds. There are no partial
// results; any failure leaves nothing for the caller to persist.
type Processor struct {
	ffmpegPath  string
	ffprobePath string
	scratchDir  string
	timeout     time.Duration
	runner      CommandRunner
}

// Option is a functional option for configuring Processor
type Option func(*Processor)

// WithRunner sets a custom command runner (for testing)
func WithRunner(runner CommandRunner) Option {
	return func(p *Processor) {
		p.runner = runner
	}
}

// NewProcessor creates an ffmpeg-backed processor writing into
// scratchDir, which is created if missing.
func NewProcessor(ffmpegPath, ffprobePath, scratchDir string, timeout time.Duration, opts ...Option) (*Processor, error) {
	if err := os.MkdirAll(scratchDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	p := &Processor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		scratchDir:  scratchDir,
		timeout:     timeout,
		runner:      &ExecRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// ValidateBinaries checks that ffmpeg and ffprobe are available
func (p *Processor) ValidateBinaries() error {
	if _, err := exec.LookPath(p.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found: %s", p.ffmpegPath)
	}
	if _, err := exec.LookPath(p.ffprobePath); err != nil {
		return fmt.Errorf("ffprobe not found: %s", p.ffprobePath)
	}
	return nil
}

// Process trims sourcePath to [start, end) and generates a first-frame
// thumbnail from the trimmed output. Both files land in the scratch
// directory under unique names.
func (p *Processor) Process(ctx context.Context, sourcePath string, start, end time.Duration) (*Result, error) {
	if end <= start {
		return nil, apperrors.Newf(apperrors.ErrCodeTrimFailed, "invalid time range: start=%v, end=%v", start, end)
	}

	if err := checkReadable(sourcePath); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stamp := time.Now().UnixNano()
	videoPath := filepath.Join(p.scratchDir, fmt.Sprintf("trim_%d.mp4", stamp))
	thumbPath := filepath.Join(p.scratchDir, fmt.Sprintf("thumb_%d.jpg", stamp))

	if err := p.trim(ctx, sourcePath, videoPath, start, end); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTrimFailed, "video trim failed")
	}

	if err := p.thumbnail(ctx, videoPath, thumbPath); err != nil {
		// All-or-nothing: discard the trim so nothing references a
		// missing thumbnail
		_ = os.Remove(videoPath)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeThumbnailFailed, "thumbnail generation failed")
	}

	return &Result{VideoPath: videoPath, ThumbnailPath: thumbPath}, nil
}

// Probe returns the duration of a video file via ffprobe. Used to
// validate picked sources before any trim work starts.
func (p *Processor) Probe(ctx context.Context, sourcePath string) (time.Duration, error) {
	if err := checkReadable(sourcePath); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-i", sourcePath,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0",
	}

	output, err := p.runner.Output(ctx, p.ffprobePath, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not read video duration")
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeValidation, "could not parse video duration")
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// trim extracts [start, end) using stream copy, which keeps trims fast
// and lossless. -ss before -i seeks on the input for speed.
func (p *Processor) trim(ctx context.Context, sourcePath, outputPath string, start, end time.Duration) error {
	args := []string{
		"-ss", formatSeconds(start),
		"-i", sourcePath,
		"-t", formatSeconds(end - start),
		"-c", "copy",
		"-y",
		outputPath,
	}
	return p.runner.Run(ctx, p.ffmpegPath, args...)
}

// thumbnail grabs the first frame of the trimmed file as a JPEG
func (p *Processor) thumbnail(ctx context.Context, videoPath, outputPath string) error {
	args := []string{
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputPath,
	}
	return p.runner.Run(ctx, p.ffmpegPath, args...)
}

// checkReadable maps filesystem access problems onto the error
// taxonomy before ffmpeg gets a chance to fail obscurely.
func checkReadable(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return apperrors.Newf(apperrors.ErrCodeValidation, "source video does not exist: %s", path)
		}
		if os.IsPermission(err) {
			return apperrors.Wrap(err, apperrors.ErrCodePermissionDenied, "source video is not accessible")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeTrimFailed, "could not stat source video")
	}
	return nil
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
