package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kamal-hamza/assetctl/pkg/config"
)

// FFmpegEncoder implements the Encoder port by shelling out to ffmpeg
type FFmpegEncoder struct {
	config config.EncoderConfig
	log    logrus.FieldLogger
}

// NewFFmpegEncoder creates a new ffmpeg-based encoder
func NewFFmpegEncoder(cfg config.EncoderConfig, log logrus.FieldLogger) *FFmpegEncoder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FFmpegEncoder{config: cfg, log: log}
}

// Encode re-encodes inputPath into outputPath with the configured parameter set
func (e *FFmpegEncoder) Encode(ctx context.Context, inputPath, outputPath string) error {
	if !fileExists(inputPath) {
		return fmt.Errorf("source file not found: %s", inputPath)
	}

	cmd := exec.CommandContext(ctx, e.binary(), e.Args(inputPath, outputPath)...)

	e.log.WithFields(logrus.Fields{"input": inputPath, "output": outputPath}).Debug("Running ffmpeg")

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s", err, lastLine(string(output)))
	}

	// ffmpeg can exit 0 without producing output for some stream errors
	if !fileExists(outputPath) {
		return errors.New("encoder produced no output")
	}

	return nil
}

// Args builds the ffmpeg argument list
func (e *FFmpegEncoder) Args(inputPath, outputPath string) []string {
	c := e.config
	args := []string{
		"-i", inputPath,
		"-c:v", c.VideoCodec,
		"-crf", strconv.Itoa(c.CRF),
		"-preset", c.Preset,
		"-c:a", c.AudioCodec,
		"-b:a", c.AudioBitrate,
	}
	args = append(args, c.ExtraArgs...)
	return append(args, outputPath, "-y")
}

// Available checks if the encoder binary is installed
func (e *FFmpegEncoder) Available() bool {
	_, err := exec.LookPath(e.binary())
	return err == nil
}

func (e *FFmpegEncoder) binary() string {
	if e.config.Binary == "" {
		return "ffmpeg"
	}
	return e.config.Binary
}

// lastLine returns the last non-empty line, which is where ffmpeg puts the fatal error
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no output"
}

// fileExists checks if a file exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
