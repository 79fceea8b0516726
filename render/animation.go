package render

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
)

// SampleInterval returns the number of simulation steps between
// sampled animation frames: round(1/(Δt·frameRate·speedup)), at least
// 1 (§6 "Animation output", §9 "Animation speedup is realized by
// sampling state — not by changing Δt").
func SampleInterval(dt, frameRate, speedup float64) int {
	if dt <= 0 || frameRate <= 0 || speedup <= 0 {
		return 1
	}
	n := int(math.Round(1 / (dt * frameRate * speedup)))
	if n < 1 {
		return 1
	}
	return n
}

// FramePath returns the on-disk path of the nth frame in dir,
// zero-padded to sort correctly by name.
func FramePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%06d.png", n))
}

// EncodeOptions controls assembling a frame directory into a video
// with an external encoder (§6 "optionally assembled into a video by
// an external encoder invocation").
type EncodeOptions struct {
	FramesDir  string
	OutputPath string
	FrameRate  float64
	// HWEncoding selects hevc_videotoolbox over libx265. Only
	// meaningful on platforms where that hardware encoder exists;
	// ffmpeg itself reports the encoding error (§7 class 3) if it does
	// not.
	HWEncoding   bool
	DeleteFrames bool
}

// Encode shells out to ffmpeg to assemble the numbered frames in
// opts.FramesDir into a video at opts.OutputPath. A nonzero exit or a
// missing ffmpeg binary is an Encoding error (§7 class 3): the still
// image and result report already produced are not affected, so the
// caller should log and continue rather than abort the whole run.
func Encode(opts EncodeOptions) error {
	codec := "libx265"
	if opts.HWEncoding {
		codec = "hevc_videotoolbox"
	}
	pattern := filepath.Join(opts.FramesDir, "frame_%06d.png")
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%g", opts.FrameRate),
		"-i", pattern,
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		opts.OutputPath,
	}
	cmd := exec.Command("ffmpeg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w: %s", err, out)
	}
	if opts.DeleteFrames {
		entries, err := filepath.Glob(filepath.Join(opts.FramesDir, "frame_*.png"))
		if err == nil {
			for _, e := range entries {
				os.Remove(e)
			}
		}
	}
	return nil
}
