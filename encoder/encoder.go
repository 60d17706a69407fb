package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrFrameSize is returned by WriteFrame for a buffer that is not exactly one
// RGBA frame.
var ErrFrameSize = errors.New("frame size does not match recorder dimensions")

var errEncoderExited = errors.New("ffmpeg exited before all frames were written")

// Config describes one recording.
type Config struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	Frames     int    // expected frame count, used for progress only
	Codec      string // h264 or hevc
	FFMPEGPath string
	Progress   io.Writer // nil disables the progress bar
}

// Recorder pipes raw RGBA frames, bottom row first, into an ffmpeg process.
type Recorder struct {
	cmd        *exec.Cmd
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	frameSize  int
	frames     int
	bar        *progressbar.ProgressBar
	done       chan error
	started    bool
	closed     bool
	closeErr   error
}

func inputArgs(cfg Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       fmt.Sprintf("%d", cfg.FPS),
	}
}

func outputArgs(cfg Config) ffmpeg.KwArgs {
	outputArgs := ffmpeg.KwArgs{
		// GL rows arrive bottom up.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.Output, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return outputArgs
}

func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Output == "" {
		return nil, fmt.Errorf("no output file specified")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid recording geometry %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(cfg)).
		Output(cfg.Output, outputArgs(cfg)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	r := &Recorder{
		cmd:        ffmpegCmd.Compile(),
		pipeReader: pipeReader,
		pipeWriter: pipeWriter,
		frameSize:  cfg.Width * cfg.Height * 4,
		done:       make(chan error, 1),
	}

	if cfg.Progress != nil {
		r.bar = progressbar.NewOptions(cfg.Frames,
			progressbar.OptionSetDescription("recording "+cfg.Output),
			progressbar.OptionSetWriter(cfg.Progress),
			progressbar.OptionShowCount(),
		)
	}
	return r, nil
}

// Args returns the ffmpeg command line.
func (r *Recorder) Args() []string { return r.cmd.Args }

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Start launches ffmpeg. Frames can be written once it returns.
func (r *Recorder) Start() error {
	if r.started {
		return fmt.Errorf("recorder already started")
	}
	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	r.started = true
	log.Printf("Recording with: %s", strings.Join(r.cmd.Args, " "))

	go func() {
		err := r.cmd.Wait()
		// Unblock any writer still waiting on a process that is gone.
		r.pipeReader.CloseWithError(errEncoderExited)
		r.done <- err
	}()
	return nil
}

// WriteFrame sends one RGBA frame to ffmpeg.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if len(pixels) != r.frameSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(pixels), r.frameSize)
	}
	if !r.started {
		return fmt.Errorf("recorder not started")
	}
	if _, err := r.pipeWriter.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d: %w", r.frames, err)
	}
	r.frames++
	if r.bar != nil {
		r.bar.Add(1)
	}
	return nil
}

// Close ends the input stream and waits for ffmpeg to finish the file. Later
// calls return the first result.
func (r *Recorder) Close() error {
	if r.closed {
		return r.closeErr
	}
	r.closed = true
	r.pipeWriter.Close()
	if !r.started {
		r.pipeReader.Close()
		return nil
	}
	err := <-r.done
	if r.bar != nil {
		r.bar.Finish()
	}
	if err != nil {
		r.closeErr = fmt.Errorf("ffmpeg finished with error: %w", err)
	}
	return r.closeErr
}
