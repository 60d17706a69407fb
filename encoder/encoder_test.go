package encoder

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func TestRecorderArgs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "triangle.mp4")
	r, err := NewRecorder(Config{Output: out, Width: 64, Height: 48, FPS: 30, Codec: "h264"})
	if err != nil {
		t.Fatalf("NewRecorder() returned error: %v", err)
	}
	defer r.Close()

	args := r.Args()
	for flag, want := range map[string]string{
		"-f":  "rawvideo",
		"-s":  "64x48",
		"-r":  "30",
		"-i":  "pipe:",
		"-vf": "vflip",
	} {
		if got, ok := argValue(args, flag); !ok || got != want {
			t.Errorf("%s = %q (present=%v), want %q; args %v", flag, got, ok, want, args)
		}
	}
	if !hasArg(args, "-y") {
		t.Errorf("expected -y to overwrite the output, args %v", args)
	}
	if args[len(args)-1] != out && !hasArg(args, out) {
		t.Errorf("output path missing from args %v", args)
	}
}

func TestOutputArgsCodec(t *testing.T) {
	h264 := outputArgs(Config{Output: "a.mp4", Codec: "h264"})
	hevc := outputArgs(Config{Output: "a.mp4", Codec: "hevc"})
	hevcMkv := outputArgs(Config{Output: "a.mkv", Codec: "hevc"})

	wantH264, wantHEVC := "libx264", "libx265"
	if runtime.GOOS == "darwin" {
		wantH264, wantHEVC = "h264_videotoolbox", "hevc_videotoolbox"
	}
	if h264["c:v"] != wantH264 {
		t.Errorf("h264 codec = %v", h264["c:v"])
	}
	if hevc["c:v"] != wantHEVC {
		t.Errorf("hevc codec = %v", hevc["c:v"])
	}
	if hevc["tag:v"] != "hvc1" {
		t.Error("hevc in mp4 should be tagged hvc1")
	}
	if _, ok := hevcMkv["tag:v"]; ok {
		t.Error("hvc1 tag only applies to mp4")
	}
}

func TestNewRecorderValidates(t *testing.T) {
	tests := []Config{
		{Width: 10, Height: 10, FPS: 30},
		{Output: "a.mp4", Width: 0, Height: 10, FPS: 30},
		{Output: "a.mp4", Width: 10, Height: 10, FPS: 0},
	}
	for _, cfg := range tests {
		if _, err := NewRecorder(cfg); err == nil {
			t.Errorf("NewRecorder(%+v) succeeded", cfg)
		}
	}
}

func TestWriteFrameSize(t *testing.T) {
	r, err := NewRecorder(Config{Output: "a.mp4", Width: 4, Height: 2, FPS: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if err := r.WriteFrame(make([]byte, 4*2*3)); !errors.Is(err, ErrFrameSize) {
		t.Errorf("got %v, want ErrFrameSize", err)
	}
	if err := r.WriteFrame(make([]byte, 4*2*4)); err == nil {
		t.Error("writing before Start should fail")
	}
	if r.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", r.Frames())
	}
}

// TestRecorderLifecycle runs a stand-in encoder that consumes stdin, so the
// pipe plumbing is exercised without ffmpeg installed.
func TestRecorderLifecycle(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	// cat treats the ffmpeg arguments as file names and fails, which is fine:
	// only Start/Write/Close wiring is under test, with a tiny frame.
	var progress bytes.Buffer
	r, err := NewRecorder(Config{Output: "unused.mp4", Width: 1, Height: 1, FPS: 1, Frames: 1, FFMPEGPath: cat, Progress: &progress})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}
	if err := r.Start(); err == nil {
		t.Error("second Start() should fail")
	}
	first := r.Close()
	done := make(chan error, 1)
	go func() { done <- r.Close() }()
	select {
	case second := <-done:
		if (first == nil) != (second == nil) {
			t.Errorf("second Close() = %v, first was %v", second, first)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second Close() blocked")
	}
	if err := r.WriteFrame(make([]byte, 4)); err == nil {
		t.Error("writing after Close should fail")
	}
}
