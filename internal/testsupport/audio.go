package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Fixture audio parameters: CBR MPEG-1 Layer III, 128 kbps, 44.1 kHz,
// stereo, no padding bit. Every frame is 417 bytes and carries 1152
// samples, matching what LAME produces for the test profiles.
const (
	mp3FrameSize       = 417
	mp3SamplesPerFrame = 1152
	mp3SampleRate      = 44100
)

// MP3Frame returns a single silent audio frame.
func MP3Frame() []byte {
	frame := make([]byte, mp3FrameSize)
	frame[0] = 0xFF
	frame[1] = 0xFB
	frame[2] = 0x90
	return frame
}

// MP3Stream returns an untagged audio stream of the given frame count.
func MP3Stream(frames int) []byte {
	out := make([]byte, 0, frames*mp3FrameSize)
	for i := 0; i < frames; i++ {
		out = append(out, MP3Frame()...)
	}
	return out
}

// WriteMP3 writes an untagged audio stream to path and returns path.
func WriteMP3(t testing.TB, path string, frames int) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, MP3Stream(frames), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// MP3DurationMS returns the rounded play time of a fixture stream with
// the given frame count.
func MP3DurationMS(frames int) int64 {
	seconds := float64(frames) * mp3SamplesPerFrame / mp3SampleRate
	return int64(math.Round(seconds * 1000))
}
