package id3v2_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/manualmanul/XBN/internal/id3v2"
)

func writeTempAudio(t *testing.T, prefix []byte) (string, []byte) {
	t.Helper()
	audio := bytes.Repeat([]byte{0x42}, 2048)
	path := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(path, append(append([]byte(nil), prefix...), audio...), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path, audio
}

func TestOpenMissingFile(t *testing.T) {
	_, err := id3v2.Open(filepath.Join(t.TempDir(), "nope.mp3"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestOpenFileWithoutTag(t *testing.T) {
	path, audio := writeTempAudio(t, nil)

	f, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if f.Origin() != id3v2.TagCreated {
		t.Fatalf("origin = %v, want TagCreated", f.Origin())
	}
	if f.Tag().Len() != 0 {
		t.Fatalf("fresh tag holds %d frames", f.Tag().Len())
	}
	if f.AudioSize() != int64(len(audio)) {
		t.Fatalf("audio size = %d, want %d", f.AudioSize(), len(audio))
	}
}

func TestSaveThenReopen(t *testing.T) {
	path, audio := writeTempAudio(t, nil)

	f, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Tag().Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "Episode 1"})
	f.Tag().Add(id3v2.CommentFrame{Language: "eng", Text: "show notes"})
	if err := f.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.Origin() != id3v2.TagLoaded {
		t.Fatalf("origin after save = %v, want TagLoaded", f.Origin())
	}
	f.Close()

	reopened, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.Origin() != id3v2.TagLoaded {
		t.Fatalf("origin = %v, want TagLoaded", reopened.Origin())
	}
	if title, _ := reopened.Tag().Text(id3v2.FrameTitle); title != "Episode 1" {
		t.Fatalf("title = %q", title)
	}

	var audioOut bytes.Buffer
	if _, err := audioOut.ReadFrom(reopened.AudioReader()); err != nil {
		t.Fatalf("read audio region: %v", err)
	}
	if !bytes.Equal(audioOut.Bytes(), audio) {
		t.Fatal("audio bytes changed across a save")
	}
}

func TestSaveReplacesExistingTagAndKeepsUnknownFrames(t *testing.T) {
	legacy := id3v2.NewTag()
	legacy.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "old title"})
	legacy.Add(id3v2.RawFrame{Kind: "TXXX", Data: []byte{3, 'k', 0, 'v'}})
	block, err := id3v2.Encode(legacy)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path, audio := writeTempAudio(t, block)

	f, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if f.Origin() != id3v2.TagLoaded {
		t.Fatalf("origin = %v, want TagLoaded", f.Origin())
	}
	f.Tag().DeleteAll(id3v2.FrameTitle)
	f.Tag().Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "new title"})
	if err := f.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.Close()

	reopened, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if title, _ := reopened.Tag().Text(id3v2.FrameTitle); title != "new title" {
		t.Fatalf("title = %q", title)
	}
	raws := reopened.Tag().All("TXXX")
	if len(raws) != 1 {
		t.Fatalf("expected the unknown frame to survive, got %d", len(raws))
	}
	if reopened.AudioSize() != int64(len(audio)) {
		t.Fatalf("audio size = %d, want %d", reopened.AudioSize(), len(audio))
	}
}

func TestSaveKeepsFileMode(t *testing.T) {
	path, _ := writeTempAudio(t, nil)
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	f, err := id3v2.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	f.Tag().Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "x"})
	if err := f.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}
