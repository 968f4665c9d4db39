package id3v2_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/manualmanul/XBN/internal/id3v2"
)

// buildV23Tag assembles a version 2.3 tag block around pre-rendered frame
// bytes so decoder behavior for the older version can be pinned down.
func buildV23Tag(t *testing.T, flags byte, frames []byte) []byte {
	t.Helper()
	size := len(frames)
	tag := []byte{'I', 'D', '3', 3, 0, flags}
	tag = append(tag,
		byte(size>>21&0x7F), byte(size>>14&0x7F), byte(size>>7&0x7F), byte(size&0x7F))
	return append(tag, frames...)
}

func buildV23Frame(id string, formatFlags byte, body []byte) []byte {
	frame := []byte(id)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(body)))
	frame = append(frame, size[:]...)
	frame = append(frame, 0, formatFlags)
	return append(frame, body...)
}

func decodeTag(t *testing.T, raw []byte) *id3v2.Tag {
	t.Helper()
	tag, _, err := id3v2.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return tag
}

func TestEncodeWritesVersion24Header(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "t"})

	raw, err := id3v2.Encode(tag)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(raw[0:3]) != "ID3" || raw[3] != 4 || raw[4] != 0 {
		t.Fatalf("unexpected header bytes % x", raw[0:5])
	}
	if raw[5] != 0 {
		t.Fatalf("tag flags = %#x, want 0", raw[5])
	}
	declared := int(raw[6])<<21 | int(raw[7])<<14 | int(raw[8])<<7 | int(raw[9])
	if declared != len(raw)-10 {
		t.Fatalf("declared size %d, block holds %d", declared, len(raw)-10)
	}
	// Padding must be inside the declared size and zeroed.
	tail := raw[len(raw)-1024:]
	for i, b := range tail {
		if b != 0 {
			t.Fatalf("padding byte %d is %#x, want 0", i, b)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "Episode 9¾: Übergang"})
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameLength, Text: "123456"})
	tag.Add(id3v2.CommentFrame{Language: "ENG", Description: "", Text: "line one\r\nline two"})
	tag.Add(id3v2.LyricsFrame{Language: "eng", Description: "notes", Text: "same text"})
	tag.Add(id3v2.UserURLFrame{Description: "chapter url", URL: "https://example.com/ep9"})
	tag.Add(id3v2.RawFrame{Kind: "TXXX", Data: []byte{3, 'k', 0, 'v'}})

	raw, err := id3v2.Encode(tag)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, blockSize, err := id3v2.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if blockSize != int64(len(raw)) {
		t.Fatalf("block size %d, encoded %d bytes", blockSize, len(raw))
	}

	if title, _ := got.Text(id3v2.FrameTitle); title != "Episode 9¾: Übergang" {
		t.Fatalf("title = %q", title)
	}
	if length, _ := got.Text(id3v2.FrameLength); length != "123456" {
		t.Fatalf("length = %q", length)
	}

	comments := got.All(id3v2.FrameComment)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	comment := comments[0].(id3v2.CommentFrame)
	if comment.Language != "eng" {
		t.Fatalf("comment language = %q, want normalized %q", comment.Language, "eng")
	}
	if comment.Text != "line one\r\nline two" || comment.Description != "" {
		t.Fatalf("comment = %+v", comment)
	}

	lyrics := got.All(id3v2.FrameLyrics)[0].(id3v2.LyricsFrame)
	if lyrics.Description != "notes" || lyrics.Text != "same text" {
		t.Fatalf("lyrics = %+v", lyrics)
	}

	wxxx := got.All(id3v2.FrameUserURL)[0].(id3v2.UserURLFrame)
	if wxxx.Description != "chapter url" || wxxx.URL != "https://example.com/ep9" {
		t.Fatalf("wxxx = %+v", wxxx)
	}

	raws := got.All("TXXX")
	if len(raws) != 1 {
		t.Fatalf("expected TXXX to survive, got %d frames", len(raws))
	}
	if data := raws[0].(id3v2.RawFrame).Data; !bytes.Equal(data, []byte{3, 'k', 0, 'v'}) {
		t.Fatalf("TXXX data = % x", data)
	}
}

func TestChapterAndTOCRoundTrip(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.ChapterFrame{
		ElementID: "chp0",
		Start:     0,
		End:       93500,
		SubFrames: []id3v2.Frame{
			id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "Intro"},
			id3v2.UserURLFrame{Description: "chapter url", URL: "https://example.com"},
		},
	})
	tag.Add(id3v2.ChapterFrame{ElementID: "chp1", Start: 93500, End: 180000})
	tag.Add(id3v2.TOCFrame{
		ElementID: "toc",
		TopLevel:  true,
		Ordered:   true,
		ChildIDs:  []string{"chp0", "chp1"},
	})

	raw, err := id3v2.Encode(tag)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := decodeTag(t, raw)

	chapters := got.All(id3v2.FrameChapter)
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	first := chapters[0].(id3v2.ChapterFrame)
	if first.ElementID != "chp0" || first.Start != 0 || first.End != 93500 {
		t.Fatalf("first chapter = %+v", first)
	}
	if len(first.SubFrames) != 2 {
		t.Fatalf("expected 2 sub-frames, got %d", len(first.SubFrames))
	}
	if title := first.SubFrames[0].(id3v2.TextFrame); title.Kind != id3v2.FrameTitle || title.Text != "Intro" {
		t.Fatalf("chapter title sub-frame = %+v", title)
	}
	if url := first.SubFrames[1].(id3v2.UserURLFrame); url.URL != "https://example.com" {
		t.Fatalf("chapter url sub-frame = %+v", url)
	}
	second := chapters[1].(id3v2.ChapterFrame)
	if second.ElementID != "chp1" || len(second.SubFrames) != 0 {
		t.Fatalf("second chapter = %+v", second)
	}

	tocs := got.All(id3v2.FrameTOC)
	if len(tocs) != 1 {
		t.Fatalf("expected 1 TOC, got %d", len(tocs))
	}
	toc := tocs[0].(id3v2.TOCFrame)
	if !toc.TopLevel || !toc.Ordered {
		t.Fatalf("toc flags = %+v", toc)
	}
	if len(toc.ChildIDs) != 2 || toc.ChildIDs[0] != "chp0" || toc.ChildIDs[1] != "chp1" {
		t.Fatalf("toc children = %v", toc.ChildIDs)
	}
}

func TestDecodeVersion23Text(t *testing.T) {
	// UTF-16 little endian with BOM, the common mutagen output.
	title := buildV23Frame("TIT2", 0, []byte{1, 0xFF, 0xFE, 'H', 0, 'i', 0})
	// Latin-1 with a trailing terminator.
	album := buildV23Frame("TALB", 0, []byte{0, 'X', 'B', 'N', 0})
	comment := buildV23Frame("COMM", 0, append([]byte{0, 'e', 'n', 'g', 0}, "hello"...))

	raw := buildV23Tag(t, 0, append(append(title, album...), comment...))
	tag := decodeTag(t, raw)

	if got, _ := tag.Text(id3v2.FrameTitle); got != "Hi" {
		t.Fatalf("title = %q, want %q", got, "Hi")
	}
	if got, _ := tag.Text(id3v2.FrameAlbum); got != "XBN" {
		t.Fatalf("album = %q, want %q", got, "XBN")
	}
	comm := tag.All(id3v2.FrameComment)[0].(id3v2.CommentFrame)
	if comm.Language != "eng" || comm.Text != "hello" {
		t.Fatalf("comment = %+v", comm)
	}
}

func TestDecodeVersion23Unsynchronised(t *testing.T) {
	frame := buildV23Frame("TIT2", 0, []byte{0, 0xFF})
	var stuffed []byte
	for _, b := range frame {
		stuffed = append(stuffed, b)
		if b == 0xFF {
			stuffed = append(stuffed, 0)
		}
	}
	raw := buildV23Tag(t, 0x80, stuffed)
	tag := decodeTag(t, raw)
	if got, _ := tag.Text(id3v2.FrameTitle); got != "ÿ" {
		t.Fatalf("title = %q, want %q", got, "ÿ")
	}
}

func TestDecodeDropsCompressedAndEncryptedFrames(t *testing.T) {
	compressed := buildV23Frame("TIT2", 0x80, []byte{0, 'x'})
	encrypted := buildV23Frame("TALB", 0x40, []byte{0, 'y'})
	kept := buildV23Frame("TPE1", 0, []byte{0, 'z'})

	raw := buildV23Tag(t, 0, append(append(compressed, encrypted...), kept...))
	tag := decodeTag(t, raw)

	if tag.Len() != 1 {
		t.Fatalf("expected only the plain frame to survive, got %d frames", tag.Len())
	}
	if got, _ := tag.Text(id3v2.FrameArtist); got != "z" {
		t.Fatalf("artist = %q, want %q", got, "z")
	}
}

func TestDecodeStopsAtTruncatedFrame(t *testing.T) {
	good := buildV23Frame("TIT2", 0, []byte{0, 'o', 'k'})
	truncated := buildV23Frame("TALB", 0, []byte{0, 'g', 'o', 'n', 'e'})
	truncated = truncated[:len(truncated)-3]

	// The last frame header declares more body bytes than the tag holds.
	raw := buildV23Tag(t, 0, append(good, truncated...))
	tag := decodeTag(t, raw)

	if got, _ := tag.Text(id3v2.FrameTitle); got != "ok" {
		t.Fatalf("title = %q, want %q", got, "ok")
	}
	if _, ok := tag.Text(id3v2.FrameAlbum); ok {
		t.Fatal("truncated frame should have been dropped")
	}
}

func TestDecodeNoTag(t *testing.T) {
	_, _, err := id3v2.Decode(bytes.NewReader([]byte{0xFF, 0xFB, 0x90, 0x00, 1, 2, 3, 4, 5, 6, 7}))
	if err != id3v2.ErrNoTag {
		t.Fatalf("err = %v, want ErrNoTag", err)
	}

	_, _, err = id3v2.Decode(bytes.NewReader([]byte{'I', 'D'}))
	if err != id3v2.ErrNoTag {
		t.Fatalf("short file: err = %v, want ErrNoTag", err)
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	raw := []byte{'I', 'D', '3', 2, 0, 0, 0, 0, 0, 0}
	if _, _, err := id3v2.Decode(bytes.NewReader(raw)); err == nil {
		t.Fatal("expected an error for a 2.2 tag")
	}
}
