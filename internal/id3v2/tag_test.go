package id3v2_test

import (
	"testing"

	"github.com/manualmanul/XBN/internal/id3v2"
)

func TestTagAddKeepsInsertionOrder(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "first"})
	tag.Add(id3v2.CommentFrame{Language: "eng", Text: "a"})
	tag.Add(id3v2.CommentFrame{Language: "eng", Text: "b"})
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameArtist, Text: "someone"})

	ids := tag.IDs()
	want := []id3v2.FrameID{id3v2.FrameTitle, id3v2.FrameComment, id3v2.FrameArtist}
	if len(ids) != len(want) {
		t.Fatalf("IDs() returned %d entries, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs()[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	comments := tag.All(id3v2.FrameComment)
	if len(comments) != 2 {
		t.Fatalf("expected 2 comment frames, got %d", len(comments))
	}
	first := comments[0].(id3v2.CommentFrame)
	second := comments[1].(id3v2.CommentFrame)
	if first.Text != "a" || second.Text != "b" {
		t.Fatalf("comment order wrong: %q then %q", first.Text, second.Text)
	}
}

func TestTagDeleteAll(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "old"})
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "older"})
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameAlbum, Text: "kept"})

	tag.DeleteAll(id3v2.FrameTitle)

	if frames := tag.All(id3v2.FrameTitle); frames != nil {
		t.Fatalf("expected no title frames after delete, got %d", len(frames))
	}
	if tag.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tag.Len())
	}
	if ids := tag.IDs(); len(ids) != 1 || ids[0] != id3v2.FrameAlbum {
		t.Fatalf("IDs() = %v, want [TALB]", ids)
	}

	// Deleting an absent ID is a no-op.
	tag.DeleteAll(id3v2.FrameChapter)
	if tag.Len() != 1 {
		t.Fatalf("Len() changed after deleting absent ID")
	}
}

func TestTagText(t *testing.T) {
	tag := id3v2.NewTag()
	if _, ok := tag.Text(id3v2.FrameTitle); ok {
		t.Fatal("Text() reported a value on an empty tag")
	}
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "Episode 12"})
	got, ok := tag.Text(id3v2.FrameTitle)
	if !ok || got != "Episode 12" {
		t.Fatalf("Text() = %q, %v; want %q, true", got, ok, "Episode 12")
	}
}

func TestTagAllReturnsCopy(t *testing.T) {
	tag := id3v2.NewTag()
	tag.Add(id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "kept"})

	frames := tag.All(id3v2.FrameTitle)
	frames[0] = id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: "mutated"}

	got, _ := tag.Text(id3v2.FrameTitle)
	if got != "kept" {
		t.Fatalf("mutating All() result changed the tag: %q", got)
	}
}
