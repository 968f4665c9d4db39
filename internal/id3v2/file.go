package id3v2

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Origin records whether Open found a tag on disk or started a fresh one.
type Origin int

const (
	// TagCreated means the file had no tag and Open created an empty one.
	TagCreated Origin = iota + 1
	// TagLoaded means the existing tag was parsed from the file.
	TagLoaded
)

func (o Origin) String() string {
	switch o {
	case TagCreated:
		return "created"
	case TagLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// File is an MP3 file opened for tag editing. The tag lives in memory
// until Save rewrites the file; the audio region is never modified.
type File struct {
	path       string
	src        *os.File
	tag        *Tag
	origin     Origin
	audioStart int64
	size       int64
}

// Open reads the tag at the start of the file, or prepares an empty tag
// when none exists. A missing or unreadable file is an error; a missing
// tag is not.
func Open(path string) (*File, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	info, err := src.Stat()
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("stat audio file: %w", err)
	}
	if info.IsDir() {
		src.Close()
		return nil, fmt.Errorf("open audio file: %s is a directory", path)
	}

	f := &File{path: path, src: src, size: info.Size()}
	tag, tagSize, err := Decode(src)
	switch {
	case errors.Is(err, ErrNoTag):
		f.tag = NewTag()
		f.origin = TagCreated
	case err != nil:
		src.Close()
		return nil, err
	default:
		f.tag = tag
		f.origin = TagLoaded
		f.audioStart = tagSize
		if f.audioStart > f.size {
			f.audioStart = f.size
		}
	}
	return f, nil
}

// Tag returns the in-memory tag for editing.
func (f *File) Tag() *Tag { return f.tag }

// Origin reports whether the tag was loaded from disk or freshly created.
func (f *File) Origin() Origin { return f.origin }

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// AudioSize returns the size in bytes of the audio region after the tag.
func (f *File) AudioSize() int64 { return f.size - f.audioStart }

// AudioReader returns a reader over the audio region after the tag.
func (f *File) AudioReader() *io.SectionReader {
	return io.NewSectionReader(f.src, f.audioStart, f.AudioSize())
}

// Save rewrites the file with the current tag followed by the original
// audio bytes. The rewrite goes through a temporary file in the same
// directory and an atomic rename, so a failed save leaves the original
// untouched. After a successful save the File tracks the new layout and
// further edits and saves are valid.
func (f *File) Save() error {
	block, err := Encode(f.tag)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".postshow-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(block); err != nil {
		cleanup()
		return fmt.Errorf("write tag: %w", err)
	}
	if _, err := io.Copy(tmp, f.AudioReader()); err != nil {
		cleanup()
		return fmt.Errorf("copy audio: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace audio file: %w", err)
	}

	src, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("reopen audio file: %w", err)
	}
	info, err := src.Stat()
	if err != nil {
		src.Close()
		return fmt.Errorf("stat audio file: %w", err)
	}
	f.src.Close()
	f.src = src
	f.size = info.Size()
	f.audioStart = int64(len(block))
	f.origin = TagLoaded
	return nil
}

// Close releases the underlying file handle. The tag stays readable but
// Save and AudioReader are no longer valid.
func (f *File) Close() error {
	if f.src == nil {
		return nil
	}
	err := f.src.Close()
	f.src = nil
	return err
}
