// Package id3v2 reads and writes ID3v2 tags on MP3 files.
//
// The package reads versions 2.3 and 2.4 and always writes 2.4 with UTF-8
// text, upgrading older tags on save. A Tag is a plain container keyed by
// frame ID: it keeps every frame it is given and never decides whether an
// ID may repeat. Replace versus append policy belongs to the caller.
//
// Frames the package does not interpret are preserved byte for byte, so
// editing a handful of frames never destroys the rest of a tag written by
// another tool.
package id3v2
