package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrNoAudioFrames reports that no MPEG audio frames were found, which
// usually means the file is not an MP3 at all.
var ErrNoAudioFrames = errors.New("mp3: no MPEG audio frames found")

// syncScanLimit bounds how far into the stream the first frame may sit.
// Real encoder output starts immediately; this tolerates junk like a
// stray RIFF header without scanning a whole broken file.
const syncScanLimit = 64 * 1024

// readWindow is the chunk size used while walking frame headers.
const readWindow = 128 * 1024

// Info describes the decodable MPEG audio stream of a file.
type Info struct {
	// DurationMS is the play time in milliseconds, rounded to nearest.
	DurationMS int64
	// SampleRate is taken from the first frame.
	SampleRate int
	// Frames is the number of audio frames, from the VBR header when one
	// is present, otherwise counted by walking the stream.
	Frames int
	// FromVBRHeader reports whether a Xing, Info, or VBRI header supplied
	// the frame count.
	FromVBRHeader bool
}

var mpeg1Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
var mpeg2Bitrates = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}

var sampleRates = map[byte][3]int{
	3: {44100, 48000, 32000}, // MPEG 1
	2: {22050, 24000, 16000}, // MPEG 2
	0: {11025, 12000, 8000},  // MPEG 2.5
}

type frameHeader struct {
	version     byte
	bitrate     int
	sampleRate  int
	samples     int
	channelMode byte
	length      int
}

// parseFrameHeader decodes a Layer III frame header. Free-format and
// reserved field values are rejected.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}
	version := b[1] >> 3 & 0x3
	layer := b[1] >> 1 & 0x3
	if version == 1 || layer != 1 {
		return frameHeader{}, false
	}
	bitrateIdx := b[2] >> 4 & 0xF
	rateIdx := b[2] >> 2 & 0x3
	if bitrateIdx == 0 || bitrateIdx == 0xF || rateIdx == 3 {
		return frameHeader{}, false
	}

	h := frameHeader{version: version, channelMode: b[3] >> 6 & 0x3}
	if version == 3 {
		h.bitrate = mpeg1Bitrates[bitrateIdx] * 1000
		h.samples = 1152
	} else {
		h.bitrate = mpeg2Bitrates[bitrateIdx] * 1000
		h.samples = 576
	}
	h.sampleRate = sampleRates[version][rateIdx]
	padding := int(b[2] >> 1 & 0x1)
	h.length = h.samples/8*h.bitrate/h.sampleRate + padding
	if h.length <= 4 {
		return frameHeader{}, false
	}
	return h, true
}

// Probe walks the MPEG audio stream in r and reports its duration. The
// reader must cover only the audio region, with any leading tag already
// excluded. Trailing non-audio bytes such as an ID3v1 block end the walk
// without error; a stream with no frames at all returns ErrNoAudioFrames.
func Probe(r io.ReaderAt, size int64) (Info, error) {
	first, start, err := findFirstFrame(r, size)
	if err != nil {
		return Info{}, err
	}

	if info, ok := readVBRHeader(r, start, first); ok {
		return info, nil
	}

	frames := 0
	var seconds float64
	pos := start
	window := make([]byte, 0)
	windowStart := int64(0)
	for pos+4 <= size {
		if pos < windowStart || pos+4 > windowStart+int64(len(window)) {
			n := readWindow
			if remaining := size - pos; remaining < int64(n) {
				n = int(remaining)
			}
			buf := make([]byte, n)
			read, err := r.ReadAt(buf, pos)
			if err != nil && !errors.Is(err, io.EOF) {
				return Info{}, fmt.Errorf("mp3: read stream: %w", err)
			}
			window = buf[:read]
			windowStart = pos
		}
		offset := int(pos - windowStart)
		if offset+4 > len(window) {
			break
		}
		h, ok := parseFrameHeader(window[offset : offset+4])
		if !ok {
			break
		}
		frames++
		seconds += float64(h.samples) / float64(h.sampleRate)
		pos += int64(h.length)
	}

	if frames == 0 {
		return Info{}, ErrNoAudioFrames
	}
	return Info{
		DurationMS: int64(math.Round(seconds * 1000)),
		SampleRate: first.sampleRate,
		Frames:     frames,
	}, nil
}

// findFirstFrame scans for a byte pair that parses as a frame header and,
// when the stream is long enough, confirms a second header follows where
// the first one ends. That keeps sync bytes inside junk from being
// mistaken for audio.
func findFirstFrame(r io.ReaderAt, size int64) (frameHeader, int64, error) {
	limit := size
	if limit > syncScanLimit {
		limit = syncScanLimit
	}
	buf := make([]byte, limit)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return frameHeader{}, 0, fmt.Errorf("mp3: read stream: %w", err)
	}
	buf = buf[:n]

	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		h, ok := parseFrameHeader(buf[i : i+4])
		if !ok {
			continue
		}
		next := int64(i + h.length)
		if next+4 <= size && !confirmFrame(r, buf, next) {
			continue
		}
		return h, int64(i), nil
	}
	return frameHeader{}, 0, ErrNoAudioFrames
}

func confirmFrame(r io.ReaderAt, scanned []byte, pos int64) bool {
	var header [4]byte
	if pos+4 <= int64(len(scanned)) {
		copy(header[:], scanned[pos:pos+4])
	} else {
		if n, _ := r.ReadAt(header[:], pos); n < 4 {
			return false
		}
	}
	_, ok := parseFrameHeader(header[:])
	return ok
}

// readVBRHeader looks for a Xing, Info, or VBRI block inside the first
// frame and uses its frame count when present. LAME omits the block when
// invoked with -t, in which case the caller falls back to walking.
func readVBRHeader(r io.ReaderAt, start int64, first frameHeader) (Info, bool) {
	frame := make([]byte, first.length)
	n, err := r.ReadAt(frame, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return Info{}, false
	}
	frame = frame[:n]

	var sideInfo int
	if first.version == 3 {
		sideInfo = 32
		if first.channelMode == 3 {
			sideInfo = 17
		}
	} else {
		sideInfo = 17
		if first.channelMode == 3 {
			sideInfo = 9
		}
	}

	xingAt := 4 + sideInfo
	if len(frame) >= xingAt+12 {
		tag := string(frame[xingAt : xingAt+4])
		if tag == "Xing" || tag == "Info" {
			flags := binary.BigEndian.Uint32(frame[xingAt+4 : xingAt+8])
			if flags&0x1 != 0 {
				count := int(binary.BigEndian.Uint32(frame[xingAt+8 : xingAt+12]))
				return vbrInfo(count, first), count > 0
			}
		}
	}

	const vbriAt = 4 + 32
	if len(frame) >= vbriAt+18 && string(frame[vbriAt:vbriAt+4]) == "VBRI" {
		count := int(binary.BigEndian.Uint32(frame[vbriAt+14 : vbriAt+18]))
		return vbrInfo(count, first), count > 0
	}
	return Info{}, false
}

func vbrInfo(frames int, first frameHeader) Info {
	seconds := float64(frames) * float64(first.samples) / float64(first.sampleRate)
	return Info{
		DurationMS:    int64(math.Round(seconds * 1000)),
		SampleRate:    first.sampleRate,
		Frames:        frames,
		FromVBRHeader: true,
	}
}
