package id3v2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrNoTag reports that the file carries no ID3v2 tag at its start.
var ErrNoTag = errors.New("id3v2: no tag present")

// Tag level header flags.
const (
	tagFlagUnsynchronisation = 0x80
	tagFlagExtendedHeader    = 0x40
	tagFlagFooter            = 0x10
)

// Frame format flags, second flag byte. The two versions assign different
// bits to the same concerns.
const (
	v23FrameCompressed = 0x80
	v23FrameEncrypted  = 0x40
	v23FrameGrouped    = 0x20

	v24FrameGrouped    = 0x40
	v24FrameCompressed = 0x08
	v24FrameEncrypted  = 0x04
	v24FrameUnsynced   = 0x02
	v24FrameDataLength = 0x01
)

// textFrameIDs lists the text frames this package decodes into TextFrame
// values. Other T frames keep their raw bytes so unknown layouts such as
// TXXX survive a rewrite untouched.
var textFrameIDs = map[FrameID]bool{
	FrameTitle:         true,
	FrameArtist:        true,
	FrameAlbum:         true,
	FramePartOfSet:     true,
	FrameGenre:         true,
	FrameComposer:      true,
	FrameAccompaniment: true,
	FrameRecordingTime: true,
	FrameTrack:         true,
	FrameLanguage:      true,
	FrameLength:        true,
}

// Decode reads an ID3v2.3 or 2.4 tag from the start of r. It returns the
// parsed tag and the total size of the tag block, including the header and
// any padding, which is where the audio stream begins. ErrNoTag means r
// does not start with a tag at all.
func Decode(r io.ReaderAt) (*Tag, int64, error) {
	header := make([]byte, headerSize)
	n, err := r.ReadAt(header, 0)
	if n < headerSize {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("id3v2: read header: %w", err)
		}
		return nil, 0, ErrNoTag
	}
	if string(header[0:3]) != "ID3" {
		return nil, 0, ErrNoTag
	}
	major := header[3]
	if major != 3 && major != 4 {
		return nil, 0, fmt.Errorf("id3v2: unsupported tag version 2.%d", major)
	}
	flags := header[5]
	size := int64(decodeSynchsafe(header[6:10]))
	blockSize := headerSize + size
	if flags&tagFlagFooter != 0 {
		blockSize += 10
	}

	data := make([]byte, size)
	n, err = r.ReadAt(data, headerSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("id3v2: read tag data: %w", err)
	}
	// A short read means the declared size spills past the end of the
	// file. Parse what is there rather than rejecting the whole tag.
	data = data[:n]

	if major == 3 && flags&tagFlagUnsynchronisation != 0 {
		data = deunsynchronise(data)
	}
	if flags&tagFlagExtendedHeader != 0 {
		data = skipExtendedHeader(data, major)
	}

	tag := NewTag()
	for _, frame := range parseFrames(data, major) {
		tag.Add(frame)
	}
	return tag, blockSize, nil
}

func skipExtendedHeader(data []byte, major byte) []byte {
	if len(data) < 4 {
		return nil
	}
	var extSize int
	if major == 4 {
		// 2.4 counts the size field itself.
		extSize = int(decodeSynchsafe(data[0:4]))
	} else {
		extSize = 4 + int(binary.BigEndian.Uint32(data[0:4]))
	}
	if extSize < 4 || extSize > len(data) {
		return nil
	}
	return data[extSize:]
}

// parseFrames walks a run of frames until the data ends or padding begins.
// It backs both the top level frame loop and CHAP/CTOC embedded frames.
func parseFrames(data []byte, major byte) []Frame {
	var frames []Frame
	pos := 0
	for pos+frameHeaderSize <= len(data) {
		if data[pos] == 0 {
			break
		}
		id := string(data[pos : pos+4])
		if !validFrameID(id) {
			break
		}
		var frameSize int
		if major == 4 {
			frameSize = int(decodeSynchsafe(data[pos+4 : pos+8]))
		} else {
			frameSize = int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		}
		formatFlags := data[pos+9]
		pos += frameHeaderSize
		if frameSize <= 0 || pos+frameSize > len(data) {
			break
		}
		body := data[pos : pos+frameSize]
		pos += frameSize
		if frame, ok := parseFrame(FrameID(id), body, major, formatFlags); ok {
			frames = append(frames, frame)
		}
	}
	return frames
}

func validFrameID(id string) bool {
	for _, c := range []byte(id) {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// parseFrame interprets one frame body. Compressed and encrypted frames
// cannot be rewritten faithfully without their codecs, so they are dropped.
func parseFrame(id FrameID, body []byte, major byte, formatFlags byte) (Frame, bool) {
	if major == 4 {
		if formatFlags&v24FrameGrouped != 0 {
			if len(body) < 1 {
				return nil, false
			}
			body = body[1:]
		}
		if formatFlags&(v24FrameCompressed|v24FrameEncrypted) != 0 {
			return nil, false
		}
		if formatFlags&v24FrameDataLength != 0 {
			if len(body) < 4 {
				return nil, false
			}
			body = body[4:]
		}
		if formatFlags&v24FrameUnsynced != 0 {
			body = deunsynchronise(body)
		}
	} else {
		if formatFlags&(v23FrameCompressed|v23FrameEncrypted) != 0 {
			return nil, false
		}
		if formatFlags&v23FrameGrouped != 0 {
			if len(body) < 1 {
				return nil, false
			}
			body = body[1:]
		}
	}

	switch {
	case id == FrameComment:
		lang, desc, text, ok := parseLanguageText(body)
		if !ok {
			return nil, false
		}
		return CommentFrame{Language: lang, Description: desc, Text: text}, true
	case id == FrameLyrics:
		lang, desc, text, ok := parseLanguageText(body)
		if !ok {
			return nil, false
		}
		return LyricsFrame{Language: lang, Description: desc, Text: text}, true
	case id == FrameUserURL:
		if len(body) < 1 {
			return nil, false
		}
		encoding := body[0]
		descRaw, rest := splitTerminated(body[1:], encoding)
		return UserURLFrame{
			Description: decodeText(descRaw, encoding),
			URL:         decodeLatin1(trimTrailingZeros(rest)),
		}, true
	case id == FrameChapter:
		return parseChapter(body, major)
	case id == FrameTOC:
		return parseTOC(body, major)
	case textFrameIDs[id]:
		if len(body) < 1 {
			return nil, false
		}
		return TextFrame{Kind: id, Text: decodeText(body[1:], body[0])}, true
	default:
		return RawFrame{Kind: id, Data: append([]byte(nil), body...)}, true
	}
}

// parseLanguageText unpacks the shared COMM and USLT body layout.
func parseLanguageText(body []byte) (lang, desc, text string, ok bool) {
	if len(body) < 4 {
		return "", "", "", false
	}
	encoding := body[0]
	lang = decodeLatin1(body[1:4])
	descRaw, rest := splitTerminated(body[4:], encoding)
	return lang, decodeText(descRaw, encoding), decodeText(rest, encoding), true
}

func parseChapter(body []byte, major byte) (Frame, bool) {
	elementID, rest := splitLatin1z(body)
	if len(rest) < 16 {
		return nil, false
	}
	frame := ChapterFrame{
		ElementID: elementID,
		Start:     binary.BigEndian.Uint32(rest[0:4]),
		End:       binary.BigEndian.Uint32(rest[4:8]),
		SubFrames: parseFrames(rest[16:], major),
	}
	return frame, true
}

func parseTOC(body []byte, major byte) (Frame, bool) {
	elementID, rest := splitLatin1z(body)
	if len(rest) < 2 {
		return nil, false
	}
	flags := rest[0]
	count := int(rest[1])
	rest = rest[2:]
	children := make([]string, 0, count)
	for i := 0; i < count && len(rest) > 0; i++ {
		var child string
		child, rest = splitLatin1z(rest)
		children = append(children, child)
	}
	frame := TOCFrame{
		ElementID: elementID,
		TopLevel:  flags&tocFlagTopLevel != 0,
		Ordered:   flags&tocFlagOrdered != 0,
		ChildIDs:  children,
		SubFrames: parseFrames(rest, major),
	}
	return frame, true
}

func trimTrailingZeros(data []byte) []byte {
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return data
}

// deunsynchronise reverses the FF 00 byte stuffing applied by the
// unsynchronisation scheme.
func deunsynchronise(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		out = append(out, data[i])
		if data[i] == 0xFF && i+1 < len(data) && data[i+1] == 0x00 {
			i++
		}
	}
	return out
}
