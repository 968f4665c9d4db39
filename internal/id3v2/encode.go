package id3v2

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	headerSize      = 10
	frameHeaderSize = 10
	padding         = 1024

	// maxTagSize is the largest payload a synchsafe 28-bit size can carry.
	maxTagSize = 1<<28 - 1

	// offsetUnused marks the CHAP byte offsets this package never tracks.
	offsetUnused = 0xFFFFFFFF

	tocFlagOrdered  = 0x01
	tocFlagTopLevel = 0x02
)

// Encode renders the tag as a complete ID3v2.4 block: header, frames, and
// trailing padding. Tags read from older 2.3 files are upgraded on write.
func Encode(t *Tag) ([]byte, error) {
	var body bytes.Buffer
	for _, id := range t.IDs() {
		for _, frame := range t.All(id) {
			if err := appendFrame(&body, frame); err != nil {
				return nil, err
			}
		}
	}
	size := body.Len() + padding
	if size > maxTagSize {
		return nil, fmt.Errorf("id3v2: tag size %d exceeds format limit", size)
	}
	out := bytes.NewBuffer(make([]byte, 0, headerSize+size))
	out.WriteString("ID3")
	out.WriteByte(4)
	out.WriteByte(0)
	out.WriteByte(0)
	var sizeField [4]byte
	putSynchsafe(sizeField[:], uint32(size))
	out.Write(sizeField[:])
	out.Write(body.Bytes())
	out.Write(make([]byte, padding))
	return out.Bytes(), nil
}

func appendFrame(buf *bytes.Buffer, frame Frame) error {
	id := string(frame.ID())
	if len(id) != 4 {
		return fmt.Errorf("id3v2: invalid frame ID %q", id)
	}
	body, err := frameBody(frame)
	if err != nil {
		return err
	}
	if len(body) > maxTagSize {
		return fmt.Errorf("id3v2: frame %s size %d exceeds format limit", id, len(body))
	}
	buf.WriteString(id)
	var sizeField [4]byte
	putSynchsafe(sizeField[:], uint32(len(body)))
	buf.Write(sizeField[:])
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.Write(body)
	return nil
}

func frameBody(frame Frame) ([]byte, error) {
	switch f := frame.(type) {
	case TextFrame:
		body := make([]byte, 0, len(f.Text)+1)
		body = append(body, encodingUTF8)
		return append(body, f.Text...), nil
	case CommentFrame:
		return languageTextBody(f.Language, f.Description, f.Text), nil
	case LyricsFrame:
		return languageTextBody(f.Language, f.Description, f.Text), nil
	case UserURLFrame:
		var buf bytes.Buffer
		buf.WriteByte(encodingUTF8)
		buf.WriteString(f.Description)
		buf.WriteByte(0)
		buf.Write(encodeLatin1(f.URL))
		return buf.Bytes(), nil
	case ChapterFrame:
		return chapterBody(f)
	case TOCFrame:
		return tocBody(f)
	case RawFrame:
		return append([]byte(nil), f.Data...), nil
	default:
		return nil, fmt.Errorf("id3v2: unsupported frame type %T", frame)
	}
}

// languageTextBody builds the shared COMM and USLT layout: encoding byte,
// three byte language, terminated description, then the text.
func languageTextBody(language, description, text string) []byte {
	var buf bytes.Buffer
	buf.WriteByte(encodingUTF8)
	buf.WriteString(normalizeLanguage(language))
	buf.WriteString(description)
	buf.WriteByte(0)
	buf.WriteString(text)
	return buf.Bytes()
}

func chapterBody(f ChapterFrame) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(encodeLatin1(f.ElementID))
	buf.WriteByte(0)
	var times [16]byte
	binary.BigEndian.PutUint32(times[0:4], f.Start)
	binary.BigEndian.PutUint32(times[4:8], f.End)
	binary.BigEndian.PutUint32(times[8:12], offsetUnused)
	binary.BigEndian.PutUint32(times[12:16], offsetUnused)
	buf.Write(times[:])
	for _, sub := range f.SubFrames {
		if err := appendFrame(&buf, sub); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func tocBody(f TOCFrame) ([]byte, error) {
	if len(f.ChildIDs) > 0xFF {
		return nil, fmt.Errorf("id3v2: table of contents holds %d entries, format limit is 255", len(f.ChildIDs))
	}
	var buf bytes.Buffer
	buf.Write(encodeLatin1(f.ElementID))
	buf.WriteByte(0)
	var flags byte
	if f.TopLevel {
		flags |= tocFlagTopLevel
	}
	if f.Ordered {
		flags |= tocFlagOrdered
	}
	buf.WriteByte(flags)
	buf.WriteByte(byte(len(f.ChildIDs)))
	for _, child := range f.ChildIDs {
		buf.Write(encodeLatin1(child))
		buf.WriteByte(0)
	}
	for _, sub := range f.SubFrames {
		if err := appendFrame(&buf, sub); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func putSynchsafe(dst []byte, v uint32) {
	dst[0] = byte(v >> 21 & 0x7F)
	dst[1] = byte(v >> 14 & 0x7F)
	dst[2] = byte(v >> 7 & 0x7F)
	dst[3] = byte(v & 0x7F)
}

func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}
