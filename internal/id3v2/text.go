package id3v2

import (
	"strings"
	"unicode/utf16"
)

// Text encoding bytes defined by ID3v2.4. Version 2.3 only defines the
// first two; the others appear when reading 2.4 tags.
const (
	encodingLatin1  = 0
	encodingUTF16   = 1
	encodingUTF16BE = 2
	encodingUTF8    = 3
)

// decodeText interprets data according to the encoding byte and trims the
// value at the first terminator. Multi-value 2.4 text frames collapse to
// their first value.
func decodeText(data []byte, encoding byte) string {
	var s string
	switch encoding {
	case encodingUTF16:
		s = decodeUTF16(data, false)
	case encodingUTF16BE:
		s = decodeUTF16(data, true)
	case encodingUTF8:
		s = string(data)
	default:
		s = decodeLatin1(data)
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s
}

func decodeLatin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// decodeUTF16 decodes UTF-16 text, honoring a byte order mark when present
// and falling back to the given default order otherwise.
func decodeUTF16(data []byte, bigEndian bool) string {
	if len(data) >= 2 {
		switch {
		case data[0] == 0xFE && data[1] == 0xFF:
			bigEndian = true
			data = data[2:]
		case data[0] == 0xFF && data[1] == 0xFE:
			bigEndian = false
			data = data[2:]
		}
	}
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		if bigEndian {
			units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
		} else {
			units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
		}
	}
	return string(utf16.Decode(units))
}

// encodeLatin1 maps s onto single bytes, substituting '?' for anything
// outside Latin-1. Used for element IDs and URLs, which the format keeps
// in ISO-8859-1 regardless of the frame's text encoding.
func encodeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			out = append(out, '?')
			continue
		}
		out = append(out, byte(r))
	}
	return out
}

// splitTerminated cuts data at the first terminator for the encoding
// (a zero byte, or an aligned zero pair for UTF-16 flavors) and returns
// the segment before it plus the remainder after it.
func splitTerminated(data []byte, encoding byte) (segment, rest []byte) {
	if encoding == encodingUTF16 || encoding == encodingUTF16BE {
		for i := 0; i+1 < len(data); i += 2 {
			if data[i] == 0 && data[i+1] == 0 {
				return data[:i], data[i+2:]
			}
		}
		return data, nil
	}
	for i, c := range data {
		if c == 0 {
			return data[:i], data[i+1:]
		}
	}
	return data, nil
}

// splitLatin1z cuts a NUL terminated Latin-1 string off the front of data.
func splitLatin1z(data []byte) (value string, rest []byte) {
	segment, rest := splitTerminated(data, encodingLatin1)
	return decodeLatin1(segment), rest
}

// normalizeLanguage coerces a language value to the three lowercase
// letters the COMM and USLT wire layout requires. Anything that does not
// fit becomes the ISO 639-2 undetermined code.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) != 3 {
		return "und"
	}
	for _, r := range lang {
		if r < 'a' || r > 'z' {
			return "und"
		}
	}
	return lang
}
