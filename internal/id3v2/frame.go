package id3v2

// FrameID is a four character ID3v2 frame identifier.
type FrameID string

// Frame identifiers manipulated by this package. Frames read from a file
// that are not listed here survive as RawFrame values and are rewritten
// verbatim on save.
const (
	FrameTitle         FrameID = "TIT2"
	FrameArtist        FrameID = "TPE1"
	FrameAlbum         FrameID = "TALB"
	FramePartOfSet     FrameID = "TPOS"
	FrameGenre         FrameID = "TCON"
	FrameComposer      FrameID = "TCOM"
	FrameAccompaniment FrameID = "TPE2"
	FrameRecordingTime FrameID = "TDRC"
	FrameTrack         FrameID = "TRCK"
	FrameLanguage      FrameID = "TLAN"
	FrameLength        FrameID = "TLEN"
	FrameComment       FrameID = "COMM"
	FrameLyrics        FrameID = "USLT"
	FrameUserURL       FrameID = "WXXX"
	FrameChapter       FrameID = "CHAP"
	FrameTOC           FrameID = "CTOC"
)

// Frame is a single ID3v2 frame. Implementations are small value types;
// mutating a frame never mutates a tag it was read from.
type Frame interface {
	ID() FrameID
}

// TextFrame carries a T*** text information frame. Text is written UTF-8.
type TextFrame struct {
	Kind FrameID
	Text string
}

func (f TextFrame) ID() FrameID { return f.Kind }

// CommentFrame carries a COMM frame. Language is an ISO 639-2 code and is
// normalized to three lowercase letters on write.
type CommentFrame struct {
	Language    string
	Description string
	Text        string
}

func (CommentFrame) ID() FrameID { return FrameComment }

// LyricsFrame carries a USLT frame. The body layout matches CommentFrame.
type LyricsFrame struct {
	Language    string
	Description string
	Text        string
}

func (LyricsFrame) ID() FrameID { return FrameLyrics }

// UserURLFrame carries a WXXX frame. The URL itself is written Latin-1 as
// the format requires; the description is written UTF-8.
type UserURLFrame struct {
	Description string
	URL         string
}

func (UserURLFrame) ID() FrameID { return FrameUserURL }

// ChapterFrame carries a CHAP frame. Start and End are milliseconds from
// the beginning of the audio. Byte offsets are not tracked and are always
// written as the "not used" sentinel.
type ChapterFrame struct {
	ElementID string
	Start     uint32
	End       uint32
	SubFrames []Frame
}

func (ChapterFrame) ID() FrameID { return FrameChapter }

// TOCFrame carries a CTOC frame listing chapter element IDs.
type TOCFrame struct {
	ElementID string
	TopLevel  bool
	Ordered   bool
	ChildIDs  []string
	SubFrames []Frame
}

func (TOCFrame) ID() FrameID { return FrameTOC }

// RawFrame preserves a frame this package does not interpret.
type RawFrame struct {
	Kind FrameID
	Data []byte
}

func (f RawFrame) ID() FrameID { return f.Kind }
