package tagging

import (
	"errors"
	"math"

	"github.com/manualmanul/XBN/internal/id3v2"
)

// ErrChapterImage reports a chapter that asks for an embedded image.
// Image frames inside chapters have never been wired up; failing loudly
// beats writing a chapter that silently lost its artwork.
var ErrChapterImage = errors.New("tagging: chapter images are not supported")

// chapterURLDescription is the fixed description under which a chapter's
// link is stored in its WXXX sub-frame.
const chapterURLDescription = "chapter url"

// tocElementID names the table of contents frame.
const tocElementID = "toc"

// Chapter is one entry of an episode's chapter list. Start and End are
// milliseconds from the beginning of the audio. Values are carried as
// given: chapters may overlap, sit out of order, or have Start >= End,
// and they are written exactly that way.
type Chapter struct {
	Start int64
	End   int64
	URL   string
	Image string
	Text  string
	// Indexed controls membership in the table of contents. A chapter
	// with Indexed false is still written, it just is not listed.
	Indexed bool
}

// NewChapter returns a chapter spanning the given millisecond range,
// included in the table of contents by default.
func NewChapter(start, end int64) Chapter {
	return Chapter{Start: start, End: end, Indexed: true}
}

// frame renders the chapter as a CHAP frame under the given element ID.
// The title sub-frame precedes the URL sub-frame; players pick the first
// one they understand.
func (c Chapter) frame(elementID string) (id3v2.ChapterFrame, error) {
	if c.Image != "" {
		return id3v2.ChapterFrame{}, ErrChapterImage
	}
	frame := id3v2.ChapterFrame{
		ElementID: elementID,
		Start:     clampMS(c.Start),
		End:       clampMS(c.End),
	}
	if c.Text != "" {
		frame.SubFrames = append(frame.SubFrames, id3v2.TextFrame{Kind: id3v2.FrameTitle, Text: c.Text})
	}
	if c.URL != "" {
		frame.SubFrames = append(frame.SubFrames, id3v2.UserURLFrame{
			Description: chapterURLDescription,
			URL:         c.URL,
		})
	}
	return frame, nil
}

// clampMS fits a millisecond value into the unsigned 32 bit field CHAP
// uses. That caps chapter marks at roughly 49 days.
func clampMS(ms int64) uint32 {
	if ms < 0 {
		return 0
	}
	if ms > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ms)
}
