package tagging

import (
	"fmt"
	"strconv"

	"github.com/manualmanul/XBN/internal/id3v2"
	"github.com/manualmanul/XBN/internal/mp3"
)

// Tagger edits the ID3v2 tag of a finished episode file. Opening a tagger
// measures the audio and stamps the play length; all other frames are
// written through the setter methods and hit the file on Save.
//
// Single-value fields replace any frames already present under their ID,
// so retagging an episode never piles up duplicates. Comments and lyrics
// append, since one episode can legitimately carry several.
type Tagger struct {
	file       *id3v2.File
	durationMS int64
}

// Open loads the tag of the MP3 at path, creating a fresh tag when the
// file has none. The decoded play length is written to the length frame
// immediately, replacing whatever stale value a previous tool left. A
// file that is missing or holds no MPEG audio is an error.
func Open(path string) (*Tagger, error) {
	file, err := id3v2.Open(path)
	if err != nil {
		return nil, err
	}
	audio := file.AudioReader()
	info, err := mp3.Probe(audio, audio.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("probe audio length: %w", err)
	}

	t := &Tagger{file: file, durationMS: info.DurationMS}
	t.setText(id3v2.FrameLength, strconv.FormatInt(info.DurationMS, 10))
	return t, nil
}

func (t *Tagger) setText(id id3v2.FrameID, value string) {
	tag := t.file.Tag()
	tag.DeleteAll(id)
	tag.Add(id3v2.TextFrame{Kind: id, Text: value})
}

// SetTitle replaces the episode title.
func (t *Tagger) SetTitle(title string) { t.setText(id3v2.FrameTitle, title) }

// SetArtist replaces the lead artist.
func (t *Tagger) SetArtist(artist string) { t.setText(id3v2.FrameArtist, artist) }

// SetAlbum replaces the album, conventionally the show name.
func (t *Tagger) SetAlbum(album string) { t.setText(id3v2.FrameAlbum, album) }

// SetSeason replaces the part-of-set frame, which podcast clients read as
// the season number.
func (t *Tagger) SetSeason(season string) { t.setText(id3v2.FramePartOfSet, season) }

// SetGenre replaces the genre.
func (t *Tagger) SetGenre(genre string) { t.setText(id3v2.FrameGenre, genre) }

// SetComposer replaces the composer.
func (t *Tagger) SetComposer(composer string) { t.setText(id3v2.FrameComposer, composer) }

// SetAccompaniment replaces the band / accompaniment frame.
func (t *Tagger) SetAccompaniment(name string) { t.setText(id3v2.FrameAccompaniment, name) }

// SetDate replaces the recording time.
func (t *Tagger) SetDate(date string) { t.setText(id3v2.FrameRecordingTime, date) }

// SetTrackNumber replaces the track number, conventionally the episode
// number.
func (t *Tagger) SetTrackNumber(track string) { t.setText(id3v2.FrameTrack, track) }

// SetLanguage replaces the content language.
func (t *Tagger) SetLanguage(language string) { t.setText(id3v2.FrameLanguage, language) }

// AddComment appends a comment frame. Existing comments stay, including
// ones with the same language and description.
func (t *Tagger) AddComment(language, description, text string) {
	t.file.Tag().Add(id3v2.CommentFrame{Language: language, Description: description, Text: text})
}

// AddLyrics appends an unsynchronised lyrics frame.
func (t *Tagger) AddLyrics(language, description, text string) {
	t.file.Tag().Add(id3v2.LyricsFrame{Language: language, Description: description, Text: text})
}

// SetChapters replaces the file's chapter frames and table of contents
// with the given list. Element IDs are assigned from the list position,
// and the table of contents lists the indexed chapters in list order. An
// empty list removes all chapter data. Any chapter failing to render
// leaves the tag untouched.
func (t *Tagger) SetChapters(chapters []Chapter) error {
	frames := make([]id3v2.ChapterFrame, 0, len(chapters))
	childIDs := make([]string, 0, len(chapters))
	for i, chapter := range chapters {
		elementID := "chp" + strconv.Itoa(i)
		frame, err := chapter.frame(elementID)
		if err != nil {
			return err
		}
		frames = append(frames, frame)
		if chapter.Indexed {
			childIDs = append(childIDs, elementID)
		}
	}

	tag := t.file.Tag()
	tag.DeleteAll(id3v2.FrameChapter)
	tag.DeleteAll(id3v2.FrameTOC)
	if len(frames) == 0 {
		return nil
	}
	for _, frame := range frames {
		tag.Add(frame)
	}
	tag.Add(id3v2.TOCFrame{
		ElementID: tocElementID,
		TopLevel:  true,
		Ordered:   true,
		ChildIDs:  childIDs,
	})
	return nil
}

// DurationMS returns the play length measured when the tagger was opened.
func (t *Tagger) DurationMS() int64 { return t.durationMS }

// Origin reports whether Open found an existing tag or created one.
func (t *Tagger) Origin() id3v2.Origin { return t.file.Origin() }

// Path returns the path of the file being tagged.
func (t *Tagger) Path() string { return t.file.Path() }

// Tag exposes the underlying tag, mainly for inspection in tests and the
// status tooling.
func (t *Tagger) Tag() *id3v2.Tag { return t.file.Tag() }

// Save rewrites the file with the current tag. The write is atomic; on
// error the file on disk is unchanged and the session may retry or abort.
func (t *Tagger) Save() error { return t.file.Save() }

// Close releases the file handle without saving.
func (t *Tagger) Close() error { return t.file.Close() }
