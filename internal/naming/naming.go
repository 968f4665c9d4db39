// Package naming renders episode file names and display titles from the
// profile templates and keeps them filesystem safe.
package naming

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Values carries the fields available to templates. Placeholders are
// written {slug}, {epnum}, {name}, and {ext}; unknown placeholders pass
// through untouched.
type Values struct {
	Slug  string
	EpNum string
	Name  string
	Ext   string
}

// Expand substitutes the template placeholders.
func Expand(template string, values Values) string {
	replacer := strings.NewReplacer(
		"{slug}", values.Slug,
		"{epnum}", values.EpNum,
		"{name}", values.Name,
		"{ext}", values.Ext,
	)
	return replacer.Replace(template)
}

// OutputName renders the file name for a finished episode. The slug is
// lowercased, the extension is always mp3, and the rendered name is
// sanitized for the filesystem.
func OutputName(template, slug, epnum, name string) string {
	rendered := Expand(template, Values{
		Slug:  strings.ToLower(slug),
		EpNum: epnum,
		Name:  name,
		Ext:   "mp3",
	})
	return SanitizeFileName(rendered)
}

// EpisodeTitle renders the display title written into the title frame.
func EpisodeTitle(template, slug, epnum, name string) string {
	return strings.TrimSpace(Expand(template, Values{
		Slug:  slug,
		EpNum: epnum,
		Name:  name,
		Ext:   "mp3",
	}))
}

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of surrounding whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// DeriveTitle suggests an episode name from the source file name:
// separators collapse to spaces and words are title cased. It returns ""
// when the file name holds nothing usable, leaving the operator to type
// a name.
func DeriveTitle(sourcePath string) string {
	if sourcePath == "" {
		return ""
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}
