package markers

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/manualmanul/XBN/internal/tagging"
)

// Parse reads an Audacity label track export: one label per line, tab
// separated start and end in fractional seconds followed by the label
// text. Times convert to rounded milliseconds. Every label becomes an
// indexed chapter; blank lines are skipped, and a UTF-8 byte order mark
// or CRLF line endings from Windows exports are tolerated.
func Parse(r io.Reader) ([]tagging.Chapter, error) {
	var chapters []tagging.Chapter
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("markers: line %d: want start<TAB>end<TAB>label, got %q", lineNo, line)
		}
		start, err := parseSeconds(fields[0])
		if err != nil {
			return nil, fmt.Errorf("markers: line %d: start time: %w", lineNo, err)
		}
		end, err := parseSeconds(fields[1])
		if err != nil {
			return nil, fmt.Errorf("markers: line %d: end time: %w", lineNo, err)
		}

		chapter := tagging.NewChapter(start, end)
		if len(fields) > 2 {
			chapter.Text = strings.TrimSpace(strings.Join(fields[2:], "\t"))
		}
		chapters = append(chapters, chapter)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("markers: read labels: %w", err)
	}
	return chapters, nil
}

// ParseFile reads an Audacity label export from disk.
func ParseFile(path string) ([]tagging.Chapter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("markers: open labels: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseSeconds(field string) (int64, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q as seconds: %w", strings.TrimSpace(field), err)
	}
	return int64(math.Round(seconds * 1000)), nil
}
