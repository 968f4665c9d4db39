package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// formatTimestamp renders a millisecond offset the way chapter markers are
// usually read: mm:ss.mmm, with an hour field once the offset needs one.
func formatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	millis := ms % 1000
	seconds := ms / 1000 % 60
	minutes := ms / 60000 % 60
	hours := ms / 3600000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// formatPlayTime renders a play length without the millisecond noise:
// mm:ss under an hour, h:mm:ss beyond.
func formatPlayTime(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := (ms + 500) / 1000
	if hours := seconds / 3600; hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

// shouldColorize reports whether writer is a terminal that can take ANSI
// color sequences.
func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(s, color string, enabled bool) string {
	if !enabled || color == "" {
		return s
	}
	return color + s + ansiReset
}
