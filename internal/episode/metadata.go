// Package episode collects per-episode metadata from flags and interactive
// prompts.
package episode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Metadata describes a single episode.
type Metadata struct {
	Number  string
	Name    string
	Comment string
}

// Defaults seeds Collect with values gathered before prompting. Non-empty
// fields (or CommentProvided) skip their prompt.
type Defaults struct {
	Number          string
	Name            string
	Comment         string
	CommentProvided bool
	SuggestedName   string
}

// Interactive reports whether the reader is attached to a terminal.
func Interactive(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Collect gathers episode metadata, prompting for any value defaults does not
// supply. The episode number and name are required and re-prompted until
// non-empty; the comment accepts multiple lines terminated by an empty line
// and joins them with CRLF. Cancelling the context aborts the wait for input.
func Collect(ctx context.Context, in io.Reader, out io.Writer, defaults Defaults) (Metadata, error) {
	prompts := newPromptReader(in)
	meta := Metadata{
		Number:  strings.TrimSpace(defaults.Number),
		Name:    strings.TrimSpace(defaults.Name),
		Comment: defaults.Comment,
	}

	for meta.Number == "" {
		line, err := prompts.ask(ctx, out, "Episode number: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Metadata{}, errors.New("input ended before an episode number was provided")
			}
			return Metadata{}, err
		}
		meta.Number = strings.TrimSpace(line)
	}

	suggested := strings.TrimSpace(defaults.SuggestedName)
	for meta.Name == "" {
		prompt := "Episode name: "
		if suggested != "" {
			prompt = fmt.Sprintf("Episode name [%s]: ", suggested)
		}
		line, err := prompts.ask(ctx, out, prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Metadata{}, errors.New("input ended before an episode name was provided")
			}
			return Metadata{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			line = suggested
		}
		meta.Name = line
	}

	if !defaults.CommentProvided {
		fmt.Fprintln(out, "Episode comment (multiple lines OK, enter empty line to finish):")
		var lines []string
		for {
			line, err := prompts.ask(ctx, out, "> ")
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return Metadata{}, err
			}
			if line == "" {
				break
			}
			lines = append(lines, line)
		}
		meta.Comment = strings.Join(lines, "\r\n")
	}

	return meta, nil
}

// promptReader pumps input lines through a channel so prompts can honor
// context cancellation while a read is pending.
type promptReader struct {
	scanner *bufio.Scanner
	lines   chan promptLine
	once    sync.Once
}

type promptLine struct {
	text string
	err  error
}

func newPromptReader(r io.Reader) *promptReader {
	return &promptReader{
		scanner: bufio.NewScanner(r),
		lines:   make(chan promptLine),
	}
}

func (p *promptReader) start() {
	p.once.Do(func() {
		go func() {
			defer close(p.lines)
			for p.scanner.Scan() {
				p.lines <- promptLine{text: p.scanner.Text()}
			}
			if err := p.scanner.Err(); err != nil {
				p.lines <- promptLine{err: err}
			}
		}()
	})
}

func (p *promptReader) ask(ctx context.Context, out io.Writer, prompt string) (string, error) {
	p.start()
	fmt.Fprint(out, prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		if line.err != nil {
			return "", line.err
		}
		return line.text, nil
	}
}
