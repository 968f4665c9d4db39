package lame

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Progress captures LAME encoding progress output.
type Progress struct {
	Frame       int
	TotalFrames int
	Percent     float64
}

// Request describes a single encode job.
type Request struct {
	InputPath  string
	OutputPath string
	Bitrate    int
}

// Encoder defines the behaviour required by the processing workflow.
type Encoder interface {
	Encode(ctx context.Context, req Request, progress func(Progress)) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps LAME CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a LAME client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("lame binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Encode runs LAME, producing a CBR MP3 without a LAME/Xing info header.
// The -t flag keeps the info frame out of the output so the duration probe
// counts real audio frames.
func (c *Client) Encode(ctx context.Context, req Request, progress func(Progress)) error {
	if strings.TrimSpace(req.InputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return errors.New("output path required")
	}
	if req.Bitrate <= 0 {
		return fmt.Errorf("bitrate must be positive, got %d", req.Bitrate)
	}

	args := []string{"-t", "-b", strconv.Itoa(req.Bitrate), "--cbr", req.InputPath, req.OutputPath}

	var lastLine string
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lastLine = trimmed
		}
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	})
	if err != nil {
		if lastLine != "" {
			return fmt.Errorf("lame encode: %w (last output: %s)", err, lastLine)
		}
		return fmt.Errorf("lame encode: %w", err)
	}

	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("lame produced no output file: %w", err)
	}
	return nil
}

// parseProgress extracts frame counters from LAME status lines such as
// "  3840/9216  ( 42%)|  0:01/0:03 | ...". The first whitespace-separated
// field of the form digits/digits wins; time columns like 0:01/0:03 never
// match because of the colon.
func parseProgress(line string) (Progress, bool) {
	for _, field := range strings.Fields(line) {
		slash := strings.IndexByte(field, '/')
		if slash <= 0 || slash == len(field)-1 {
			continue
		}
		frame, err := strconv.Atoi(field[:slash])
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(field[slash+1:])
		if err != nil {
			continue
		}
		update := Progress{Frame: frame, TotalFrames: total}
		if total > 0 {
			update.Percent = float64(frame) / float64(total) * 100
		}
		return update, true
	}
	return Progress{}, false
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Split(scanStatusLines)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

// scanStatusLines splits on carriage returns as well as newlines. LAME
// redraws its progress line with bare \r, so plain line scanning would not
// see an update until the encode finishes.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
