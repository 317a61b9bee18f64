package scheduler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// LineReader supplies targets when none was given on the command line.
// ReadLine returns io.EOF once the input is exhausted.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// LinePrompt reads lines from an io.Reader, optionally printing a prompt
// first. Reads happen on a helper goroutine so a cancelled context unblocks
// ReadLine even while the underlying reader is still waiting.
//
// A cancelled ReadLine closes the prompt: later calls return io.EOF, and the
// helper goroutine exits once its pending read on the reader returns.
type LinePrompt struct {
	Prompt string
	Out    io.Writer // nil disables the prompt text

	in    *bufio.Reader
	start sync.Once
	stop  sync.Once
	lines chan lineResult
	done  chan struct{}
}

func NewLinePrompt(in io.Reader, out io.Writer, prompt string) *LinePrompt {
	return &LinePrompt{
		Prompt: prompt,
		Out:    out,
		in:     bufio.NewReader(in),
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
	}
}

func (p *LinePrompt) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return "", io.EOF
	default:
	}
	p.start.Do(func() { go p.pump() })
	if p.Out != nil && p.Prompt != "" {
		fmt.Fprint(p.Out, p.Prompt)
	}
	select {
	case <-ctx.Done():
		p.Close()
		return "", ctx.Err()
	case <-p.done:
		return "", io.EOF
	case lr, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return lr.line, lr.err
	}
}

// Close stops line delivery. It is safe to call more than once.
func (p *LinePrompt) Close() {
	p.stop.Do(func() { close(p.done) })
}

func (p *LinePrompt) send(lr lineResult) bool {
	select {
	case p.lines <- lr:
		return true
	case <-p.done:
		return false
	}
}

func (p *LinePrompt) pump() {
	defer close(p.lines)
	for {
		s, err := p.in.ReadString('\n')
		line := strings.TrimRight(s, "\r\n")
		if err != nil {
			if line != "" && !p.send(lineResult{line: line}) {
				return
			}
			if err != io.EOF {
				p.send(lineResult{err: err})
			}
			return
		}
		if !p.send(lineResult{line: line}) {
			return
		}
	}
}
