package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/klausbreyer/bonbonbon/models"
)

// LineReader translates the line-oriented text protocol into the same
// actions the event device produces: digits buffer, a trailing '+'
// commits the line, an empty line prints. Characters outside 0-9 are
// silently dropped.
type LineReader struct {
	sc      *bufio.Scanner
	closer  io.Closer
	pending []models.KeyAction
	lines   uint64
}

// NewLineReader wraps any reader, normally stdin. If the reader is also
// a Closer, Close is forwarded to it.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{sc: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok {
		lr.closer = c
	}
	return lr
}

func (r *LineReader) Next(ctx context.Context) (models.KeyAction, error) {
	for len(r.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return models.KeyAction{}, err
		}
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return models.KeyAction{}, fmt.Errorf("read line: %w", err)
			}
			return models.KeyAction{}, io.EOF
		}
		atomic.AddUint64(&r.lines, 1)
		r.pending = parseLine(r.sc.Text())
	}
	a := r.pending[0]
	r.pending = r.pending[1:]
	return a, nil
}

func (r *LineReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Stats returns the number of input lines consumed.
func (r *LineReader) Stats() uint64 { return atomic.LoadUint64(&r.lines) }

// parseLine maps one input line to its action sequence.
func parseLine(line string) []models.KeyAction {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return []models.KeyAction{{Kind: models.ActionPrint}}
	}

	commit := strings.HasSuffix(line, "+")
	if commit {
		line = line[:len(line)-1]
	}

	var actions []models.KeyAction
	for _, c := range line {
		if c >= '0' && c <= '9' {
			actions = append(actions, models.KeyAction{Kind: models.ActionDigit, Digit: byte(c)})
		}
	}
	if commit {
		actions = append(actions, models.KeyAction{Kind: models.ActionCommit})
	}
	return actions
}
