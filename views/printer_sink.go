package views

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/term"
)

// Sink is where a finished receipt goes. Implementations append their own
// trailing paper feed after the receipt bytes.
type Sink interface {
	Print(data []byte) error
	Close() error
}

// StreamSink writes receipts to any writer, normally stdout.
type StreamSink struct {
	w    io.Writer
	feed string
}

func NewStreamSink(w io.Writer, feedLines int) *StreamSink {
	return &StreamSink{w: w, feed: feed(feedLines)}
}

func (s *StreamSink) Print(data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("stream write: %w", err)
	}
	if _, err := io.WriteString(s.w, s.feed); err != nil {
		return fmt.Errorf("stream feed: %w", err)
	}
	return nil
}

func (s *StreamSink) Close() error { return nil }

// DeviceSink writes receipts to a thermal printer character device.
// Serial printers (baud > 0) are opened through pkg/term so the line
// speed can be set; USB/parallel class devices are plain file writes.
// Writes are synchronous: a slow printer backpressures the input loop,
// which is fine — printing is fast next to human keypresses.
type DeviceSink struct {
	dev  io.WriteCloser
	path string
	feed string
}

func NewDeviceSink(path string, baud, feedLines int) (*DeviceSink, error) {
	var (
		dev io.WriteCloser
		err error
	)
	if baud > 0 {
		dev, err = term.Open(path, term.Speed(baud), term.RawMode)
	} else {
		dev, err = os.OpenFile(path, os.O_WRONLY, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("open printer %s: %w", path, err)
	}
	return &DeviceSink{dev: dev, path: path, feed: feed(feedLines)}, nil
}

func (s *DeviceSink) Print(data []byte) error {
	if _, err := s.dev.Write(data); err != nil {
		return fmt.Errorf("printer write %s: %w", s.path, err)
	}
	if _, err := s.dev.Write([]byte(s.feed)); err != nil {
		return fmt.Errorf("printer feed %s: %w", s.path, err)
	}
	return nil
}

func (s *DeviceSink) Close() error { return s.dev.Close() }

// feed builds the trailing newlines that push the printed receipt clear
// of the tear bar. The receipt text itself has no trailing newline.
func feed(lines int) string {
	if lines < 1 {
		lines = 1
	}
	return strings.Repeat("\n", lines)
}
