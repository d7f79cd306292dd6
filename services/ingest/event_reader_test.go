package ingest

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/klausbreyer/bonbonbon/models"
)

func record(typ, code uint16, value int32) []byte {
	buf := make([]byte, models.EventRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], 1700000000)
	binary.LittleEndian.PutUint64(buf[8:16], 123456)
	binary.LittleEndian.PutUint16(buf[16:18], typ)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	return buf
}

// flakyReader fails a fixed number of reads before serving real records.
type flakyReader struct {
	failures int
	err      error
	data     *bytes.Reader
}

func (r *flakyReader) Read(p []byte) (int, error) {
	if r.failures > 0 {
		r.failures--
		return 0, r.err
	}
	return r.data.Read(p)
}

func (r *flakyReader) Close() error { return nil }

func TestClassifyRead(t *testing.T) {
	cases := []struct {
		name string
		n    int
		err  error
		want readStatus
	}{
		{"clean read", models.EventRecordSize, nil, readOK},
		{"zero-byte eof", 0, io.EOF, readNoEvent},
		{"eagain", 0, &os.PathError{Op: "read", Path: "/dev/input/event0", Err: unix.EAGAIN}, readNoEvent},
		{"eintr", 0, &os.PathError{Op: "read", Path: "/dev/input/event0", Err: unix.EINTR}, readInterrupted},
		{"short record", 10, io.ErrUnexpectedEOF, readFailed},
		{"device error", 0, errors.New("boom"), readFailed},
	}
	for _, c := range cases {
		if got := classifyRead(c.n, c.err); got != c.want {
			t.Errorf("%s: classified %d, want %d", c.name, got, c.want)
		}
	}
}

func TestNextDecodesRecords(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(models.EvKey, 79, models.ValPress)) // '1'
	stream.Write(record(models.EvKey, 78, models.ValPress)) // '+'

	r := NewEventReader(io.NopCloser(&stream), models.DefaultKeymap(), 1, 1)

	a, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.Kind != models.ActionDigit || a.Digit != '1' {
		t.Errorf("expected digit 1, got %s %c", a.Kind, a.Digit)
	}

	a, err = r.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.Kind != models.ActionCommit {
		t.Errorf("expected commit, got %s", a.Kind)
	}

	decoded, failed := r.Stats()
	if decoded != 2 || failed != 0 {
		t.Errorf("expected decoded=2 failed=0, got decoded=%d failed=%d", decoded, failed)
	}
}

func TestNextPassesReleasesThroughAsNoop(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(record(models.EvKey, 79, models.ValRelease))

	r := NewEventReader(io.NopCloser(&stream), models.DefaultKeymap(), 1, 1)
	a, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.Kind != models.ActionNoop {
		t.Errorf("expected noop, got %s", a.Kind)
	}
}

func TestNextRecoversFromReadFailure(t *testing.T) {
	src := &flakyReader{
		failures: 2,
		err:      errors.New("device glitch"),
		data:     bytes.NewReader(record(models.EvKey, 96, models.ValPress)),
	}
	r := NewEventReader(src, models.DefaultKeymap(), 1, 1)

	a, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.Kind != models.ActionPrint {
		t.Errorf("expected print after recovery, got %s", a.Kind)
	}
	if _, failed := r.Stats(); failed != 2 {
		t.Errorf("expected 2 recorded failures, got %d", failed)
	}
}

func TestNextPollsThroughIdlePeriods(t *testing.T) {
	// EOF with zero bytes is the idle condition, not the end
	src := &flakyReader{
		failures: 3,
		err:      io.EOF,
		data:     bytes.NewReader(record(models.EvKey, 82, models.ValPress)),
	}
	r := NewEventReader(src, models.DefaultKeymap(), 1, 1)

	a, err := r.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if a.Kind != models.ActionDigit || a.Digit != '0' {
		t.Errorf("expected digit 0 after idle polls, got %s %c", a.Kind, a.Digit)
	}
	if _, failed := r.Stats(); failed != 0 {
		t.Errorf("idle polls must not count as failures, got %d", failed)
	}
}

func TestNextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewEventReader(io.NopCloser(bytes.NewReader(nil)), models.DefaultKeymap(), 1, 1)
	if _, err := r.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
