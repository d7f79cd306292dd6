package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/klausbreyer/bonbonbon/models"
	"github.com/klausbreyer/bonbonbon/utils"
)

// readStatus classifies the outcome of one record read attempt.
type readStatus int

const (
	readOK          readStatus = iota
	readNoEvent                // nothing buffered yet — poll again after pollDelay
	readInterrupted            // EINTR — retry immediately
	readFailed                 // anything else — log, back off, keep serving
)

// EventReader pulls 24-byte key-event records from a character device and
// turns them into semantic actions. Read failures are never fatal once
// the device is open: the kiosk polls, backs off and keeps serving.
type EventReader struct {
	src        io.ReadCloser
	keymap     models.Keymap
	pollDelay  time.Duration
	retryDelay time.Duration

	decoded uint64
	failed  uint64
}

// OpenEventDevice opens a key-event character device for non-blocking
// reads, so an idle keypad surfaces as EAGAIN instead of a stuck syscall.
func OpenEventDevice(path string) (io.ReadCloser, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open event device %s: %w", path, err)
	}
	return f, nil
}

func NewEventReader(src io.ReadCloser, keymap models.Keymap, pollMs, retryMs int) *EventReader {
	if pollMs <= 0 {
		pollMs = 50
	}
	if retryMs <= 0 {
		retryMs = 200
	}
	return &EventReader{
		src:        src,
		keymap:     keymap,
		pollDelay:  time.Duration(pollMs) * time.Millisecond,
		retryDelay: time.Duration(retryMs) * time.Millisecond,
	}
}

// Next reads records until one decodes, waiting out idle periods and
// transient failures. Key releases and unmapped codes come back as
// no-ops; the session absorbs those.
func (r *EventReader) Next(ctx context.Context) (models.KeyAction, error) {
	buf := make([]byte, models.EventRecordSize)
	for {
		if err := ctx.Err(); err != nil {
			return models.KeyAction{}, err
		}

		n, err := io.ReadFull(r.src, buf)
		switch classifyRead(n, err) {
		case readOK:
			ev, derr := models.DecodeEventRecord(buf)
			if derr != nil {
				atomic.AddUint64(&r.failed, 1)
				utils.L().Error("event decode: %v", derr)
				if !sleepCtx(ctx, r.retryDelay) {
					return models.KeyAction{}, ctx.Err()
				}
				continue
			}
			atomic.AddUint64(&r.decoded, 1)
			return r.keymap.Map(ev), nil

		case readNoEvent:
			if !sleepCtx(ctx, r.pollDelay) {
				return models.KeyAction{}, ctx.Err()
			}

		case readInterrupted:
			// retry immediately

		case readFailed:
			atomic.AddUint64(&r.failed, 1)
			utils.L().Error("event read: %v", err)
			if !sleepCtx(ctx, r.retryDelay) {
				return models.KeyAction{}, ctx.Err()
			}
		}
	}
}

func (r *EventReader) Close() error { return r.src.Close() }

// Stats returns records decoded and read/decode failures.
func (r *EventReader) Stats() (decoded, failed uint64) {
	return atomic.LoadUint64(&r.decoded), atomic.LoadUint64(&r.failed)
}

// classifyRead maps a read outcome onto the retry policy. A clean EOF or
// EAGAIN with zero bytes means the device simply has nothing for us yet;
// a record cut short mid-way is a real failure.
func classifyRead(n int, err error) readStatus {
	switch {
	case err == nil:
		return readOK
	case errors.Is(err, unix.EINTR):
		return readInterrupted
	case n == 0 && (errors.Is(err, io.EOF) || errors.Is(err, unix.EAGAIN)):
		return readNoEvent
	default:
		return readFailed
	}
}

// sleepCtx waits d or until ctx is cancelled; reports false on cancel.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
