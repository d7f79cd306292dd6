package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/librescoot/librefsm"

	"github.com/klausbreyer/bonbonbon/models"
	"github.com/klausbreyer/bonbonbon/services/ingest"
	"github.com/klausbreyer/bonbonbon/utils"
)

// Session states and events.
const (
	StateIdle      librefsm.StateID = "idle"
	StateBuffering librefsm.StateID = "buffering"

	evDigit  librefsm.EventID = "digit"
	evCommit librefsm.EventID = "commit"
	evPrint  librefsm.EventID = "print"
)

// maxBufferLen caps the digit buffer; anything typed beyond it before a
// commit is silently dropped, keeping the first five digits.
const maxBufferLen = 5

// sessionData is the mutable session state, threaded through the machine
// via librefsm's Context.Data. Only transition actions touch it, and
// actions are applied one at a time, so no locking is needed.
type sessionData struct {
	buffer    []byte
	committed []uint64
}

// SessionController owns the input state machine: it buffers typed
// digits, commits amounts and triggers prints. Malformed input never
// errors out — the kiosk absorbs it and waits for the next key.
type SessionController struct {
	machine *librefsm.Machine
	data    *sessionData
	onPrint func(amounts []uint64) error

	applied uint64
	printed uint64
	skipped uint64 // prints requested with nothing committed
}

// NewSessionController wires the idle/buffering machine. onPrint receives
// the committed amounts of each non-empty print, synchronously.
func NewSessionController(onPrint func([]uint64) error) (*SessionController, error) {
	sc := &SessionController{data: &sessionData{}, onPrint: onPrint}

	def := librefsm.NewDefinition().
		State(StateIdle).
		State(StateBuffering).
		Transition(StateIdle, evDigit, StateBuffering, librefsm.WithAction(sc.appendDigit)).
		Transition(StateBuffering, evDigit, StateBuffering, librefsm.WithAction(sc.appendDigit)).
		Transition(StateBuffering, evCommit, StateIdle, librefsm.WithAction(sc.commit)).
		// Commit with an empty buffer is an explicit no-op.
		Transition(StateIdle, evCommit, StateIdle).
		Transition(StateBuffering, evPrint, StateIdle, librefsm.WithAction(sc.print)).
		Transition(StateIdle, evPrint, StateIdle, librefsm.WithAction(sc.print)).
		Initial(StateIdle)

	m, err := def.Build(
		librefsm.WithData(sc.data),
		librefsm.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))),
	)
	if err != nil {
		return nil, fmt.Errorf("build session machine: %w", err)
	}
	sc.machine = m
	return sc, nil
}

// Start enters the idle state and spins up the machine's event loop.
func (sc *SessionController) Start(ctx context.Context) error {
	if err := sc.machine.Start(ctx); err != nil {
		return fmt.Errorf("start session machine: %w", err)
	}
	utils.L().Info("session controller started (state=%s)", sc.machine.CurrentState())
	return nil
}

func (sc *SessionController) Stop() { _ = sc.machine.Stop() }

// Apply feeds one semantic action through the machine and waits for it to
// be fully processed, including any synchronous print it triggers.
func (sc *SessionController) Apply(a models.KeyAction) error {
	atomic.AddUint64(&sc.applied, 1)
	switch a.Kind {
	case models.ActionDigit:
		return sc.machine.SendSync(librefsm.Event{ID: evDigit, Payload: a.Digit})
	case models.ActionCommit:
		return sc.machine.SendSync(librefsm.Event{ID: evCommit})
	case models.ActionPrint:
		return sc.machine.SendSync(librefsm.Event{ID: evPrint})
	default:
		return nil
	}
}

// Run drives the kiosk loop: one action is pulled and fully applied
// before the next read. It returns on input EOF or context cancellation.
func (sc *SessionController) Run(ctx context.Context, src ingest.ActionSource) error {
	for {
		a, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				utils.L().Info("input stream ended")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("next action: %w", err)
		}
		if err := sc.Apply(a); err != nil {
			utils.L().Error("apply %s: %v", a.Kind, err)
		}
	}
}

// Buffer returns the digits typed since the last commit. Valid between
// Apply calls; the machine is quiescent then.
func (sc *SessionController) Buffer() string { return string(sc.data.buffer) }

// Committed returns a copy of the amounts committed since the last print.
func (sc *SessionController) Committed() []uint64 {
	out := make([]uint64, len(sc.data.committed))
	copy(out, sc.data.committed)
	return out
}

// State returns the current machine state.
func (sc *SessionController) State() librefsm.StateID { return sc.machine.CurrentState() }

// Stats returns actions applied, receipts printed and empty prints skipped.
func (sc *SessionController) Stats() (applied, printed, skipped uint64) {
	return atomic.LoadUint64(&sc.applied),
		atomic.LoadUint64(&sc.printed),
		atomic.LoadUint64(&sc.skipped)
}

// ── transition actions ──────────────────────────────────────────────────

func (sc *SessionController) appendDigit(c *librefsm.Context) error {
	d := c.Data.(*sessionData)
	if len(d.buffer) >= maxBufferLen {
		return nil // truncate over-length bursts, don't reject
	}
	if digit, ok := c.Event.Payload.(byte); ok {
		d.buffer = append(d.buffer, digit)
	}
	return nil
}

func (sc *SessionController) commit(c *librefsm.Context) error {
	commitBuffer(c.Data.(*sessionData))
	return nil
}

// print commits any pending buffer, then hands the committed amounts to
// onPrint. A failed print is logged, never propagated: the session is
// reset either way and the loop keeps serving.
func (sc *SessionController) print(c *librefsm.Context) error {
	d := c.Data.(*sessionData)
	commitBuffer(d)

	if len(d.committed) == 0 {
		atomic.AddUint64(&sc.skipped, 1)
		utils.L().Debug("print requested with nothing committed — skipping")
		return nil
	}

	amounts := make([]uint64, len(d.committed))
	copy(amounts, d.committed)
	d.committed = d.committed[:0]

	if err := sc.onPrint(amounts); err != nil {
		utils.L().Error("print: %v", err)
		return nil
	}
	atomic.AddUint64(&sc.printed, 1)
	return nil
}

// commitBuffer parses the pending digits into the committed list and
// clears the buffer. Empty buffer means nothing happens.
func commitBuffer(d *sessionData) {
	if len(d.buffer) == 0 {
		return
	}
	if n, err := strconv.ParseUint(string(d.buffer), 10, 64); err == nil {
		d.committed = append(d.committed, n)
	}
	d.buffer = d.buffer[:0]
}
