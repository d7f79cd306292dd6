package controller

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/klausbreyer/bonbonbon/utils"
	"github.com/klausbreyer/bonbonbon/views"
)

// PrintController turns a batch of committed amounts into a receipt and
// hands it to the output sink. Every print gets a job id so individual
// receipts can be traced in the logs of a screenless kiosk.
type PrintController struct {
	formatter *views.Formatter
	sink      views.Sink

	jobs     uint64
	failures uint64
}

func NewPrintController(formatter *views.Formatter, sink views.Sink) *PrintController {
	return &PrintController{formatter: formatter, sink: sink}
}

// Print formats and flushes one receipt. The write is synchronous: the
// session does not consume further input until the sink accepts the bytes.
func (pc *PrintController) Print(amounts []uint64) error {
	job := uuid.NewString()
	receipt := pc.formatter.Format(amounts)

	var total uint64
	for _, n := range amounts {
		total += n
	}

	if err := pc.sink.Print(receipt.Bytes()); err != nil {
		atomic.AddUint64(&pc.failures, 1)
		return fmt.Errorf("print job %s: %w", job, err)
	}
	atomic.AddUint64(&pc.jobs, 1)
	utils.L().Info("printed job=%s items=%d total=%d", job, len(amounts), total)
	return nil
}

// Stats returns receipts printed and failed sink writes.
func (pc *PrintController) Stats() (jobs, failures uint64) {
	return atomic.LoadUint64(&pc.jobs), atomic.LoadUint64(&pc.failures)
}
