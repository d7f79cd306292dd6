package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klausbreyer/bonbonbon/controller"
	"github.com/klausbreyer/bonbonbon/models"
	"github.com/klausbreyer/bonbonbon/services/ingest"
	"github.com/klausbreyer/bonbonbon/services/vocab"
	"github.com/klausbreyer/bonbonbon/utils"
	"github.com/klausbreyer/bonbonbon/views"
)

func main() {
	// ── CLI flags ────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to printer.yaml (built-in defaults when empty)")
	inputDev := flag.String("input", "", "key-event device path (switches input mode to device)")
	outputDev := flag.String("output", "", "printer device path (switches output mode to device)")
	logFile := flag.String("log", "", "optional log file path (stdout is always included)")
	logLevel := flag.String("log-level", "info", "minimum log level (debug|info|warn|error)")
	flag.Parse()

	// ── Logger ───────────────────────────────────────────────────────
	logger := utils.InitLogger(utils.ParseLevel(*logLevel), *logFile)
	defer logger.Close()

	utils.L().Info("═══════════════════════════════════════")
	utils.L().Info("  bonbonbon  ·  Jonas' Bonfabrik kiosk")
	utils.L().Info("  PID=%d", os.Getpid())
	utils.L().Info("═══════════════════════════════════════")

	// ── Load config ──────────────────────────────────────────────────
	cfg := utils.DefaultPrinterConfig()
	if *configPath != "" {
		var err error
		cfg, err = utils.LoadPrinterConfig(*configPath)
		if err != nil {
			utils.L().Fatal("load printer config: %v", err)
		}
	}

	// Device overrides: flag wins over environment wins over file.
	if *inputDev == "" {
		*inputDev = os.Getenv("BON_INPUT_DEVICE")
	}
	if *inputDev != "" {
		cfg.Input.Mode = utils.InputModeDevice
		cfg.Input.DevicePath = *inputDev
	}
	if *outputDev == "" {
		*outputDev = os.Getenv("BON_PRINTER_DEVICE")
	}
	if *outputDev != "" {
		cfg.Output.Mode = utils.OutputModeDevice
		cfg.Output.DevicePath = *outputDev
	}

	// ── Context with OS signal cancellation ──────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ── Pipeline assembly ────────────────────────────────────────────
	//
	//  ActionSource ──► SessionController ──► PrintController ──► Sink
	//  (device/lines)   (idle/buffering FSM)  (layout + job id)  (printer/stdout)

	sink, err := buildSink(cfg)
	if err != nil {
		utils.L().Fatal("open output sink: %v", err)
	}
	defer sink.Close()

	words := vocab.NewListSource(cfg.Receipt.Words, time.Now().UnixNano())
	formatter := views.NewFormatter(words, cfg.Receipt.FallbackWord)
	printer := controller.NewPrintController(formatter, sink)

	session, err := controller.NewSessionController(printer.Print)
	if err != nil {
		utils.L().Fatal("init session controller: %v", err)
	}
	if err := session.Start(ctx); err != nil {
		utils.L().Fatal("start session controller: %v", err)
	}
	defer session.Stop()

	src, err := buildSource(cfg)
	if err != nil {
		utils.L().Fatal("open input source: %v", err)
	}
	defer src.Close()

	utils.L().Info("kiosk running (input=%s output=%s) — press Ctrl+C to stop",
		cfg.Input.Mode, cfg.Output.Mode)

	runErr := make(chan error, 1)
	go func() { runErr <- session.Run(ctx, src) }()

	// ── Stats ticker ─────────────────────────────────────────────────
	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	// ── Main event loop ──────────────────────────────────────────────
	for {
		select {
		case sig := <-sigCh:
			utils.L().Info("received signal: %v — shutting down…", sig)
			cancel()
			goto shutdown

		case err := <-runErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				utils.L().Error("run loop: %v", err)
			}
			goto shutdown

		case <-statsTicker.C:
			logStats(session, printer)
		}
	}

shutdown:
	logStats(session, printer)
	fmt.Println("\n✓ bonbonbon stopped.")
}

func buildSink(cfg *utils.PrinterConfig) (views.Sink, error) {
	switch cfg.Output.Mode {
	case utils.OutputModeDevice:
		utils.L().Info("printing to device %s (baud=%d)", cfg.Output.DevicePath, cfg.Output.BaudRate)
		return views.NewDeviceSink(cfg.Output.DevicePath, cfg.Output.BaudRate, cfg.Output.FeedLines)
	case utils.OutputModeStdout, "":
		return views.NewStreamSink(os.Stdout, cfg.Output.FeedLines), nil
	default:
		return nil, fmt.Errorf("unknown output mode %q", cfg.Output.Mode)
	}
}

func buildSource(cfg *utils.PrinterConfig) (ingest.ActionSource, error) {
	switch cfg.Input.Mode {
	case utils.InputModeDevice:
		dev, err := ingest.OpenEventDevice(cfg.Input.DevicePath)
		if err != nil {
			return nil, err
		}
		utils.L().Info("reading key events from %s", cfg.Input.DevicePath)
		return ingest.NewEventReader(dev, models.DefaultKeymap(), cfg.Input.PollMs, cfg.Input.RetryMs), nil
	case utils.InputModeLines, "":
		utils.L().Info("reading lines from stdin (digits buffer, '+' commits, empty line prints)")
		return ingest.NewLineReader(os.Stdin), nil
	default:
		return nil, fmt.Errorf("unknown input mode %q", cfg.Input.Mode)
	}
}

func logStats(session *controller.SessionController, printer *controller.PrintController) {
	applied, _, skipped := session.Stats()
	jobs, failures := printer.Stats()
	utils.L().Info("── stats ─────────────────────────")
	utils.L().Info("  actions applied:  %d", applied)
	utils.L().Info("  receipts printed: %d", jobs)
	utils.L().Info("  empty prints:     %d", skipped)
	utils.L().Info("  sink failures:    %d", failures)
	utils.L().Info("──────────────────────────────────")
}
