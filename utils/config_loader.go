package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Input/output mode names used in printer.yaml.
const (
	InputModeDevice = "device" // 24-byte key-event records from a character device
	InputModeLines  = "lines"  // text lines from stdin

	OutputModeDevice = "device" // raw write to a printer device
	OutputModeStdout = "stdout"
)

// ─── printer.yaml sections ──────────────────────────────────────────────

type InputConfig struct {
	Mode       string `yaml:"mode"`
	DevicePath string `yaml:"device_path"`
	PollMs     int    `yaml:"poll_ms"`  // idle poll interval when no event is buffered
	RetryMs    int    `yaml:"retry_ms"` // backoff after a failed read
}

type OutputConfig struct {
	Mode       string `yaml:"mode"`
	DevicePath string `yaml:"device_path"`
	BaudRate   int    `yaml:"baud_rate"` // > 0 means a serial printer
	FeedLines  int    `yaml:"feed_lines"`
}

type ReceiptConfig struct {
	Words        []string `yaml:"words"`
	FallbackWord string   `yaml:"fallback_word"`
}

// PrinterConfig is the top-level structure for printer.yaml.
type PrinterConfig struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Receipt ReceiptConfig `yaml:"receipt"`
}

// DefaultPrinterConfig is what runs when no config file is given: lines
// from stdin, receipts to stdout.
func DefaultPrinterConfig() *PrinterConfig {
	return &PrinterConfig{
		Input:  InputConfig{Mode: InputModeLines, PollMs: 50, RetryMs: 200},
		Output: OutputConfig{Mode: OutputModeStdout, FeedLines: 5},
	}
}

// LoadPrinterConfig reads and parses printer.yaml. Missing keys keep
// their default values.
func LoadPrinterConfig(path string) (*PrinterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read printer config: %w", err)
	}
	cfg := DefaultPrinterConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse printer config: %w", err)
	}
	return cfg, nil
}
