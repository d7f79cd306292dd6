package views

import (
	"strconv"
	"strings"

	"github.com/klausbreyer/bonbonbon/models"
	"github.com/klausbreyer/bonbonbon/services/vocab"
)

// LineWidth is the column count of the thermal printer paper. Every line
// a Formatter emits is exactly this wide.
const LineWidth = 24

// headerLines is printed verbatim at the top of every receipt.
var headerLines = [4]string{
	".-=-=-=-=-=--=-=-=-=-=-.",
	"|   JONAS  BONFABRIK   |",
	"|  * Bons * BonBons *  |",
	"'-=-=-=-=-=--=-=-=-=-=-'",
}

const defaultFallback = "Bon"

// Formatter lays committed amounts out as fixed-width receipt lines:
// header, blank, one labelled line per amount, blank, a dash rule and a
// SUMME total. It holds no mutable state between prints.
type Formatter struct {
	words    vocab.Source
	fallback string
}

// NewFormatter builds a formatter over the given word source. fallback
// is the label used when the source has no candidate short enough; empty
// means the built-in default.
func NewFormatter(words vocab.Source, fallback string) *Formatter {
	if fallback == "" {
		fallback = defaultFallback
	}
	return &Formatter{words: words, fallback: fallback}
}

// Format builds the complete receipt for one print event. An empty input
// still yields the header, separators and a SUMME 0 line.
func (f *Formatter) Format(amounts []uint64) *models.Receipt {
	lines := make([]string, 0, len(amounts)+8)

	for _, h := range headerLines {
		lines = append(lines, fitToWidth(h))
	}
	lines = append(lines, fitToWidth(""))

	var total uint64
	for _, n := range amounts {
		lines = append(lines, f.itemLine(n))
		total += n
	}

	lines = append(lines, fitToWidth(""))
	lines = append(lines, strings.Repeat("-", LineWidth))
	lines = append(lines, labelLine("SUMME", total))

	return &models.Receipt{Lines: lines}
}

// itemLine renders one amount with a word label on the left and the
// amount right-aligned. The label must leave at least one space before
// the amount, hence the -1 in the length budget.
func (f *Formatter) itemLine(n uint64) string {
	amt := strconv.FormatUint(n, 10)
	maxWord := LineWidth - len(amt) - 1
	if maxWord < 1 {
		maxWord = 1
	}
	label, ok := f.words.Select(maxWord)
	if !ok {
		label = f.fallback
		if len(label) > maxWord {
			label = label[:maxWord]
		}
	}
	return labelLine(label, n)
}

func labelLine(label string, n uint64) string {
	amt := strconv.FormatUint(n, 10)
	spaces := LineWidth - len(label) - len(amt)
	if spaces < 1 {
		spaces = 1
	}
	return fitToWidth(label + strings.Repeat(" ", spaces) + amt)
}

// fitToWidth strips carriage returns, then truncates or right-pads so the
// result is exactly LineWidth characters. Applied to every emitted line,
// including the static header.
func fitToWidth(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	if len(s) > LineWidth {
		return s[:LineWidth]
	}
	return s + strings.Repeat(" ", LineWidth-len(s))
}
