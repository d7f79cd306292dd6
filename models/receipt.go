package models

import "strings"

// Receipt is one fully laid-out document: header, separators and one item
// line per committed amount, every line exactly as wide as the paper.
// A Receipt is built fresh for each print and never mutated afterwards.
type Receipt struct {
	Lines []string
}

// Text joins the lines with single newlines. There is no trailing
// newline; the output sink appends whatever paper feed it needs.
func (r *Receipt) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Bytes returns the receipt text ready for a device write.
func (r *Receipt) Bytes() []byte {
	return []byte(r.Text())
}
