// Package ascii implements the line-oriented key=value format used by
// Sigsum wire messages and persisted artifacts (leaf requests, tree
// heads, proof bundles).
//
// A document is a sequence of lines of the form "key=value". Values may
// contain spaces; the first '=' separates key from value. Blank lines
// are permitted and ignored.
package ascii

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line is a single key=value record.
type Line struct {
	Key   string
	Value string
}

// Parse reads all key=value lines from r, preserving order.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		key, value, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("ascii: line %d: missing '=' separator", n)
		}
		if key == "" {
			return nil, fmt.Errorf("ascii: line %d: empty key", n)
		}
		lines = append(lines, Line{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ascii: %w", err)
	}
	return lines, nil
}

// ParseUint64 parses a decimal unsigned integer value.
func ParseUint64(value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ascii: invalid number %q", value)
	}
	return n, nil
}

// Writer accumulates key=value lines. The first write error is sticky
// and returned from Err.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting lines to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Line writes a single key=value line.
func (w *Writer) Line(key, value string) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, "%s=%s\n", key, value)
}

// Uint64 writes a key with a decimal unsigned integer value.
func (w *Writer) Uint64(key string, n uint64) {
	w.Line(key, strconv.FormatUint(n, 10))
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}
