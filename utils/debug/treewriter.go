// Package debug contains helpers producing human readable dumps for
// troubleshooting.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented dump of a tree, one node per line.
type TreeWriter struct {
	w      *strings.Builder
	indent string
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w:      &strings.Builder{},
		indent: "  ",
	}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.w.WriteString(tw.indent)
	}
}

// Line writes formatted line at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Leaf writes quoted text at requested depth, so whitespace is visible.
func (tw *TreeWriter) Leaf(depth int, text string) {
	tw.pad(depth)
	tw.w.WriteString(strconv.Quote(text))
	tw.w.WriteByte('\n')
}
