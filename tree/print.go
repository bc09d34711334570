package tree

import (
	"io"
	"strings"

	"themegen/utils/debug"
)

// Print returns concatenated text of all tokens under cursor in document
// order. Consumed cursor prints nothing, use WriteTo to get ErrDetached.
func (c *Cursor) Print() string {
	var sb strings.Builder
	c.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// WriteTo writes text of all tokens under cursor to w, implementing
// io.WriterTo.
func (c *Cursor) WriteTo(w io.Writer) (int64, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	var (
		total int64
		err   error
	)
	c.Walk(Visitor{Token: func(t *Cursor) Step {
		var n int
		n, err = io.WriteString(w, t.node.(*Token).Text)
		total += int64(n)
		if err != nil {
			return Stop
		}
		return Descend
	}})
	return total, err
}

// PrintDebug returns structural dump of the subtree for diagnostics, empty
// for consumed cursor.
func (c *Cursor) PrintDebug() string {
	if c.stale {
		return ""
	}
	tw := debug.NewTreeWriter()
	dump(tw, c.node, 0)
	return tw.String()
}

func dump(tw *debug.TreeWriter, n Node, depth int) {
	switch v := n.(type) {
	case *Token:
		tw.Leaf(depth, v.Text)
	case *Composite:
		tw.Line(depth, "%s", v.Kind)
		for _, e := range v.Elements {
			dump(tw, e, depth+1)
		}
	case *List:
		tw.Line(depth, "[%d]", len(v.Elements))
		for _, e := range v.Elements {
			dump(tw, e, depth+1)
		}
	}
}
