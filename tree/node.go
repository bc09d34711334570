package tree

// Node is a value held in the tree: *Token, *Composite or *List. Nodes are
// compared by identity, so the same Node must never be reachable from two
// places in a tree - use Clone when inserting a value more than once.
type Node interface {
	isNode()
}

// Token is a leaf contributing its text verbatim to printed output.
type Token struct {
	Text string
}

// Composite is a node tagged with the grammar production it represents.
type Composite struct {
	Kind     string
	Elements []Node
}

// List is an untagged ordered sequence used as a generic container.
type List struct {
	Elements []Node
}

func (*Token) isNode()     {}
func (*Composite) isNode() {}
func (*List) isNode()      {}

func NewToken(text string) *Token {
	return &Token{Text: text}
}

func NewComposite(kind string, elements ...Node) *Composite {
	return &Composite{Kind: kind, Elements: elements}
}

func NewList(elements ...Node) *List {
	return &List{Elements: elements}
}

// KindOf returns kind of composite node or empty string for anything else.
func KindOf(n Node) string {
	if c, ok := n.(*Composite); ok {
		return c.Kind
	}
	return ""
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Token:
		return &Token{Text: v.Text}
	case *Composite:
		return &Composite{Kind: v.Kind, Elements: cloneAll(v.Elements)}
	case *List:
		return &List{Elements: cloneAll(v.Elements)}
	default:
		return nil
	}
}

func cloneAll(in []Node) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, e := range in {
		out[i] = Clone(e)
	}
	return out
}

// elements returns child sequence of a container node.
func elements(n Node) ([]Node, bool) {
	switch v := n.(type) {
	case *Composite:
		return v.Elements, true
	case *List:
		return v.Elements, true
	default:
		return nil, false
	}
}

func setElements(n Node, elems []Node) {
	switch v := n.(type) {
	case *Composite:
		v.Elements = elems
	case *List:
		v.Elements = elems
	}
}
