package css

import (
	"strings"

	"themegen/tree"
)

// Fragment is a detached simple selector produced by selector factories.
// Splicing operations insert a fresh copy of it every time, so one fragment
// may be used for any number of insertions.
type Fragment struct {
	node *tree.Composite
}

// Node returns a new copy of fragment's simple_selector composite.
func (f *Fragment) Node() tree.Node {
	return tree.Clone(f.node)
}

func (f *Fragment) String() string {
	if f == nil || f.node == nil {
		return ""
	}
	return tree.Wrap(f.node).Print()
}

func (f *Fragment) valid() bool {
	return f != nil && f.node != nil && f.node.Kind == KindSimpleSelector
}

// ClassSelector returns fragment for ".name".
func ClassSelector(name string) *Fragment {
	return &Fragment{node: tree.NewComposite(KindSimpleSelector,
		tree.NewComposite(KindClassSelector,
			tree.NewToken("."),
			tree.NewComposite(KindIdent, tree.NewToken(name)),
		),
	)}
}

// IDSelector returns fragment for "#name".
func IDSelector(name string) *Fragment {
	return &Fragment{node: tree.NewComposite(KindSimpleSelector,
		tree.NewComposite(KindIDSelector, tree.NewToken("#"+name)),
	)}
}

// ElementSelector returns fragment for element name.
func ElementSelector(name string) *Fragment {
	return &Fragment{node: tree.NewComposite(KindSimpleSelector,
		tree.NewComposite(KindElement, tree.NewToken(name)),
	)}
}

// Selector picks the factory by the first character of text: '.' for
// class, '#' for id and element otherwise.
func Selector(text string) *Fragment {
	switch {
	case strings.HasPrefix(text, "."):
		return ClassSelector(text[1:])
	case strings.HasPrefix(text, "#"):
		return IDSelector(text[1:])
	default:
		return ElementSelector(text)
	}
}
