package css

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"themegen/tree"
)

func wholeSelectors(c *tree.Cursor) []*tree.Cursor {
	if c.Kind() == KindWholeSelector {
		return []*tree.Cursor{c}
	}
	return c.FindAll(KindWholeSelector)
}

// PrependSelector puts frag followed by a space in front of every whole
// selector at or under c.
func PrependSelector(c *tree.Cursor, frag *Fragment) error {
	if !frag.valid() {
		return fmt.Errorf("%w: not a selector fragment", ErrInvalidArgument)
	}
	for _, ws := range wholeSelectors(c) {
		sel, err := ws.FindFirst(KindSelector)
		if err != nil {
			return err
		}
		if err := sel.PrependElement(tree.NewToken(" ")); err != nil {
			return err
		}
		if err := sel.PrependElement(frag.Node()); err != nil {
			return err
		}
	}
	return nil
}

// PrependScope builds descendant scope prefix from space separated scope
// text and prepends it to every whole selector at or under c. Leftmost scope
// element ends up leftmost in the selector.
func PrependScope(c *tree.Cursor, scope string) error {
	parts := strings.Fields(scope)
	for i := len(parts) - 1; i >= 0; i-- {
		if err := PrependSelector(c, Selector(parts[i])); err != nil {
			return fmt.Errorf("unable to prepend %q: %w", parts[i], err)
		}
	}
	return nil
}

// InsertAfterSelectors splices frag into whole selector ws right after the
// longest leading run of simple selectors whose text is listed in allowed
// (for example "*", "html", "body"). When every simple selector is allowed
// frag is appended at the end of the selector.
func InsertAfterSelectors(ws *tree.Cursor, allowed []string, frag *Fragment) error {
	if ws == nil || ws.Kind() != KindWholeSelector {
		return fmt.Errorf("%w: expected %s", ErrWrongNodeKind, KindWholeSelector)
	}
	if !frag.valid() {
		return fmt.Errorf("%w: not a selector fragment", ErrInvalidArgument)
	}

	sels := ws.FindAll(KindSimpleSelector)
	idx := 0
	for ; idx < len(sels); idx++ {
		if !slices.Contains(allowed, strings.TrimSpace(sels[idx].Print())) {
			break
		}
	}

	if idx < len(sels) {
		dest := sels[idx]
		_, err := dest.ReplaceWith(tree.NewComposite(KindSelector, frag.Node(), tree.NewToken(" "), dest.Node()))
		return err
	}

	sel, err := ws.FindFirst(KindSelector)
	if err != nil {
		return err
	}
	if text := sel.Print(); text != "" && !endsWithSpace(text) {
		if err := sel.AppendElement(tree.NewToken(" ")); err != nil {
			return err
		}
	}
	if err := sel.AppendElement(frag.Node()); err != nil {
		return err
	}
	return sel.AppendElement(tree.NewToken(" "))
}

// ScopeSelectors applies InsertAfterSelectors to every whole selector under
// root.
func ScopeSelectors(root *tree.Cursor, allowed []string, frag *Fragment) (int, error) {
	all := wholeSelectors(root)
	for _, ws := range all {
		if err := InsertAfterSelectors(ws, allowed, frag); err != nil {
			return 0, err
		}
	}
	return len(all), nil
}

func endsWithSpace(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsSpace(r[len(r)-1])
}
