package css_test

import (
	"errors"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"themegen/css"
	"themegen/tree"
)

var scopePrefixes = []string{"*", "html", "body"}

func TestSelectorFactories(t *testing.T) {
	tests := []struct {
		name string
		frag *css.Fragment
		want string
		kind string
	}{
		{"class", css.ClassSelector("scope"), ".scope", css.KindClassSelector},
		{"id", css.IDSelector("main"), "#main", css.KindIDSelector},
		{"element", css.ElementSelector("div"), "div", css.KindElement},
		{"dispatch class", css.Selector(".scope"), ".scope", css.KindClassSelector},
		{"dispatch id", css.Selector("#main"), "#main", css.KindIDSelector},
		{"dispatch element", css.Selector("body"), "body", css.KindElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frag.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			c := tree.Wrap(tt.frag.Node())
			if c.Kind() != css.KindSimpleSelector {
				t.Errorf("fragment kind = %q", c.Kind())
			}
			if _, err := c.FindFirst(tt.kind); err != nil {
				t.Errorf("fragment has no %s: %v", tt.kind, err)
			}
		})
	}
}

func TestFragmentNodeIsCopy(t *testing.T) {
	frag := css.ClassSelector("scope")
	a, b := frag.Node(), frag.Node()
	if a == b {
		t.Fatal("Node() returned shared node")
	}
	a.(*tree.Composite).Elements = nil
	if got := frag.String(); got != ".scope" {
		t.Errorf("fragment changed through returned node: %q", got)
	}
}

func TestScopeSelectors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "matching prefix",
			text: "* html body .ui-dialog { color: red; }",
			want: "* html body .scope .ui-dialog { color: red; }",
		},
		{
			name: "no matching prefix",
			text: ".ui-dialog .ui-dialog-titlebar { color: red; }",
			want: ".scope .ui-dialog .ui-dialog-titlebar { color: red; }",
		},
		{
			name: "partial prefix",
			text: "* html .ui-helper-clearfix { height:1%; }",
			want: "* html .scope .ui-helper-clearfix { height:1%; }",
		},
		{
			name: "whole chain allowed with space",
			text: "body { margin: 0; }",
			want: "body .scope { margin: 0; }",
		},
		{
			name: "whole chain allowed without space",
			text: "html body{margin:0}",
			want: "html body .scope {margin:0}",
		},
		{
			name: "selector list",
			text: "a, * html b{c:d}",
			want: ".scope a, * html .scope b{c:d}",
		},
		{
			name: "compound not split",
			text: "body.ui-x .y{c:d}",
			want: ".scope body.ui-x .y{c:d}",
		},
		{
			name: "media",
			text: "@media print { html .x { a: b } }",
			want: "@media print { html .scope .x { a: b } }",
		},
		{
			name: "combinator",
			text: "html > .a{b:c}",
			want: "html > .scope .a{b:c}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.text)
			if _, err := css.ScopeSelectors(root, scopePrefixes, css.Selector(".scope")); err != nil {
				t.Fatalf("ScopeSelectors() error = %v", err)
			}
			if got := root.Print(); got != tt.want {
				t.Errorf("Print() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestScopeSelectorsLocalized(t *testing.T) {
	text := "/* header */\n.ui-helper-hidden { display: none; }\n" +
		"* html .ui-helper-clearfix { height:1%; }\n" +
		".ui-state-default a, .ui-state-default a:link { color: #555555/*{fcDefault}*/; }\n"

	root := mustParse(t, text)
	n, err := css.ScopeSelectors(root, scopePrefixes, css.ClassSelector("scope"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("ScopeSelectors() scoped %d selectors, want 4", n)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(text, root.Print(), false)
	inserted := 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			t.Errorf("unexpected deletion %q", d.Text)
		case diffmatchpatch.DiffInsert:
			inserted += len(d.Text)
		}
	}
	if want := n * len(".scope "); inserted != want {
		t.Errorf("inserted %d characters, want %d", inserted, want)
	}

	// every insertion is a separate copy of the fragment
	seen := map[tree.Node]bool{}
	for _, c := range root.FindAll(css.KindClassSelector) {
		seen[c.Node()] = true
	}
	if len(seen) != 8 {
		t.Errorf("found %d distinct class selectors, want 8", len(seen))
	}
}

func TestInsertAfterSelectorsErrors(t *testing.T) {
	root := mustParse(t, ".a{b:c}")

	rule, err := root.FindFirst(css.KindRule)
	if err != nil {
		t.Fatal(err)
	}
	if err := css.InsertAfterSelectors(rule, scopePrefixes, css.Selector(".s")); !errors.Is(err, css.ErrWrongNodeKind) {
		t.Errorf("InsertAfterSelectors(rule) error = %v, want ErrWrongNodeKind", err)
	}
	if err := css.InsertAfterSelectors(nil, scopePrefixes, css.Selector(".s")); !errors.Is(err, css.ErrWrongNodeKind) {
		t.Errorf("InsertAfterSelectors(nil) error = %v, want ErrWrongNodeKind", err)
	}

	ws, err := root.FindFirst(css.KindWholeSelector)
	if err != nil {
		t.Fatal(err)
	}
	if err := css.InsertAfterSelectors(ws, scopePrefixes, nil); !errors.Is(err, css.ErrInvalidArgument) {
		t.Errorf("InsertAfterSelectors(nil fragment) error = %v, want ErrInvalidArgument", err)
	}
	if err := css.InsertAfterSelectors(ws, scopePrefixes, &css.Fragment{}); !errors.Is(err, css.ErrInvalidArgument) {
		t.Errorf("InsertAfterSelectors(empty fragment) error = %v, want ErrInvalidArgument", err)
	}
	if got := root.Print(); got != ".a{b:c}" {
		t.Errorf("failed calls changed the tree: %q", got)
	}
}

func TestPrependSelector(t *testing.T) {
	root := mustParse(t, "a, b{c:d}")
	if err := css.PrependSelector(root, css.ClassSelector("x")); err != nil {
		t.Fatal(err)
	}
	if got, want := root.Print(), ".x a, .x b{c:d}"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}

	if err := css.PrependSelector(root, nil); !errors.Is(err, css.ErrInvalidArgument) {
		t.Errorf("PrependSelector(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestPrependScope(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  string
	}{
		{"single", ".scope", ".scope .a{b:c}"},
		{"chain", "#main .content div", "#main .content div .a{b:c}"},
		{"extra spaces", " body  .x ", "body .x .a{b:c}"},
		{"empty", "", ".a{b:c}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, ".a{b:c}")
			if err := css.PrependScope(root, tt.scope); err != nil {
				t.Fatal(err)
			}
			if got := root.Print(); got != tt.want {
				t.Errorf("Print() = %q, want %q", got, tt.want)
			}
		})
	}

	// works on a single whole selector too
	root := mustParse(t, "a, b{c:d}")
	ws := root.FindAll(css.KindWholeSelector)
	if err := css.PrependScope(ws[1], ".s"); err != nil {
		t.Fatal(err)
	}
	if got, want := root.Print(), "a, .s b{c:d}"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestRemoveSeparators(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind string
		idx  int
		want string
	}{
		// declaration owns its terminating semicolon
		{"first declaration", ".a{x:1;y:2}", css.KindDeclaration, 0, ".a{y:2}"},
		{"last declaration", ".a{x:1;y:2}", css.KindDeclaration, 1, ".a{x:1;}"},
		{"spaced declaration", ".a { x: 1; y: 2; }", css.KindDeclaration, 0, ".a {  y: 2; }"},
		// list separators stay where they are
		{"first whole selector", "a, b{c:d}", css.KindWholeSelector, 0, ", b{c:d}"},
		{"last whole selector", "a, b{c:d}", css.KindWholeSelector, 1, "a,{c:d}"},
		{"operator neighbour", ".a{font:12px/1.5 serif}", css.KindTerm, 1, ".a{font:12px/ serif}"},
		{"comma neighbour", ".a{font-family:A,B}", css.KindTerm, 0, ".a{font-family:,B}"},
	}

	dmp := diffmatchpatch.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.text)
			target := root.FindAll(tt.kind)[tt.idx]
			removed := target.Print()
			if err := target.Remove(); err != nil {
				t.Fatal(err)
			}
			got := root.Print()
			if got != tt.want {
				t.Errorf("Print() = %q, want %q", got, tt.want)
			}

			deleted := 0
			for _, d := range dmp.DiffMain(tt.text, got, false) {
				switch d.Type {
				case diffmatchpatch.DiffInsert:
					t.Errorf("unexpected insertion %q", d.Text)
				case diffmatchpatch.DiffDelete:
					deleted += len(d.Text)
				}
			}
			if deleted != len(removed) {
				t.Errorf("deleted %d characters, want %d", deleted, len(removed))
			}
		})
	}
}

func TestReplaceLocalized(t *testing.T) {
	text := ".a { color: red; }\n.b { color: blue; }\n"
	root := mustParse(t, text)

	term := root.FindAll(css.KindTerm)[1]
	if _, err := term.ReplaceWith(tree.NewComposite(css.KindTerm, tree.NewToken("navy"))); err != nil {
		t.Fatal(err)
	}
	want := ".a { color: red; }\n.b { color: navy; }\n"
	if got := root.Print(); got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
