package csstemplate

import (
	"themegen/common"
	"themegen/css"
	"themegen/tree"
)

// Placeholder describes a single marker found in a template.
type Placeholder struct {
	Tag      string
	Property string
	Policy   common.SubstitutionPolicy
	// Current is template text the marker's value would replace.
	Current string
}

// Tags lists placeholder markers under root in document order. Tree is not
// modified.
func (e *Engine) Tags(root *tree.Cursor) []Placeholder {
	var out []Placeholder
	for _, m := range root.FindAll(css.KindCommentTag) {
		p := Placeholder{Tag: m.Print(), Policy: common.SubstitutionPolicyDefault}

		decl, err := m.FindParent(css.KindDeclaration)
		if err != nil {
			out = append(out, p)
			continue
		}
		if p.Property, err = propertyName(decl); err == nil {
			p.Policy = e.policies.Lookup(p.Property)
		}

		var current *tree.Cursor
		switch p.Policy {
		case common.SubstitutionPolicyWholeValue, common.SubstitutionPolicyFilterPair:
			current, err = decl.FindFirst(css.KindExpression)
		default:
			current, err = decl.FindUntil(css.KindTerm, m)
		}
		if err == nil {
			p.Current = current.Print()
		}
		out = append(out, p)
	}
	return out
}
