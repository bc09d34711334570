// Package csstemplate renders stylesheets whose declaration values are
// addressed by /*{NAME}*/ placeholder comments.
package csstemplate

import (
	"fmt"
	"maps"
	"strings"

	"go.uber.org/zap"

	"themegen/common"
	"themegen/css"
	"themegen/tree"
)

// Policies maps property names to substitution policy. Properties without
// entry use common.SubstitutionPolicyDefault.
type Policies map[string]common.SubstitutionPolicy

// DefaultPolicies returns policies used when nothing else is configured.
func DefaultPolicies() Policies {
	return Policies{
		"font-family": common.SubstitutionPolicyWholeValue,
		"filter":      common.SubstitutionPolicyFilterPair,
	}
}

// Lookup returns policy for property, names are case insensitive.
func (p Policies) Lookup(property string) common.SubstitutionPolicy {
	if pol, ok := p[strings.ToLower(property)]; ok {
		return pol
	}
	return common.SubstitutionPolicyDefault
}

// Engine applies values to placeholder markers of stylesheet trees.
type Engine struct {
	policies Policies
	parser   *css.Parser
	log      *zap.Logger
}

// New creates template engine. Supplied policies are merged over
// DefaultPolicies.
func New(policies Policies, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	merged := DefaultPolicies()
	for k, v := range policies {
		merged[strings.ToLower(k)] = v
	}
	return &Engine{
		policies: merged,
		parser:   css.NewParser(log),
		log:      log.Named("css-template"),
	}
}

// Policies returns copy of effective substitution policies.
func (e *Engine) Policies() Policies {
	return maps.Clone(e.policies)
}

// Render parses template text, applies values and prints the result.
func (e *Engine) Render(src []byte, values Values, source ...string) (string, error) {
	root, err := e.parser.Parse(src, source...)
	if err != nil {
		return "", err
	}
	c := tree.Wrap(root)
	if err := e.Apply(c, values); err != nil {
		return "", err
	}
	return c.Print(), nil
}

// Apply substitutes values for every placeholder marker under root and then
// removes all markers. Markers without value keep declaration intact. On
// error the tree may be partially modified and should be discarded.
func (e *Engine) Apply(root *tree.Cursor, values Values) error {
	markers := root.FindAll(css.KindCommentTag)
	for _, m := range markers {
		tag := m.Print()
		v, ok := values.lookup(tag)
		if !ok {
			e.log.Debug("No value for placeholder", zap.String("tag", tag))
			continue
		}
		if err := e.substitute(m, tag, v); err != nil {
			return fmt.Errorf("unable to substitute %q: %w", tag, err)
		}
	}

	// markers inside replaced expressions are already gone
	removed := 0
	for _, m := range root.FindAll(css.KindCommentTag) {
		c, err := m.FindParent(css.KindComment)
		if err != nil {
			return fmt.Errorf("placeholder %q outside of comment: %w", m.Print(), err)
		}
		if err := c.Remove(); err != nil {
			return fmt.Errorf("unable to remove placeholder %q: %w", m.Print(), err)
		}
		removed++
	}
	e.log.Debug("Template applied", zap.Int("markers", len(markers)), zap.Int("removed", removed))
	return nil
}

func (e *Engine) substitute(m *tree.Cursor, tag string, v any) error {
	text, err := Text(v)
	if err != nil {
		return err
	}
	decl, err := m.FindParent(css.KindDeclaration)
	if err != nil {
		return err
	}
	prop, err := propertyName(decl)
	if err != nil {
		return err
	}

	policy := e.policies.Lookup(prop)
	e.log.Debug("Substituting", zap.String("tag", tag), zap.String("property", prop), zap.Stringer("policy", policy), zap.String("value", text))

	switch policy {
	case common.SubstitutionPolicyWholeValue:
		return replaceExpression(decl, text)
	case common.SubstitutionPolicyFilterPair:
		return e.filterPair(decl, v, text)
	default:
		term, err := decl.FindUntil(css.KindTerm, m)
		if err != nil {
			return fmt.Errorf("no value term before placeholder: %w", err)
		}
		_, err = term.ReplaceWith(tree.NewComposite(css.KindTerm, tree.NewToken(text)))
		return err
	}
}

// filterPair rewrites legacy alpha filter and opacity declaration which
// must precede it.
func (e *Engine) filterPair(decl *tree.Cursor, v any, text string) error {
	n, err := Number(v)
	if err != nil {
		return err
	}
	if err := replaceExpression(decl, "Alpha(Opacity="+text+")"); err != nil {
		return err
	}

	prev, err := decl.FindPrevious(css.KindDeclaration)
	if err != nil {
		return fmt.Errorf("no declaration before filter: %w", err)
	}
	name, err := propertyName(prev)
	if err != nil {
		return err
	}
	if !strings.EqualFold(name, "opacity") {
		e.log.Debug("Filter is not preceded by opacity", zap.String("property", name))
		return nil
	}
	return replaceExpression(prev, formatFraction(n/100))
}

func propertyName(decl *tree.Cursor) (string, error) {
	prop, err := decl.FindFirst(css.KindProperty)
	if err != nil {
		return "", err
	}
	ident, err := prop.FindFirst(css.KindIdent)
	if err != nil {
		return "", err
	}
	return ident.Print(), nil
}

func replaceExpression(decl *tree.Cursor, text string) error {
	expr, err := decl.FindFirst(css.KindExpression)
	if err != nil {
		return err
	}
	_, err = expr.ReplaceWith(tree.NewComposite(css.KindExpression, tree.NewComposite(css.KindTerm, tree.NewToken(text))))
	return err
}
