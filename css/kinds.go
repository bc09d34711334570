// Package css parses stylesheets into lossless trees and splices selector
// fragments into them.
package css

// Node kinds produced by the parser and by selector factories.
const (
	KindStylesheet     = "stylesheet"
	KindRule           = "rule"
	KindAtRule         = "at_rule"
	KindBlock          = "block"
	KindWholeSelector  = "whole_selector"
	KindSelector       = "selector"
	KindCombinator     = "combinator"
	KindSimpleSelector = "simple_selector"
	KindClassSelector  = "class_selector"
	KindIDSelector     = "id_selector"
	KindElement        = "element_selector"
	KindAttrib         = "attrib_selector"
	KindPseudo         = "pseudo_selector"
	KindIdent          = "ident"
	KindDeclaration    = "declaration"
	KindProperty       = "property"
	KindExpression     = "expression"
	KindTerm           = "term"
	KindImportant      = "important"
	KindComment        = "comment"
	KindCommentTag     = "commentTag"
)
