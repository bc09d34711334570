package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"themegen/tree"
)

// Parser parses stylesheets into trees which print back to the exact input
// text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a stylesheet tree.
// The optional source parameter identifies what's being parsed (for errors
// and debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*tree.Composite, error) {
	var name string
	if len(source) > 0 {
		name = source[0]
	}
	if name != "" {
		p.log.Debug("Parsing CSS", zap.String("source", name), zap.Int("bytes", len(data)))
	}

	lexemes, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize stylesheet: %w", err)
	}

	s := &state{src: data, lx: lexemes, source: name}
	items, err := s.items(false)
	if err != nil {
		p.log.Debug("CSS parse error", zap.String("source", name), zap.Error(err))
		return nil, err
	}
	return tree.NewComposite(KindStylesheet, tree.NewList(items...)), nil
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(text string, source ...string) (*tree.Composite, error) {
	return p.Parse([]byte(text), source...)
}

type lexeme struct {
	tt   css.TokenType
	text string
	off  int
}

func tokenize(data []byte) ([]lexeme, error) {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var (
		out []lexeme
		off int
	)
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}
		out = append(out, lexeme{tt: tt, text: string(text), off: off})
		off += len(text)
	}
	if off != len(data) {
		return nil, fmt.Errorf("lexer stopped at offset %d of %d", off, len(data))
	}
	return out, nil
}

// state is a recursive descent over lexemes. Every lexeme ends up in exactly
// one token of the resulting tree.
type state struct {
	src    []byte
	lx     []lexeme
	pos    int
	source string
}

func (s *state) eof() bool {
	return s.pos >= len(s.lx)
}

func (s *state) peek() lexeme {
	if s.eof() {
		return lexeme{tt: css.ErrorToken, off: len(s.src)}
	}
	return s.lx[s.pos]
}

func (s *state) next() lexeme {
	l := s.peek()
	if !s.eof() {
		s.pos++
	}
	return l
}

func (s *state) errorf(at lexeme, format string, args ...any) error {
	line, col, _ := parse.Position(bytes.NewReader(s.src), at.off)
	return &ParseError{Source: s.source, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func describe(l lexeme) string {
	if l.tt == css.ErrorToken {
		return "end of input"
	}
	return fmt.Sprintf("%q", l.text)
}

func isTrivia(l lexeme) bool {
	return l.tt == css.WhitespaceToken || l.tt == css.CommentToken
}

func isDelim(l lexeme, c string) bool {
	return l.tt == css.DelimToken && l.text == c
}

func isCombinator(l lexeme) bool {
	return isDelim(l, ">") || isDelim(l, "+") || isDelim(l, "~") || l.tt == css.ColumnToken
}

// closerOf returns matching closing token type for opening lexemes and
// ErrorToken for everything else.
func closerOf(tt css.TokenType) css.TokenType {
	switch tt {
	case css.FunctionToken, css.LeftParenthesisToken:
		return css.RightParenthesisToken
	case css.LeftBracketToken:
		return css.RightBracketToken
	case css.LeftBraceToken:
		return css.RightBraceToken
	}
	return css.ErrorToken
}

func isCloser(tt css.TokenType) bool {
	return tt == css.RightParenthesisToken || tt == css.RightBracketToken || tt == css.RightBraceToken
}

func tok(l lexeme) *tree.Token {
	return tree.NewToken(l.text)
}

var placeholderRe = regexp.MustCompile(`^/\*\{([^{}]+)\}\*/$`)

func isPlaceholder(l lexeme) bool {
	return l.tt == css.CommentToken && placeholderRe.MatchString(l.text)
}

// commentNode turns comment text into comment composite. Placeholder
// comments /*{NAME}*/ carry their name in a commentTag child.
func commentNode(text string) *tree.Composite {
	if m := placeholderRe.FindStringSubmatch(text); m != nil {
		return tree.NewComposite(KindComment,
			tree.NewToken("/*{"),
			tree.NewComposite(KindCommentTag, tree.NewToken(m[1])),
			tree.NewToken("}*/"),
		)
	}
	return tree.NewComposite(KindComment, tree.NewToken(text))
}

func node(l lexeme) tree.Node {
	if l.tt == css.CommentToken {
		return commentNode(l.text)
	}
	return tok(l)
}

func nodes(ls []lexeme) []tree.Node {
	out := make([]tree.Node, 0, len(ls))
	for _, l := range ls {
		out = append(out, node(l))
	}
	return out
}

func (s *state) trailingTrivia() []tree.Node {
	var out []tree.Node
	for isTrivia(s.peek()) {
		out = append(out, node(s.next()))
	}
	return out
}

// items parses stylesheet level content. Nested content ends before the
// closing brace, which is left for the caller.
func (s *state) items(nested bool) ([]tree.Node, error) {
	var out []tree.Node
	for {
		l := s.peek()
		switch {
		case s.eof():
			if nested {
				return nil, s.errorf(l, "unexpected end of input, missing '}'")
			}
			return out, nil
		case l.tt == css.RightBraceToken:
			if nested {
				return out, nil
			}
			return nil, s.errorf(l, "unexpected '}'")
		case l.tt == css.WhitespaceToken || l.tt == css.CDOToken || l.tt == css.CDCToken || l.tt == css.CommentToken:
			out = append(out, node(s.next()))
		case l.tt == css.AtKeywordToken:
			n, err := s.atRule()
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		default:
			n, err := s.rule()
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
}

func (s *state) rule() (tree.Node, error) {
	sels, err := s.selectorList()
	if err != nil {
		return nil, err
	}
	open := s.next()

	decls, err := s.declarations()
	if err != nil {
		return nil, err
	}
	closing := s.next()

	return tree.NewComposite(KindRule,
		tree.NewList(sels...),
		tok(open),
		tree.NewList(decls...),
		tok(closing),
	), nil
}

// selectorList parses comma separated whole selectors up to the opening
// brace of the rule.
func (s *state) selectorList() ([]tree.Node, error) {
	var out []tree.Node
	for {
		ws, err := s.wholeSelector()
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
		if s.peek().tt != css.CommaToken {
			return out, nil
		}
		out = append(out, tok(s.next()))
	}
}

func (s *state) wholeSelector() (tree.Node, error) {
	elems := s.trailingTrivia()
	sel, err := s.selector()
	if err != nil {
		return nil, err
	}
	return tree.NewComposite(KindWholeSelector, append(elems, sel)...), nil
}

func (s *state) selector() (tree.Node, error) {
	var elems []tree.Node
	for {
		l := s.peek()
		switch {
		case s.eof():
			return nil, s.errorf(l, "unexpected end of input in selector")
		case l.tt == css.CommaToken || l.tt == css.LeftBraceToken:
			if len(elems) == 0 {
				return nil, s.errorf(l, "expected selector, got %s", describe(l))
			}
			return tree.NewComposite(KindSelector, elems...), nil
		case isCombinator(l):
			c := []tree.Node{tok(s.next())}
			elems = append(elems, tree.NewComposite(KindCombinator, append(c, s.trailingTrivia()...)...))
		default:
			ss, err := s.simpleSelector()
			if err != nil {
				return nil, err
			}
			elems = append(elems, ss)
		}
	}
}

// simpleSelector parses compound selector (element, classes, ids,
// attributes and pseudo classes without whitespace in between) together
// with whitespace and comments following it.
func (s *state) simpleSelector() (tree.Node, error) {
	var elems []tree.Node
loop:
	for {
		l := s.peek()
		switch {
		case l.tt == css.IdentToken || isDelim(l, "*"):
			elems = append(elems, tree.NewComposite(KindElement, tok(s.next())))
		case l.tt == css.HashToken:
			elems = append(elems, tree.NewComposite(KindIDSelector, tok(s.next())))
		case isDelim(l, "."):
			dot := s.next()
			name := s.peek()
			if name.tt != css.IdentToken {
				return nil, s.errorf(name, "expected class name after '.', got %s", describe(name))
			}
			s.next()
			elems = append(elems, tree.NewComposite(KindClassSelector, tok(dot), tree.NewComposite(KindIdent, tok(name))))
		case l.tt == css.LeftBracketToken:
			attr, err := s.balanced()
			if err != nil {
				return nil, err
			}
			elems = append(elems, tree.NewComposite(KindAttrib, attr...))
		case l.tt == css.ColonToken:
			ps, err := s.pseudo()
			if err != nil {
				return nil, err
			}
			elems = append(elems, ps)
		default:
			if len(elems) == 0 {
				return nil, s.errorf(l, "unexpected %s in selector", describe(l))
			}
			break loop
		}
	}
	return tree.NewComposite(KindSimpleSelector, append(elems, s.trailingTrivia()...)...), nil
}

func (s *state) pseudo() (tree.Node, error) {
	elems := []tree.Node{tok(s.next())}
	if s.peek().tt == css.ColonToken {
		elems = append(elems, tok(s.next()))
	}
	l := s.peek()
	switch l.tt {
	case css.IdentToken:
		elems = append(elems, tok(s.next()))
	case css.FunctionToken:
		args, err := s.balanced()
		if err != nil {
			return nil, err
		}
		elems = append(elems, args...)
	default:
		return nil, s.errorf(l, "expected pseudo class name, got %s", describe(l))
	}
	return tree.NewComposite(KindPseudo, elems...), nil
}

// balanced consumes opening lexeme and everything up to and including its
// matching closing lexeme.
func (s *state) balanced() ([]tree.Node, error) {
	open := s.next()
	stack := []css.TokenType{closerOf(open.tt)}
	out := []tree.Node{tok(open)}
	for len(stack) > 0 {
		if s.eof() {
			return nil, s.errorf(open, "unclosed %q", open.text)
		}
		l := s.next()
		out = append(out, node(l))
		if c := closerOf(l.tt); c != css.ErrorToken {
			stack = append(stack, c)
		} else if isCloser(l.tt) {
			if l.tt != stack[len(stack)-1] {
				return nil, s.errorf(l, "unexpected %q", l.text)
			}
			stack = stack[:len(stack)-1]
		}
	}
	return out, nil
}

// declarations parses content of a declaration block up to, but not
// including, its closing brace.
func (s *state) declarations() ([]tree.Node, error) {
	var out []tree.Node
	for {
		l := s.peek()
		switch {
		case s.eof():
			return nil, s.errorf(l, "unexpected end of input, missing '}'")
		case l.tt == css.RightBraceToken:
			return out, nil
		case l.tt == css.WhitespaceToken || l.tt == css.SemicolonToken || l.tt == css.CommentToken:
			out = append(out, node(s.next()))
		case l.tt == css.IdentToken || l.tt == css.CustomPropertyNameToken || isDelim(l, "*"):
			d, err := s.declaration()
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		default:
			return nil, s.errorf(l, "unexpected %s in declaration block", describe(l))
		}
	}
}

func (s *state) declaration() (tree.Node, error) {
	var prop []tree.Node
	if isDelim(s.peek(), "*") {
		prop = append(prop, tok(s.next()))
	}
	name := s.peek()
	if name.tt != css.IdentToken && name.tt != css.CustomPropertyNameToken {
		return nil, s.errorf(name, "expected property name, got %s", describe(name))
	}
	s.next()
	prop = append(prop, tree.NewComposite(KindIdent, tok(name)))

	elems := []tree.Node{tree.NewComposite(KindProperty, prop...)}
	elems = append(elems, s.trailingTrivia()...)

	colon := s.peek()
	if colon.tt != css.ColonToken {
		return nil, s.errorf(colon, "expected ':' after property %q, got %s", name.text, describe(colon))
	}
	elems = append(elems, tok(s.next()))

	span, err := s.valueSpan()
	if err != nil {
		return nil, err
	}
	elems = append(elems, shapeValue(span)...)

	if s.peek().tt == css.SemicolonToken {
		elems = append(elems, tok(s.next()))
	}
	return tree.NewComposite(KindDeclaration, elems...), nil
}

// valueSpan collects declaration value lexemes up to terminating semicolon
// or closing brace of the block, neither is consumed.
func (s *state) valueSpan() ([]lexeme, error) {
	var (
		span  []lexeme
		stack []css.TokenType
	)
	for {
		if s.eof() {
			return nil, s.errorf(s.peek(), "unexpected end of input in declaration value")
		}
		l := s.peek()
		if len(stack) == 0 && (l.tt == css.SemicolonToken || l.tt == css.RightBraceToken) {
			return span, nil
		}
		s.next()
		if c := closerOf(l.tt); c != css.ErrorToken {
			stack = append(stack, c)
		} else if isCloser(l.tt) {
			if len(stack) == 0 || stack[len(stack)-1] != l.tt {
				return nil, s.errorf(l, "unexpected %q in declaration value", l.text)
			}
			stack = stack[:len(stack)-1]
		}
		span = append(span, l)
	}
}

// shapeValue splits value lexemes into leading trivia, expression, trailing
// trivia and important flag. Placeholder comment in trailing position takes
// the whitespace immediately preceding it.
func shapeValue(span []lexeme) []tree.Node {
	var imp []lexeme
	if i := importantAt(span); i >= 0 {
		span, imp = span[:i], span[i:]
	}

	first, last := -1, -1
	for i, l := range span {
		if !isTrivia(l) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	var out []tree.Node
	if first < 0 {
		out = append(out, nodes(span)...)
		out = append(out, tree.NewComposite(KindExpression))
	} else {
		out = append(out, nodes(span[:first])...)
		out = append(out, tree.NewComposite(KindExpression, expression(span[first:last+1])...))
		out = append(out, tail(span[last+1:])...)
	}

	if len(imp) > 0 {
		end := len(imp)
		for end > 0 && isTrivia(imp[end-1]) {
			end--
		}
		out = append(out, tree.NewComposite(KindImportant, nodes(imp[:end])...))
		out = append(out, tail(imp[end:])...)
	}
	return out
}

// importantAt returns index of "!" starting trailing !important or -1.
func importantAt(span []lexeme) int {
	for i := len(span) - 1; i >= 0; i-- {
		if !isDelim(span[i], "!") {
			continue
		}
		seen := false
		for _, l := range span[i+1:] {
			switch {
			case isTrivia(l):
			case !seen && l.tt == css.IdentToken && strings.EqualFold(l.text, "important"):
				seen = true
			default:
				return -1
			}
		}
		if seen {
			return i
		}
		return -1
	}
	return -1
}

func tail(ls []lexeme) []tree.Node {
	var out []tree.Node
	for i := 0; i < len(ls); i++ {
		if ls[i].tt == css.WhitespaceToken && i+1 < len(ls) && isPlaceholder(ls[i+1]) {
			c := commentNode(ls[i+1].text)
			c.Elements = append([]tree.Node{tok(ls[i])}, c.Elements...)
			out = append(out, c)
			i++
			continue
		}
		out = append(out, node(ls[i]))
	}
	return out
}

// expression shapes balanced value lexemes into terms, operators and
// trivia. Function and bracketed terms keep their content as plain tokens.
func expression(ls []lexeme) []tree.Node {
	var out []tree.Node
	for i := 0; i < len(ls); {
		l := ls[i]
		switch {
		case isTrivia(l):
			out = append(out, node(l))
			i++
		case l.tt == css.CommaToken || isDelim(l, "/"):
			out = append(out, tok(l))
			i++
		case closerOf(l.tt) != css.ErrorToken:
			j := matching(ls, i)
			out = append(out, tree.NewComposite(KindTerm, nodes(ls[i:j+1])...))
			i = j + 1
		default:
			out = append(out, tree.NewComposite(KindTerm, tok(l)))
			i++
		}
	}
	return out
}

// matching returns index of lexeme closing the one at i. Input is known to
// be balanced.
func matching(ls []lexeme, i int) int {
	depth := 0
	for j := i; j < len(ls); j++ {
		switch {
		case closerOf(ls[j].tt) != css.ErrorToken:
			depth++
		case isCloser(ls[j].tt):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(ls) - 1
}

func (s *state) atRule() (tree.Node, error) {
	kw := s.next()
	elems := []tree.Node{tok(kw)}
	for {
		l := s.peek()
		switch {
		case s.eof():
			return nil, s.errorf(l, "unexpected end of input in %s rule", kw.text)
		case l.tt == css.SemicolonToken:
			elems = append(elems, tok(s.next()))
			return tree.NewComposite(KindAtRule, elems...), nil
		case l.tt == css.LeftBraceToken:
			blk, err := s.block(atRuleName(kw.text))
			if err != nil {
				return nil, err
			}
			return tree.NewComposite(KindAtRule, append(elems, blk)...), nil
		case isCloser(l.tt):
			return nil, s.errorf(l, "unexpected %q in %s rule", l.text, kw.text)
		case closerOf(l.tt) != css.ErrorToken:
			group, err := s.balanced()
			if err != nil {
				return nil, err
			}
			elems = append(elems, group...)
		default:
			elems = append(elems, node(s.next()))
		}
	}
}

// atRuleName returns lower case at-rule name without vendor prefix.
func atRuleName(kw string) string {
	name := strings.ToLower(strings.TrimPrefix(kw, "@"))
	if strings.HasPrefix(name, "-") {
		if i := strings.Index(name[1:], "-"); i >= 0 {
			name = name[i+2:]
		}
	}
	return name
}

func (s *state) block(name string) (tree.Node, error) {
	var (
		body []tree.Node
		err  error
	)
	switch name {
	case "media", "supports", "document":
		s.next()
		body, err = s.items(true)
	case "font-face", "page":
		s.next()
		body, err = s.declarations()
	default:
		var raw []tree.Node
		raw, err = s.balanced()
		if err != nil {
			return nil, err
		}
		return tree.NewComposite(KindBlock, raw[0], tree.NewList(raw[1:len(raw)-1]...), raw[len(raw)-1]), nil
	}
	if err != nil {
		return nil, err
	}
	return tree.NewComposite(KindBlock, tree.NewToken("{"), tree.NewList(body...), tok(s.next())), nil
}
