// Package filter parses and evaluates boolean predicates over item
// metadata columns, e.g. "state = 'open' AND repository = 'rust-lang/rust'".
// The grammar is deliberately small: comparisons with = and !=, AND/OR
// conjunction, and parentheses. Values are single-quoted strings or bare
// numbers.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "="
	OpNeq Op = "!="
)

// Expr is a parsed predicate node. The set of implementations is closed:
// Comparison, And, and Or.
type Expr interface {
	// Eval evaluates the predicate against one item's metadata columns.
	// Missing columns evaluate as empty strings.
	Eval(meta map[string]string) bool
	collectFields(set map[string]struct{})
}

// Comparison is a single column comparison.
type Comparison struct {
	Field string
	Op    Op
	Value string
}

// And is a conjunction of two predicates.
type And struct {
	Left, Right Expr
}

// Or is a disjunction of two predicates.
type Or struct {
	Left, Right Expr
}

func (c *Comparison) Eval(meta map[string]string) bool {
	v := meta[c.Field]
	if c.Op == OpEq {
		return v == c.Value
	}
	return v != c.Value
}

func (a *And) Eval(meta map[string]string) bool {
	return a.Left.Eval(meta) && a.Right.Eval(meta)
}

func (o *Or) Eval(meta map[string]string) bool {
	return o.Left.Eval(meta) || o.Right.Eval(meta)
}

func (c *Comparison) collectFields(set map[string]struct{}) { set[c.Field] = struct{}{} }

func (a *And) collectFields(set map[string]struct{}) {
	a.Left.collectFields(set)
	a.Right.collectFields(set)
}

func (o *Or) collectFields(set map[string]struct{}) {
	o.Left.collectFields(set)
	o.Right.collectFields(set)
}

// Fields returns the sorted set of column names the predicate references.
func Fields(e Expr) []string {
	set := make(map[string]struct{})
	e.collectFields(set)
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Parse parses a predicate string. An empty or all-whitespace input returns
// a nil Expr and no error (no filtering).
func Parse(input string) (Expr, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	p := &parser{input: input}
	p.next()
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return expr, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokEq
	tokNeq
	tokLParen
	tokRParen
	tokAnd
	tokOr
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	input string
	pos   int
	tok   token
	err   error
}

func (p *parser) next() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.input[p.pos]
	switch {
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case c == '=':
		p.pos++
		p.tok = token{kind: tokEq, text: "=", pos: start}
	case c == '!':
		if p.pos+1 < len(p.input) && p.input[p.pos+1] == '=' {
			p.pos += 2
			p.tok = token{kind: tokNeq, text: "!=", pos: start}
			return
		}
		p.fail(start, "expected != ")
	case c == '\'':
		p.pos++
		var sb strings.Builder
		for p.pos < len(p.input) && p.input[p.pos] != '\'' {
			sb.WriteByte(p.input[p.pos])
			p.pos++
		}
		if p.pos >= len(p.input) {
			p.fail(start, "unterminated string literal")
			return
		}
		p.pos++ // closing quote
		p.tok = token{kind: tokString, text: sb.String(), pos: start}
	case isIdentStart(c):
		for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
			p.pos++
		}
		word := p.input[start:p.pos]
		switch strings.ToUpper(word) {
		case "AND":
			p.tok = token{kind: tokAnd, text: word, pos: start}
		case "OR":
			p.tok = token{kind: tokOr, text: word, pos: start}
		default:
			p.tok = token{kind: tokIdent, text: word, pos: start}
		}
	case c >= '0' && c <= '9':
		for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
			p.pos++
		}
		p.tok = token{kind: tokNumber, text: p.input[start:p.pos], pos: start}
	default:
		p.fail(start, fmt.Sprintf("unexpected character %q", c))
	}
}

func (p *parser) fail(pos int, msg string) {
	if p.err == nil {
		p.err = fmt.Errorf("%s at offset %d", msg, pos)
	}
	p.tok = token{kind: tokEOF, pos: pos}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, p.err
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, p.err
}

func (p *parser) parseUnary() (Expr, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.kind == tokLParen {
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("missing closing parenthesis at offset %d", p.tok.pos)
		}
		p.next()
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	if p.tok.kind != tokIdent {
		return nil, fmt.Errorf("expected column name, got %q at offset %d", p.tok.text, p.tok.pos)
	}
	field := p.tok.text
	p.next()

	var op Op
	switch p.tok.kind {
	case tokEq:
		op = OpEq
	case tokNeq:
		op = OpNeq
	default:
		return nil, fmt.Errorf("expected = or != after %q at offset %d", field, p.tok.pos)
	}
	p.next()

	if p.tok.kind != tokString && p.tok.kind != tokNumber {
		return nil, fmt.Errorf("expected value after %q %s at offset %d", field, op, p.tok.pos)
	}
	value := p.tok.text
	p.next()
	if p.err != nil {
		return nil, p.err
	}
	return &Comparison{Field: field, Op: op, Value: value}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
