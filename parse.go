package nimbus

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// expr  = term { ('+' | '-') term }
// term  = unary { ('*' | '/') unary }
// unary = '-' unary | power
// power = atom [ '^' unary ]
// atom  = number | 'x' | constant | function '(' expr ')' | '(' expr ')'

// Expr is a parsed expression in the variable x. An Expr is immutable and is
// safe to evaluate concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse tokenizes and parses an expression.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a token sequence as produced by Tokenize. If toks does
// not end with an End token, the parser behaves as if it did.
func ParseTokens(toks []Token) (*Expr, error) {
	scan := &tokscan{toks: toks}
	if scan.peek().Kind == End {
		return nil, &ParseError{Kind: EmptyInput, Col: scan.peek().Pos}
	}
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.next(); tok.Kind {
	case End:
	case RightParen:
		return nil, &ParseError{Kind: UnmatchedParen, Col: tok.Pos, Token: tok.Text}
	default:
		return nil, unexpected(tok)
	}
	return &Expr{n: n}, nil
}

// MustParse is like Parse but panics if the expression cannot be parsed.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic("nimbus: MustParse(" + src + "): " + err.Error())
	}
	return e
}

// tokscan is a cursor over a token sequence with one token of lookahead.
type tokscan struct {
	toks []Token
	i    int
}

// peek returns the next token without consuming it.
func (s *tokscan) peek() Token {
	if s.i >= len(s.toks) {
		pos := 1
		if len(s.toks) > 0 {
			last := s.toks[len(s.toks)-1]
			pos = last.Pos + len(last.Text)
		}
		return Token{Kind: End, Pos: pos}
	}
	return s.toks[s.i]
}

// next consumes and returns the next token. End is never consumed.
func (s *tokscan) next() Token {
	tok := s.peek()
	if tok.Kind != End {
		s.i++
	}
	return tok
}

// parseterm parses operands joined by binary operators that bind more tightly
// than until. It stops before the first token that cannot continue the term;
// callers decide whether that token is legal where it is.
func parseterm(scan *tokscan, until operator) (*node, error) {
	n, err := parseunary(scan, until)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.peek()
		if tok.Kind != Operator {
			return n, nil
		}
		prec := binop(tok.Text)
		if prec.op == nodeNone {
			panic("nimbus: no binary operator for " + tok.String())
		}
		if !prec.moreBinding(until) {
			return n, nil
		}
		scan.next()
		rhs, err := parseterm(scan, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: n, right: rhs}
	}
}

// parseunary parses an operand, possibly negated.
func parseunary(scan *tokscan, until operator) (*node, error) {
	tok := scan.peek()
	if tok.Kind != Operator || tok.Text != "-" {
		return parseatom(scan)
	}
	scan.next()
	prec := negprec
	if !prec.moreBinding(until) {
		// x^-y -> x^(-y)
		// Just use the enclosing operator's precedence to simplify.
		prec.prec, prec.right = until.prec, until.right
	}
	operand, err := parseterm(scan, prec)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeNeg, left: operand}, nil
}

// parseatom parses a number, a name, a call, or a parenthesized expression.
func parseatom(scan *tokscan) (*node, error) {
	tok := scan.next()
	switch tok.Kind {
	case Number:
		return &node{kind: nodeNum, num: tok.Num, name: tok.Text}, nil
	case Identifier:
		return parsename(scan, tok)
	case LeftParen:
		n, err := parseterm(scan, exprprec)
		if err != nil {
			return nil, err
		}
		if err := closeparen(scan, tok); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, unexpected(tok)
	}
}

// parsename resolves an identifier against the variable, the constants, and
// the functions.
func parsename(scan *tokscan, tok Token) (*node, error) {
	if tok.Text == VarName {
		return &node{kind: nodeVar}, nil
	}
	if v, ok := consts[tok.Text]; ok {
		return &node{kind: nodeConst, num: v, name: tok.Text}, nil
	}
	fn := funcs[tok.Text]
	if fn == nil {
		return nil, &ParseError{
			Kind:       UnknownIdentifier,
			Col:        tok.Pos,
			Token:      tok.Text,
			Suggestion: suggest(tok.Text),
		}
	}
	open := scan.next()
	if open.Kind != LeftParen {
		return nil, unexpected(open)
	}
	arg, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	if err := closeparen(scan, open); err != nil {
		return nil, err
	}
	return &node{kind: nodeCall, name: fn.name, fn: fn, left: arg}, nil
}

// closeparen consumes the close parenthesis matching open.
func closeparen(scan *tokscan, open Token) error {
	switch end := scan.next(); end.Kind {
	case RightParen:
		return nil
	case End:
		return &ParseError{Kind: UnmatchedParen, Col: open.Pos, Token: open.Text}
	default:
		return unexpected(end)
	}
}

// unexpected creates an error for a token that does not fit the grammar where
// it appears.
func unexpected(tok Token) error {
	return &ParseError{Kind: UnexpectedToken, Col: tok.Pos, Token: tok.Text}
}

// suggest finds the recognized name closest to an unknown identifier, or the
// empty string if none is plausibly what was meant. A name that abbreviates a
// recognized one wins over a typo of one.
func suggest(name string) string {
	names := Names()
	if len(name) > 1 {
		ranks := fuzzy.RankFindFold(name, names)
		if len(ranks) > 0 {
			sort.Sort(ranks)
			return ranks[0].Target
		}
	}
	name = strings.ToLower(name)
	best, dist := "", 3
	for _, cand := range names {
		d := fuzzy.LevenshteinDistance(name, cand)
		if d < dist && d < len(name) {
			best, dist = cand, d
		}
	}
	return best
}

// String creates a string representation of the parsed expression with every
// subexpression parenthesized.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b)
	return b.String()
}

// UsesX returns whether the expression depends on the variable.
func (e *Expr) UsesX() bool {
	return e.n.has(nodeVar)
}

// has checks whether a tree contains a node of the given kind.
func (n *node) has(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	return n.left.has(k) || n.right.has(k)
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

var (
	// negprec is the precedence of unary minus: looser than ^, so -2^2 is
	// -(2^2), but tighter than * and /.
	negprec = operator{10, true, nodeNeg}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
