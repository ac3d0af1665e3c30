package nimbus

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the token's kind.
	Kind TokenKind
	// Text is the source text of the token. It is empty for End.
	Text string
	// Num is the value of a Number token.
	Num float64
	// Pos is the 1-based rune column where the token starts.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a Token.
type TokenKind int

const (
	tokenNone TokenKind = iota
	// End marks the end of the input. Every token sequence ends with exactly
	// one End.
	End
	// Number is a decimal literal.
	Number
	// Identifier is a run of letters naming the variable, a constant, or a
	// function.
	Identifier
	// Operator is one of Operators.
	Operator
	// LeftParen is (.
	LeftParen
	// RightParen is ).
	RightParen
	// Comma is ,.
	Comma
)

var tokenKindNames = [...]string{
	tokenNone:  "None",
	End:        "End",
	Number:     "Number",
	Identifier: "Identifier",
	Operator:   "Operator",
	LeftParen:  "LeftParen",
	RightParen: "RightParen",
	Comma:      "Comma",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the bytes which are lexed as operators.
const Operators = "+-*/^"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// Tokenize splits src into tokens. The result always ends with an End token.
// Any character outside digits, ASCII letters, whitespace, the operators, the
// parentheses, the comma, and the decimal point is a *LexError.
func Tokenize(src string) ([]Token, error) {
	l := lex(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == End {
			return toks, nil
		}
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. Once the input is exhausted, every
// call returns an End token.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	tok := Token{Pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.Kind = End
				return tok, nil
			}
			return tok, err
		}
		switch {
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
			tok.Pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				// Out of range literals still parse to ±Inf; anything else
				// means scanNum accepted something it shouldn't have.
				var ne *strconv.NumError
				if !errors.As(err, &ne) || ne.Err != strconv.ErrRange {
					panic("nimbus: scanned invalid number " + strconv.Quote(tok.Text))
				}
			}
			tok.Kind = Number
			tok.Num = v
			return tok, nil
		case isLetter(r):
			l.unreadRune()
			l.scanIdent()
			tok.Text = l.buf.String()
			tok.Kind = Identifier
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = LeftParen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = RightParen
			return tok, nil
		case r == ',':
			tok.Text = ","
			tok.Kind = Comma
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Text = Operators[k : k+1]
				tok.Kind = Operator
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

// scanNum scans a run of digits with at most one decimal point. A second point
// ends the number.
func (l *lexer) scanNum() error {
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '.' {
			if dot {
				l.unreadRune()
				break
			}
			dot = true
			l.buf.WriteRune(r)
			continue
		}
		if r < '0' || '9' < r {
			l.unreadRune()
			break
		}
		dig = true
		l.buf.WriteRune(r)
	}
	if !dig {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			// next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune, and
			// strings.Reader has no errors other than EOF.
			return
		}
		if !isLetter(r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string if a token kind hadn't been decided.
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid character at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Col
}
