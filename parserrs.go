package nimbus

import (
	"errors"
	"strconv"
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

const (
	// UnexpectedToken is a token that does not fit the grammar, including
	// tokens after a complete expression and missing operands.
	UnexpectedToken ParseErrorKind = iota
	// UnknownIdentifier is a name that is not the variable, a constant, or a
	// function.
	UnknownIdentifier
	// UnmatchedParen is an open parenthesis without a close or the reverse.
	UnmatchedParen
	// EmptyInput is an input with no tokens.
	EmptyInput
)

func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnknownIdentifier:
		return "unknown identifier"
	case UnmatchedParen:
		return "unmatched parenthesis"
	case EmptyInput:
		return "empty input"
	default:
		return "ParseErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Sentinel errors for use with errors.Is on a *ParseError. Unmatched
// parentheses and empty input are kinds of unexpected token, so
// ErrUnexpectedToken matches them as well as their own sentinels.
var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrUnmatchedParen    = errors.New("unmatched parenthesis")
	ErrEmptyInput        = errors.New("empty input")
)

// ParseError is an error indicating input that does not form an expression.
// It implements InputError.
type ParseError struct {
	// Kind is the classification of the error.
	Kind ParseErrorKind
	// Col is the position of the token that caused the error.
	Col int
	// Token is the text of the token that caused the error. It is empty at
	// the end of the input.
	Token string
	// Suggestion is the closest recognized identifier for UnknownIdentifier
	// errors, if any is close enough to be a likely typo.
	Suggestion string
}

func (err *ParseError) Error() string {
	switch err.Kind {
	case UnknownIdentifier:
		msg := "unknown identifier " + strconv.Quote(err.Token)
		if err.Suggestion != "" {
			msg += " (did you mean " + strconv.Quote(err.Suggestion) + "?)"
		}
		return errpos(err.Col, msg)
	case EmptyInput:
		return errpos(err.Col, "no expression")
	case UnmatchedParen:
		if err.Token == "" || err.Token == "(" {
			return errpos(err.Col, "open parenthesis with no close parenthesis")
		}
		return errpos(err.Col, "close parenthesis with no open parenthesis")
	default:
		if err.Token == "" {
			return errpos(err.Col, "unexpected end of expression")
		}
		return errpos(err.Col, "unexpected "+strconv.Quote(err.Token))
	}
}

func (err *ParseError) Pos() int {
	return err.Col
}

// Is reports whether target is the sentinel for the error's kind.
func (err *ParseError) Is(target error) bool {
	switch target {
	case ErrUnexpectedToken:
		return err.Kind != UnknownIdentifier
	case ErrUnknownIdentifier:
		return err.Kind == UnknownIdentifier
	case ErrUnmatchedParen:
		return err.Kind == UnmatchedParen
	case ErrEmptyInput:
		return err.Kind == EmptyInput
	}
	return false
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*LexError)(nil)
)
