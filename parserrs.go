package curves

import "strconv"

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// UnexpectedToken is a token that cannot appear where it was found,
	// including characters and numbers that do not form valid tokens.
	UnexpectedToken ErrorKind = iota + 1
	// UnbalancedParens is an open bracket without a matching close bracket,
	// a close bracket without an open one, or a mismatched pair.
	UnbalancedParens
	// EmptyExpression is an expression or subexpression with no terms.
	EmptyExpression
	// UnknownFunction is a call to a name that is not a function.
	UnknownFunction
	// ArityMismatch is a call with the wrong number of arguments.
	ArityMismatch
)

var errorKindNames = [...]string{
	UnexpectedToken:  "unexpected token",
	UnbalancedParens: "unbalanced brackets",
	EmptyExpression:  "empty expression",
	UnknownFunction:  "unknown function",
	ArityMismatch:    "wrong number of arguments",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(errorKindNames) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return errorKindNames[k]
}

// ParseError is an error indicating invalid expression syntax. It implements
// InputError.
type ParseError struct {
	// Kind is the class of error.
	Kind ErrorKind
	// Pos is the 0-based rune offset of the token that caused the error.
	Pos int
	// Text is the offending token, if there is one.
	Text string

	msg string
}

func (err *ParseError) Error() string {
	s := err.Kind.String()
	if err.msg != "" {
		s += ": " + err.msg
	}
	if err.Text != "" {
		s += " " + strconv.Quote(err.Text)
	}
	return errpos(err.Pos, s)
}

// Offset returns err.Pos.
func (err *ParseError) Offset() int {
	return err.Pos
}

// Is reports whether target is a *ParseError of the same kind. This allows
// errors.Is(err, &ParseError{Kind: UnbalancedParens}).
func (err *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == err.Kind
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return "offset " + strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Offset returns the position of the error as the number of runes
	// preceding the token that caused the error.
	Offset() int
}

var _ InputError = (*ParseError)(nil)

func unexpected(tok lexToken, msg string) *ParseError {
	text := tok.text
	if tok.kind == tokenEOF {
		text = ""
	}
	return &ParseError{Kind: UnexpectedToken, Pos: tok.pos, Text: text, msg: msg}
}

func unbalanced(tok lexToken, msg string) *ParseError {
	return &ParseError{Kind: UnbalancedParens, Pos: tok.pos, Text: tok.text, msg: msg}
}

func empty(tok lexToken) *ParseError {
	if tok.kind == tokenEOF {
		if tok.pos == 0 {
			return &ParseError{Kind: EmptyExpression, Pos: tok.pos, msg: "no expression"}
		}
		return &ParseError{Kind: EmptyExpression, Pos: tok.pos, msg: "no expression at end"}
	}
	return &ParseError{Kind: EmptyExpression, Pos: tok.pos, Text: tok.text, msg: "no expression up to"}
}
