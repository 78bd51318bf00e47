package curves

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Expr = num | var | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname | funcname Expr | funcname ArgList
// ArgList = '(' Expr { ',' Expr } ')' | '[' Expr { ',' Expr } ']' | '{' Expr { ',' Expr } '}'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr | Expr Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr

// DefaultVariable is the name of the free variable when Parse is given none.
const DefaultVariable = "x"

// Expr is a parsed expression in one free variable. An Expr is immutable and
// safe to evaluate concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// src is the text the expression was parsed from.
	src string
	// variable is the name of the free variable.
	variable string
}

// Parse parses an expression in the free variable named variable. If variable
// is empty, it is DefaultVariable. The variable shadows any function or
// constant of the same name. Syntax errors are returned as *ParseError.
func Parse(text, variable string, opts ...ParseOption) (*Expr, error) {
	if variable == "" {
		variable = DefaultVariable
	}
	if !isIdent(variable) {
		return nil, errors.New("curves: invalid variable name " + strconv.Quote(variable))
	}
	p := parsectx{funcs: globalfuncs, variable: variable}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	scan := lex(text)
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
	case tokenClose:
		return nil, unbalanced(tok, "close bracket with no open bracket")
	case tokenSep:
		return nil, unexpected(tok, "separator outside function call")
	default:
		panic("curves: parse ended on " + tok.String())
	}
	return &Expr{n: n, src: text, variable: variable}, nil
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return s != ""
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// (parsed) x -> (parsed) * (x)
			// (parsed) x^(expr) -> (parsed) * (x^(expr))
			// a^(parsed) x -> (a^(parsed)) * (x)
			scan.push(tok)
			if !termprec.moreBinding(until) {
				return n, nil
			}
			rhs, err := parseterm(scan, p, termprec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeMul, left: n, right: rhs}
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, unexpected(tok, "not a binary operator")
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, empty(scan.must())
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("curves: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// The lexer only produces valid literals.
			return nil, unexpected(tok, "malformed number")
		}
		// Out of range literals keep ParseFloat's ±Inf or 0. Evaluation
		// reports the former as overflow.
		return &node{kind: nodeNum, val: v, name: tok.text}, nil
	case tokenIdent:
		if tok.text == p.variable {
			return &node{kind: nodeVar, name: tok.text}, nil
		}
		if fn := p.funcs[tok.text]; fn != nil {
			return parsecall(scan, p, until, fn, tok)
		}
		nt, err := scan.next()
		if err != nil {
			return nil, err
		}
		if nt.kind == tokenOpen {
			return nil, &ParseError{Kind: UnknownFunction, Pos: tok.pos, Text: tok.text}
		}
		return nil, unexpected(tok, "unknown name")
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, unexpected(tok, "not a unary operator")
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, empty(scan.must())
		}
		return &node{kind: prec.op, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, unclosed(scan, tok, err)
		}
		end := scan.must()
		if err := closes(tok, end); err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, empty(end)
		}
		return rhs, nil
	case tokenClose, tokenSep:
		// This might be the end of an argument list, so just let the caller
		// decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenEOF:
		return nil, empty(tok)
	default:
		panic("curves: unknown token: " + tok.String())
	}
}

// parsecall parses the arguments to a call of a given Func named by the token
// name.
func parsecall(scan *lexer, p *parsectx, until operator, fn Func, name lexToken) (*node, error) {
	call := &node{kind: nodeCall, name: name.text, fn: fn}
	niladic := fn.CanCall(0) && !fn.CanCall(1)
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		if niladic {
			nt, err := scan.next()
			if err != nil {
				return nil, err
			}
			if nt.kind == tokenClose {
				// pi() -> pi
				if err := closes(tok, nt); err != nil {
					return nil, err
				}
				return call, nil
			}
			// pi(x) -> (pi) * (x)
			scan.rewind(tok)
			return call, nil
		}
		args, err := parsearglist(scan, p, tok)
		if err != nil {
			return nil, err
		}
		if !fn.CanCall(len(args)) {
			return nil, arity(name, len(args))
		}
		call.args = args
		return call, nil
	case tokenOp:
		if niladic {
			scan.push(tok)
			return call, nil
		}
		if unop(tok.text).op == nodeNone {
			return nil, arity(name, 0)
		}
		// sin -x -> sin(-x)
		fallthrough
	case tokenNum, tokenIdent:
		switch {
		case niladic:
			// pi x -> (pi) * (x)
			scan.push(tok)
			return call, nil
		case fn.CanCall(1):
			// exp x -> exp(x)
			scan.push(tok)
			if termprec.moreBinding(until) {
				until = termprec
			}
			rhs, err := parseterm(scan, p, until)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, empty(scan.must())
			}
			call.args = []*node{rhs}
			return call, nil
		default:
			// Any other number of arguments requires brackets.
			return nil, arity(name, 1)
		}
	case tokenClose, tokenSep, tokenEOF:
		if !fn.CanCall(0) {
			return nil, arity(name, 0)
		}
		scan.push(tok)
		return call, nil
	default:
		panic("curves: unknown token: " + tok.String())
	}
}

// parsearglist parses a bracketed list of zero or more args. The open bracket
// has already been scanned. The close bracket is consumed.
func parsearglist(scan *lexer, p *parsectx, open lexToken) ([]*node, error) {
	var args []*node
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, unclosed(scan, open, err)
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			if err := closes(open, end); err != nil {
				return nil, err
			}
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, empty(end)
				}
				return nil, nil
			}
			return append(args, rhs), nil
		case tokenSep:
			if rhs == nil {
				return nil, empty(end)
			}
			args = append(args, rhs)
		case tokenEOF:
			return nil, unbalanced(open, "open bracket with no close bracket")
		default:
			panic("curves: argument list ended on non-end token " + end.String())
		}
	}
}

// closes checks that end is the close bracket matching open.
func closes(open, end lexToken) error {
	switch end.kind {
	case tokenClose:
		if end.text != closebrackets[rightbracket(open.text)] {
			return unbalanced(end, "mismatched bracket for "+strconv.Quote(open.text)+" at offset "+strconv.Itoa(open.pos))
		}
		return nil
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return unbalanced(open, "open bracket with no close bracket")
	case tokenSep:
		return unexpected(end, "separator outside function call")
	default:
		panic("curves: it really should not have ended this way: " + end.String())
	}
}

// unclosed reports input that ends inside the bracket open as an unclosed
// bracket rather than a missing operand.
func unclosed(scan *lexer, open lexToken, err error) error {
	var perr *ParseError
	if errors.As(err, &perr) && perr.Kind == EmptyExpression && perr.Pos == len(scan.src) {
		return unbalanced(open, "open bracket with no close bracket")
	}
	return err
}

func arity(name lexToken, n int) *ParseError {
	return &ParseError{
		Kind: ArityMismatch,
		Pos:  name.pos,
		Text: name.text,
		msg:  "cannot call with " + strconv.Itoa(n) + " arguments",
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	for k, b := range openbrackets {
		if b == left {
			return k
		}
	}
	panic("curves: invalid bracket " + strconv.Quote(left))
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}

// Variable returns the name of the free variable.
func (e *Expr) Variable() string {
	return e.variable
}

// Equal reports whether e and f have the same tree structure and free
// variable. Source text is not compared, so "2x+3" equals "2*x + 3".
func (e *Expr) Equal(f *Expr) bool {
	if e == nil || f == nil {
		return e == f
	}
	return e.variable == f.variable && e.n.equal(f.n)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
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
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the precedence for implicit multiplication. Its prec
	// should match that of multiplication.
	termprec = operator{5, true, nodeMul}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, nodeNone}
)
