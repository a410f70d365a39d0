package expr

import (
	"fmt"
	"math"
)

const (
	// MaxSourceLength bounds the text Compile accepts, so flat chains stay shallow to evaluate
	MaxSourceLength = 4096
	// MaxDepth bounds nesting of parentheses, calls, signs and exponents
	MaxDepth = 256
)

// Program is a compiled expression bound to an ordered list of variable names
type Program struct {
	Source string
	Vars   []string
	Root   Node
}

// Compile parses src into a Program. Only the listed variables, the constants pi and e,
// and the whitelisted functions are accepted; anything else is a *SyntaxError.
func Compile(src string, vars ...string) (*Program, error) {
	if len(src) > MaxSourceLength {
		return nil, &SyntaxError{Source: src[:32] + "...", Pos: MaxSourceLength,
			Msg: fmt.Sprintf("expression longer than %d characters", MaxSourceLength)}
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks, vars: vars}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", describe(tok))
	}
	return &Program{Source: src, Vars: vars, Root: root}, nil
}

// MustCompile is Compile for expressions known to be valid, it panics otherwise
func MustCompile(src string, vars ...string) *Program {
	p, err := Compile(src, vars...)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval evaluates the program with vals bound to Vars in order
func (p *Program) Eval(vals ...float64) (float64, error) {
	v, err := p.Root.Eval(vals)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrDomain
	}
	return v, nil
}

// Eval compiles and evaluates src in one go, binding vars to vals
func Eval(src string, vars []string, vals ...float64) (float64, error) {
	p, err := Compile(src, vars...)
	if err != nil {
		return 0, err
	}
	return p.Eval(vals...)
}

type parser struct {
	src  string
	toks []token
	pos   int
	vars  []string
	depth int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Source: p.src, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok token) string {
	if tok.text != "" {
		return fmt.Sprintf("%q", tok.text)
	}
	return tok.kind.String()
}

// expr := term (('+'|'-') term)*
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokPlus && tok.kind != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: tok.text[0], Left: left, Right: right}
	}
}

// term := unary (('*'|'/') unary)*
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokStar && tok.kind != tokSlash {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Op: tok.text[0], Left: left, Right: right}
	}
}

// unary := ('+'|'-') unary | power
// Every nested operand passes through here, so this is where depth is counted.
func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, p.errorf(tok, "expression nested too deeply")
	}
	if tok.kind == tokPlus || tok.kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: tok.text[0], Operand: operand}, nil
	}
	return p.parsePower()
}

// power := primary ('^' unary)?
// The exponent may itself be signed and binds to the right: 2^-1, 2^3^2 = 2^9.
func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinOp{Op: '^', Left: base, Right: exp}, nil
}

// primary := number | variable | constant | function '(' expr ')' | '(' expr ')'
func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &Const{Value: tok.num}, nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')' but found %s", describe(closing))
		}
		return inner, nil
	case tokIdent:
		return p.parseIdent(tok)
	}
	return nil, p.errorf(tok, "unexpected %s", describe(tok))
}

func (p *parser) parseIdent(tok token) (Node, error) {
	if fn, ok := functions[tok.text]; ok {
		if open := p.next(); open.kind != tokLParen {
			return nil, p.errorf(open, "expected '(' after %s", tok.text)
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')' to close %s(", tok.text)
		}
		return &Call{Name: tok.text, Fn: fn, Arg: arg}, nil
	}
	for i, name := range p.vars {
		if name == tok.text {
			return &Var{Name: name, Index: i}, nil
		}
	}
	if v, ok := constants[tok.text]; ok {
		return &Const{Value: v, Name: tok.text}, nil
	}
	return nil, p.errorf(tok, "unknown identifier %q", tok.text)
}
