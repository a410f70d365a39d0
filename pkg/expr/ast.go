package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrDivisionByZero is returned when a divisor evaluates to exactly zero
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain is returned when an evaluation produces NaN or an infinity
	ErrDomain = errors.New("result outside the real domain")
)

// Node is an evaluable expression tree node
type Node interface {
	Eval(vals []float64) (float64, error)
	String() string
}

// Const is a numeric literal or a named constant
type Const struct {
	Value float64
	Name  string
}

// Var refers to a bound variable by its slot
type Var struct {
	Name  string
	Index int
}

// BinOp is one of + - * / ^
type BinOp struct {
	Op          byte
	Left, Right Node
}

// UnaryOp is a prefix + or -
type UnaryOp struct {
	Op      byte
	Operand Node
}

// Call applies a whitelisted one-argument function
type Call struct {
	Name string
	Fn   func(float64) float64
	Arg  Node
}

var functions = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log":   math.Log10,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions lists the callable function names
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

func (c *Const) Eval([]float64) (float64, error) { return c.Value, nil }

func (c *Const) String() string {
	if c.Name != "" {
		return c.Name
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

func (v *Var) Eval(vals []float64) (float64, error) {
	if v.Index >= len(vals) {
		return 0, fmt.Errorf("no value bound for %s", v.Name)
	}
	return vals[v.Index], nil
}

func (v *Var) String() string { return v.Name }

func (b *BinOp) Eval(vals []float64) (float64, error) {
	l, err := b.Left.Eval(vals)
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval(vals)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, fmt.Errorf("unknown operator %q", b.Op)
}

func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %c %s)", b.Left, b.Op, b.Right)
}

func (u *UnaryOp) Eval(vals []float64) (float64, error) {
	v, err := u.Operand.Eval(vals)
	if err != nil {
		return 0, err
	}
	if u.Op == '-' {
		return -v, nil
	}
	return v, nil
}

func (u *UnaryOp) String() string {
	return fmt.Sprintf("(%c%s)", u.Op, u.Operand)
}

func (c *Call) Eval(vals []float64) (float64, error) {
	v, err := c.Arg.Eval(vals)
	if err != nil {
		return 0, err
	}
	return c.Fn(v), nil
}

func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, c.Arg)
}
