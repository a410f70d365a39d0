package geogebra

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/expr"
	"github.com/richard-senior/edutune/pkg/svgpath"
)

var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrUnknownCommand   = errors.New("unrecognised command")
	ErrMalformedCommand = errors.New("malformed command")
)

var (
	labelPattern    = regexp.MustCompile(`^([A-Za-z0-9]+)\s*:\s*(.+)$`)
	functionPattern = regexp.MustCompile(`^(?:y|[A-Za-z]\w*\s*\(\s*x\s*\))\s*=`)
	pointPattern    = regexp.MustCompile(`^\(\s*([-+]?\d*\.?\d+)\s*,\s*([-+]?\d*\.?\d+)\s*\)$`)
	separators      = regexp.MustCompile(`[\n;]`)
)

// Interpreter turns GeoGebra style commands into MathObjects
type Interpreter struct {
	// NewID mints object ids, uuid strings unless replaced
	NewID func() string
}

func NewInterpreter() *Interpreter {
	return &Interpreter{NewID: uuid.NewString}
}

var defaultInterpreter = NewInterpreter()

// ParseOne interprets a single command with the default interpreter
func ParseOne(command string) (*MathObject, error) {
	return defaultInterpreter.ParseOne(command)
}

// ParseMany interprets a batch with the default interpreter
func ParseMany(text string) []*MathObject {
	return defaultInterpreter.ParseMany(text)
}

// ParseOne interprets one command. Recognised forms, tried in this order:
//
//	f(x) = <expr>  or  y = <expr>
//	Curve[<x expr>, <y expr>, t, <start>, <end>]
//	(<x>, <y>)
//	Segment[(<x1>, <y1>), (<x2>, <y2>)]
//	Circle[(<cx>, <cy>), <r>]
//
// Any of them may carry a leading "label:". Call forms with round brackets are
// accepted as well. Anything else returns an error; ParseOne never panics.
func (in *Interpreter) ParseOne(command string) (*MathObject, error) {
	cmd := strings.TrimSpace(command)
	cmd = strings.TrimSpace(strings.TrimSuffix(cmd, ";"))
	if cmd == "" {
		return nil, ErrEmptyCommand
	}

	label := ""
	if m := labelPattern.FindStringSubmatch(cmd); m != nil {
		label = m[1]
		cmd = strings.TrimSpace(m[2])
	}

	var (
		obj *MathObject
		err error
	)
	switch {
	case functionPattern.MatchString(cmd):
		obj = &MathObject{Kind: Function, Equation: cmd}
	case hasCall(cmd, "Curve"):
		obj, err = parseCurve(cmd)
	case pointPattern.MatchString(cmd):
		obj, err = parsePoint(cmd)
	case hasCall(cmd, "Segment"):
		obj, err = parseSegment(cmd)
	case hasCall(cmd, "Circle"):
		obj, err = parseCircle(cmd)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	if err != nil {
		return nil, err
	}

	obj.ID = in.NewID()
	obj.Label = label
	return obj, nil
}

// ParseMany splits text on newlines and semicolons and interprets each piece.
// Blank pieces and failures are dropped; order is preserved.
func (in *Interpreter) ParseMany(text string) []*MathObject {
	objs, rejected := in.ParseManyReport(text)
	for _, r := range rejected {
		logger.Debug("Dropped command", r.Command, r.Err)
	}
	return objs
}

// Rejected describes a command ParseManyReport could not interpret
type Rejected struct {
	Line       int    `json:"line"`
	Command    string `json:"command"`
	Err        error  `json:"-"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ParseManyReport is ParseMany that also returns what was dropped and why.
// Line numbers are 1-based positions among the split pieces.
func (in *Interpreter) ParseManyReport(text string) ([]*MathObject, []Rejected) {
	var objs []*MathObject
	var rejected []Rejected
	for i, piece := range separators.Split(text, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		obj, err := in.ParseOne(piece)
		if err != nil {
			rejected = append(rejected, Rejected{
				Line:       i + 1,
				Command:    piece,
				Err:        err,
				Reason:     err.Error(),
				Suggestion: Suggest(piece),
			})
			continue
		}
		objs = append(objs, obj)
	}
	return objs, rejected
}

// hasCall reports whether cmd is name[...] or name(...)
func hasCall(cmd, name string) bool {
	return strings.HasPrefix(cmd, name+"[") || strings.HasPrefix(cmd, name+"(")
}

// callArgs returns the top level arguments of name[...] or name(...)
func callArgs(cmd, name string) ([]string, error) {
	body := strings.TrimSpace(strings.TrimPrefix(cmd, name))
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: missing arguments in %q", ErrMalformedCommand, cmd)
	}
	open, closing := body[0], body[len(body)-1]
	if !((open == '[' && closing == ']') || (open == '(' && closing == ')')) {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformedCommand, cmd)
	}
	args := expr.SplitTopLevel(body[1:len(body)-1], ',')
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
		if args[i] == "" {
			return nil, fmt.Errorf("%w: empty argument %d in %q", ErrMalformedCommand, i+1, cmd)
		}
	}
	return args, nil
}

// pair splits "(a, b)" into a and b
func pair(s string) (string, string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", "", false
	}
	parts := expr.SplitTopLevel(s[1:len(s)-1], ',')
	if len(parts) != 2 {
		return "", "", false
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

func parseCurve(cmd string) (*MathObject, error) {
	args, err := callArgs(cmd, "Curve")
	if err != nil {
		return nil, err
	}
	if len(args) != 5 || args[2] != "t" {
		return nil, fmt.Errorf("%w: expected Curve[x(t), y(t), t, start, end], got %q", ErrMalformedCommand, cmd)
	}
	for _, a := range args[:2] {
		if _, err := expr.Compile(a, "t"); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
		}
	}
	if err := checkNumbers(cmd, args[3], args[4]); err != nil {
		return nil, err
	}
	return &MathObject{
		Kind:     Parametric,
		Equation: ParametricEquation(args[0], args[1], args[3], args[4]),
	}, nil
}

func parsePoint(cmd string) (*MathObject, error) {
	m := pointPattern.FindStringSubmatch(cmd)
	x, errX := strconv.ParseFloat(m[1], 64)
	y, errY := strconv.ParseFloat(m[2], 64)
	if errX != nil || errY != nil {
		return nil, fmt.Errorf("%w: bad coordinates in %q", ErrMalformedCommand, cmd)
	}
	return &MathObject{Kind: Point, Equation: svgpath.NewPoint(x, y).String()}, nil
}

func parseSegment(cmd string) (*MathObject, error) {
	args, err := callArgs(cmd, "Segment")
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: expected Segment[(x1, y1), (x2, y2)], got %q", ErrMalformedCommand, cmd)
	}
	x1, y1, ok1 := pair(args[0])
	x2, y2, ok2 := pair(args[1])
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: segment end points must be (x, y) pairs in %q", ErrMalformedCommand, cmd)
	}
	if err := checkNumbers(cmd, x1, y1, x2, y2); err != nil {
		return nil, err
	}
	return &MathObject{
		Kind: Segment,
		Equation: ParametricEquation(
			fmt.Sprintf("%s * (1-t) + %s * t", x1, x2),
			fmt.Sprintf("%s * (1-t) + %s * t", y1, y2),
			"0", "1"),
	}, nil
}

func parseCircle(cmd string) (*MathObject, error) {
	args, err := callArgs(cmd, "Circle")
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: expected Circle[(cx, cy), r], got %q", ErrMalformedCommand, cmd)
	}
	cx, cy, ok := pair(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: circle centre must be an (x, y) pair in %q", ErrMalformedCommand, cmd)
	}
	r := args[1]
	if err := checkNumbers(cmd, cx, cy, r); err != nil {
		return nil, err
	}
	return &MathObject{
		Kind: Circle,
		Equation: ParametricEquation(
			fmt.Sprintf("%s + %s * cos(t)", cx, r),
			fmt.Sprintf("%s + %s * sin(t)", cy, r),
			"0", "2*pi"),
	}, nil
}

// checkNumbers accepts closed expressions such as 2, -1.5 or pi/2
func checkNumbers(cmd string, args ...string) error {
	for _, a := range args {
		if _, err := expr.Compile(a); err != nil {
			return fmt.Errorf("%w: %q is not a number in %q", ErrMalformedCommand, a, cmd)
		}
	}
	return nil
}

// ParametricEquation renders the three line parametric form understood by the renderer
func ParametricEquation(x, y, start, end string) string {
	return fmt.Sprintf("x(t) = %s\ny(t) = %s\nfor t ∈ [%s, %s]", x, y, start, end)
}
