package expr

import (
	"fmt"
	"regexp"
	"strings"
)

var prefixPattern = regexp.MustCompile(`^\s*(?:y|[A-Za-z]\w*\s*\(\s*[xt]\s*\))\s*=\s*`)

var boundsPattern = regexp.MustCompile(`^for\s+t\s*(?:∈|in)\s*\[(.*)\]\s*$`)

// StripPrefix removes a leading "y =", "f(x) =", "x(t) =" or "y(t) =" from an equation.
// Any function name is accepted in place of f.
func StripPrefix(equation string) string {
	return strings.TrimSpace(prefixPattern.ReplaceAllString(equation, ""))
}

// Function is a compiled Cartesian y = f(x)
type Function struct {
	Equation string
	prog     *Program
}

// CompileFunction compiles an equation of the form "y = <expr in x>"
func CompileFunction(equation string) (*Function, error) {
	prog, err := Compile(StripPrefix(equation), "x")
	if err != nil {
		return nil, err
	}
	return &Function{Equation: equation, prog: prog}, nil
}

// At evaluates the function at x
func (f *Function) At(x float64) (float64, error) {
	return f.prog.Eval(x)
}

// Parametric is a compiled pair x(t), y(t) with its parameter domain
type Parametric struct {
	Equation   string
	Start, End float64
	x, y       *Program
}

// CompileParametric compiles the three line form
//
//	x(t) = <expr>
//	y(t) = <expr>
//	for t ∈ [<start>, <end>]
//
// The bounds line is optional and defaults to [0, 1]. Bounds may be constant expressions.
func CompileParametric(equation string) (*Parametric, error) {
	p := &Parametric{Equation: equation, Start: 0, End: 1}
	var xSrc, ySrc string
	for _, line := range strings.Split(equation, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "x(t)") || strings.HasPrefix(line, "x (t)"):
			xSrc = StripPrefix(line)
		case strings.HasPrefix(line, "y(t)") || strings.HasPrefix(line, "y (t)"):
			ySrc = StripPrefix(line)
		case boundsPattern.MatchString(line):
			start, end, err := compileBounds(boundsPattern.FindStringSubmatch(line)[1])
			if err != nil {
				return nil, err
			}
			p.Start, p.End = start, end
		default:
			return nil, fmt.Errorf("unexpected line in parametric equation: %q", line)
		}
	}
	if xSrc == "" || ySrc == "" {
		return nil, fmt.Errorf("parametric equation needs both x(t) and y(t): %q", equation)
	}
	var err error
	if p.x, err = Compile(xSrc, "t"); err != nil {
		return nil, fmt.Errorf("x(t): %w", err)
	}
	if p.y, err = Compile(ySrc, "t"); err != nil {
		return nil, fmt.Errorf("y(t): %w", err)
	}
	return p, nil
}

func compileBounds(inner string) (float64, float64, error) {
	parts := SplitTopLevel(inner, ',')
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bounds need two values: [%s]", inner)
	}
	start, err := Eval(strings.TrimSpace(parts[0]), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("bad lower bound: %w", err)
	}
	end, err := Eval(strings.TrimSpace(parts[1]), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("bad upper bound: %w", err)
	}
	return start, end, nil
}

// At evaluates both coordinates at parameter t
func (p *Parametric) At(t float64) (float64, float64, error) {
	x, err := p.x.Eval(t)
	if err != nil {
		return 0, 0, err
	}
	y, err := p.y.Eval(t)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// SplitTopLevel splits s on sep wherever sep is not nested inside () or []
func SplitTopLevel(s string, sep rune) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, s[start:])
}
