package tools

import (
	"errors"
	"sort"

	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/expr"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/util"
)

// EvaluateExpressionTool returns the evaluate_expression tool definition
func EvaluateExpressionTool() protocol.Tool {
	return protocol.Tool{
		Name: "evaluate_expression",
		Description: `
		Evaluates a mathematical expression such as 'x^2 + 3*x - 2' or 'sin(pi/2)' with a safe,
		restricted evaluator. Only + - * / ^, parentheses, pi, e and a fixed set of functions are allowed.
		An optional 'y = ' or 'f(x) = ' prefix is ignored.
		`,
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"expression": {
					Type:        "string",
					Description: "The expression to evaluate",
				},
				"variable": {
					Type:        "string",
					Description: "Name of the free variable, x by default",
				},
				"value": {
					Type:        "number",
					Description: "Value bound to the variable (default 0)",
				},
			},
			Required: []string{"expression"},
		},
	}
}

// HandleEvaluateExpression handles the evaluate_expression tool invocation
func HandleEvaluateExpression(params any) (any, error) {
	logger.Info("Handling evaluate_expression tool invocation")
	p, err := util.AsParams(params)
	if err != nil {
		return nil, err
	}
	expression, err := p.RequiredString("expression")
	if err != nil {
		return nil, err
	}
	variable := p.String("variable", "x")
	value, err := p.Float("value", 0)
	if err != nil {
		return nil, err
	}

	prog, err := expr.Compile(expr.StripPrefix(expression), variable)
	if err != nil {
		var syn *expr.SyntaxError
		if errors.As(err, &syn) {
			return nil, util.Invalid("%s", syn.Error())
		}
		return nil, err
	}
	result, err := prog.Eval(value)
	if err != nil {
		// division by zero and domain errors are answers, not failures
		return map[string]any{
			"expression": expression,
			"variable":   variable,
			"value":      value,
			"error":      err.Error(),
		}, nil
	}

	functions := expr.Functions()
	sort.Strings(functions)
	return map[string]any{
		"result":     result,
		"expression": expression,
		"variable":   variable,
		"value":      value,
		"normalized": prog.Root.String(),
		"functions":  functions,
	}, nil
}
