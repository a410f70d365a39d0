package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/tools"
	"github.com/richard-senior/edutune/pkg/util"
)

// Request is a one-shot query from the command line
type Request struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId"`
}

// Response carries the result of one query
type Response struct {
	RequestID   string         `json:"requestId,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Tools       []string       `json:"tools,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var suggestions = []string{
	"Evaluate an expression with 'calculate x^2 + 1 at 3'",
	"Interpret commands with 'parse f(x) = sin(x); A: (1, 2)'",
	"Convert path data with 'svg M 0 0 L 10 10 Q 20 0 30 10'",
	"Read the command reference with 'help [topic]'",
	"List the server tools with 'tools'",
}

func createErrorResponse(code, message, requestID string) ([]byte, error) {
	var response ErrorResponse
	response.Error.Code = code
	response.Error.Message = message
	return json.MarshalIndent(response, "", "  ")
}

// ProcessRequest answers a JSON request, or plain query text, and returns the JSON response.
// Query failures are reported inside the response; only marshalling errors are returned.
func ProcessRequest(input []byte) ([]byte, error) {
	var request Request
	trimmed := strings.TrimSpace(string(input))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &request); err != nil {
			logger.Error("Failed to parse input JSON", err)
			return createErrorResponse("invalid_request", fmt.Sprintf("Invalid JSON: %v", err), "")
		}
	} else {
		request.Query = trimmed
	}
	logger.Info("Processing request", request.Query)

	verb, rest, _ := strings.Cut(strings.TrimSpace(request.Query), " ")
	tb := tools.NewToolbox(config.Config, nil)

	var (
		out any
		err error
	)
	switch verb {
	case "calculate":
		out, err = calculate(rest)
	case "parse":
		out, err = tb.HandleGeogebraParse(map[string]any{"commands": strings.TrimSpace(rest)})
	case "svg":
		key := "path"
		if strings.HasPrefix(strings.TrimSpace(rest), "<") {
			key = "svg"
		}
		out, err = tb.HandleSvgToGeogebra(map[string]any{key: rest})
	case "help":
		out, err = tools.HandleGeogebraHelp(map[string]any{"topic": strings.TrimSpace(rest)})
	case "tools":
		var names []string
		for _, d := range tb.Definitions() {
			names = append(names, d.Tool.Name)
		}
		return marshal(Response{RequestID: request.RequestID, Tools: names, Suggestions: suggestions})
	default:
		return marshal(Response{
			RequestID:   request.RequestID,
			Suggestions: suggestions,
			Metadata:    metadata(),
		})
	}
	if err != nil {
		code := "tool_error"
		if errors.Is(err, util.ErrInvalidParams) {
			code = "invalid_params"
		}
		logger.Error("Query failed", verb, err)
		return createErrorResponse(code, err.Error(), request.RequestID)
	}

	return marshal(Response{
		RequestID: request.RequestID,
		Context:   contextOf(out),
		Metadata:  metadata(),
	})
}

// calculate understands "<expression>" and "<expression> at <value>"
func calculate(query string) (any, error) {
	params := map[string]any{"expression": query}
	if expression, value, ok := strings.Cut(query, " at "); ok {
		v, err := util.GetAsFloat(strings.TrimSpace(value))
		if err != nil {
			return nil, util.Invalid("bad value %q", value)
		}
		params["expression"] = expression
		params["value"] = v
	}
	return tools.HandleEvaluateExpression(params)
}

func contextOf(out any) map[string]any {
	switch v := out.(type) {
	case map[string]any:
		return v
	case *protocol.ToolResult:
		var texts []string
		for _, c := range v.Content {
			if c.Type == "text" {
				texts = append(texts, c.Text)
			}
		}
		return map[string]any{"text": strings.Join(texts, "\n")}
	default:
		return map[string]any{"result": v}
	}
}

func metadata() map[string]any {
	return map[string]any{
		"name":    config.Config.ServerName,
		"version": config.Config.ServerVersion,
	}
}

func marshal(response Response) ([]byte, error) {
	b, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal response to JSON", err)
		return createErrorResponse("internal_error", "Failed to create response", response.RequestID)
	}
	return b, nil
}
