package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/richard-senior/edutune/internal/config"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/richard-senior/edutune/pkg/protocol"
	"github.com/richard-senior/edutune/pkg/tools"
	"github.com/richard-senior/edutune/pkg/transport"
	"github.com/richard-senior/edutune/pkg/util"
)

// Server represents an MCP server
type Server struct {
	transport transport.Transport
	cfg       *config.AppConfig
	handlers  map[string]HandlerFunc
	tools     []protocol.Tool
	toolFuncs map[string]HandlerFunc
	mu        sync.Mutex
}

// HandlerFunc is a function that handles an MCP request
type HandlerFunc func(params interface{}) (interface{}, error)

// Singleton instance
var (
	instance *Server
	once     sync.Once
)

// GetInstance returns the singleton, creating it on stdio if InitInstance was never called
func GetInstance() *Server {
	if instance == nil {
		logger.Warn("Server instance requested but not initialized. Use InitInstance first.")
		InitInstance(transport.NewStdioTransport(), config.Config, nil)
	}
	return instance
}

// InitInstance initializes the singleton instance of the Server
func InitInstance(t transport.Transport, cfg *config.AppConfig, toolbox *tools.Toolbox) *Server {
	once.Do(func() {
		instance = New(t, cfg, toolbox)
	})
	return instance
}

// New builds a server with the protocol handlers and every tool of toolbox registered.
// A nil toolbox gets one without command history.
func New(t transport.Transport, cfg *config.AppConfig, toolbox *tools.Toolbox) *Server {
	if cfg == nil {
		cfg = config.Config
	}
	if toolbox == nil {
		toolbox = tools.NewToolbox(cfg, nil)
	}
	s := &Server{
		transport: t,
		cfg:       cfg,
		handlers:  make(map[string]HandlerFunc),
		toolFuncs: make(map[string]HandlerFunc),
	}
	s.handlers[string(protocol.MethodInitialize)] = s.handleInitialize
	s.handlers[string(protocol.MethodToolsList)] = s.handleToolsList
	s.handlers[string(protocol.MethodToolsCall)] = s.handleToolsCall
	s.handlers[string(protocol.MethodPing)] = s.handlePing
	s.handlers[string(protocol.MethodResourcesList)] = s.handleEmptyList("resources")
	s.handlers[string(protocol.MethodPromptsList)] = s.handleEmptyList("prompts")

	s.RegisterDefaultTools(toolbox)
	return s
}

// RegisterTool registers a tool under the configured prefix
func (s *Server) RegisterTool(tool protocol.Tool, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tool.Name = s.cfg.ToolPrefix + tool.Name
	s.tools = append(s.tools, tool)
	s.toolFuncs[tool.Name] = handler
	logger.Info("Registered tool:", tool.Name)
}

// GetTools returns the list of registered tools
func (s *Server) GetTools() []protocol.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

// RegisterDefaultTools registers every tool of the toolbox
func (s *Server) RegisterDefaultTools(toolbox *tools.Toolbox) {
	logger.Info("Registering default tools...")
	for _, d := range toolbox.Definitions() {
		s.RegisterTool(d.Tool, d.Handler)
	}
}

// Start processes requests until the transport closes or the process is signalled
func (s *Server) Start() error {
	logger.Info("Starting MCP server", s.cfg.ServerName, s.cfg.ServerVersion)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ProcessRequests()
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("Received signal:", sig)
		return nil
	}
}

// ProcessRequests continuously processes incoming requests. It returns nil at end of input.
func (s *Server) ProcessRequests() error {
	for {
		req, err := s.transport.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, protocol.ErrMalformedRequest) {
				resp := protocol.NewJsonRpcErrorResponse(protocol.ErrParse, err.Error(), nil, nil)
				if werr := s.transport.WriteResponse(resp); werr != nil {
					return werr
				}
				continue
			}
			return err
		}

		// a nil response means none is required
		resp := s.HandleRequest(req)
		if resp == nil {
			continue
		}
		if err := s.transport.WriteResponse(resp); err != nil {
			return err
		}
	}
}

// HandleRequest processes a request and returns a response, nil for notifications
func (s *Server) HandleRequest(req *protocol.JsonRpcRequest) *protocol.JsonRpcResponse {
	logger.Info(">> ", req.Method)
	logger.Debug("Full request:", req.String())

	if strings.HasPrefix(req.Method, "notifications/") || req.IsNotification() {
		logger.Info("Received notification:", req.Method)
		return nil
	}

	resp := &protocol.JsonRpcResponse{
		JsonRPC: protocol.JsonRpcVersion,
		ID:      req.ID,
	}

	handler := s.handlers[req.Method]
	if handler == nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
		return resp
	}

	result, err := s.safeCall(handler, req.Params)
	if err != nil {
		resp.Error = toRpcError(err)
		logger.Warn("Request failed:", req.Method, resp.Error.Message)
		return resp
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		resp.Error = &protocol.JsonRpcError{
			Code:    protocol.ErrInternal,
			Message: "Failed to marshal result: " + err.Error(),
		}
		return resp
	}
	resp.Result = resultBytes
	logger.Debug("Full response:", len(resultBytes), "bytes")
	return resp
}

// safeCall turns a handler panic into an internal error
func (s *Server) safeCall(handler HandlerFunc, params any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Handler panicked:", r)
			err = &protocol.JsonRpcError{Code: protocol.ErrInternal, Message: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return handler(params)
}

func toRpcError(err error) *protocol.JsonRpcError {
	var rpcErr *protocol.JsonRpcError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	if errors.Is(err, util.ErrInvalidParams) {
		return &protocol.JsonRpcError{Code: protocol.ErrInvalidParams, Message: err.Error()}
	}
	return &protocol.JsonRpcError{Code: protocol.ErrToolExecutionFailed, Message: err.Error()}
}

func (s *Server) handleToolsList(params interface{}) (interface{}, error) {
	logger.Info("Handling tools/list request")
	return protocol.ToolsResponse{Tools: s.GetTools()}, nil
}

func (s *Server) handleEmptyList(key string) HandlerFunc {
	return func(params interface{}) (interface{}, error) {
		return map[string]any{key: []any{}}, nil
	}
}

func (s *Server) handlePing(params interface{}) (interface{}, error) {
	return map[string]any{}, nil
}

// handleInitialize answers with the client's protocol version when it sent one
func (s *Server) handleInitialize(params interface{}) (interface{}, error) {
	logger.Info("Handling initialize request with", len(s.GetTools()), "tools registered")

	requestedProtocolVersion := protocol.ProtocolVersion
	var paramsMap map[string]interface{}
	if raw, ok := params.(json.RawMessage); ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &paramsMap); err != nil {
			return nil, util.Invalid("initialize params: %v", err)
		}
	}
	if version, ok := paramsMap["protocolVersion"].(string); ok && version != "" {
		requestedProtocolVersion = version
	}
	logger.Info("Final protocol version to use:", requestedProtocolVersion)

	return protocol.InitializeResult{
		ProtocolVersion: requestedProtocolVersion,
		Capabilities: map[string]any{
			"tools": map[string]any{"listChanged": false},
		},
		ServerInfo: protocol.ServerInfo{
			Name:    s.cfg.ServerName,
			Version: s.cfg.ServerVersion,
		},
		Instructions: "Graph GeoGebra commands and SVG paths. Start with geogebra_help for the command syntax.",
	}, nil
}

// handleToolsCall finds the tool with or without the configured prefix and wraps its result
func (s *Server) handleToolsCall(params any) (any, error) {
	var call protocol.ToolCallParams
	if raw, ok := params.(json.RawMessage); ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &call); err != nil {
			return nil, util.Invalid("invalid tools/call parameters: %v", err)
		}
	}
	logger.Info("Tool call requested for:", call.Name)
	if call.Name == "" {
		return nil, util.Invalid("tool name is required")
	}

	s.mu.Lock()
	handler := s.toolFuncs[call.Name]
	if handler == nil {
		handler = s.toolFuncs[s.cfg.ToolPrefix+call.Name]
	}
	s.mu.Unlock()
	if handler == nil {
		return nil, &protocol.JsonRpcError{Code: protocol.ErrMethodNotFound, Message: "tool not found: " + call.Name}
	}

	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	result, err := handler(args)
	if err != nil {
		return nil, err
	}
	return wrapResult(result)
}

// wrapResult passes tool results through and renders anything else as JSON text
func wrapResult(result any) (*protocol.ToolResult, error) {
	switch r := result.(type) {
	case *protocol.ToolResult:
		return r, nil
	case protocol.ToolResult:
		return &r, nil
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return &protocol.ToolResult{Content: []protocol.Content{protocol.TextContent(string(b))}}, nil
}
