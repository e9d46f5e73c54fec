package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/symbol-detect/internal/config"
	"github.com/ironsheep/symbol-detect/internal/detection"
	"github.com/ironsheep/symbol-detect/internal/ocr"
	"github.com/ironsheep/symbol-detect/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detect_symbols").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "detect_symbols":
		return s.handleDetectSymbols(args)
	case "list_symbol_classes":
		return s.handleListSymbolClasses()
	case "detector_info":
		return s.handleDetectorInfo()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Detection Handlers ===

type detectSymbolsArgs struct {
	ImagePath     string   `json:"image_path"`
	OutputPath    string   `json:"output_path"`
	Confidence    *float64 `json:"confidence"`
	IoU           *float64 `json:"iou"`
	Strategy      string   `json:"strategy"`
	Seed          *int64   `json:"seed"`
	OCR           *bool    `json:"ocr"`
	IncludeImages bool     `json:"include_images"`
}

// handleDetectSymbols runs the pipeline once with the server's settings
// overridden by the call's arguments. Each call gets a fresh pipeline;
// only the model handle is shared.
func (s *Server) handleDetectSymbols(args json.RawMessage) (interface{}, error) {
	var a detectSymbolsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := config.CheckImagePath(a.ImagePath); err != nil {
		return nil, err
	}

	cfg := *s.cfg
	if a.Confidence != nil {
		cfg.Confidence = *a.Confidence
	}
	if a.IoU != nil {
		cfg.IoU = *a.IoU
	}
	if a.Strategy != "" {
		cfg.Strategy = a.Strategy
	}
	if a.Seed != nil {
		cfg.Seed = *a.Seed
	}
	if a.OCR != nil {
		cfg.OCR = *a.OCR
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := pipeline.New(&cfg, s.handle)
	if err != nil {
		return nil, err
	}

	outcome, err := p.Run(pipeline.Request{
		ImagePath:  a.ImagePath,
		OutputPath: a.OutputPath,
		Confidence: cfg.Confidence,
		IoU:        cfg.IoU,
	})
	if err != nil {
		return nil, err
	}

	doc := *outcome.Document
	if !a.IncludeImages {
		doc.OriginalImage = ""
		doc.ProcessedImage = ""
	}
	return &doc, nil
}

// SymbolClassesResult lists the class vocabulary.
type SymbolClassesResult struct {
	Classes []string `json:"classes"`
	Count   int      `json:"count"`
}

func (s *Server) handleListSymbolClasses() (interface{}, error) {
	classes, err := detection.LoadLabels(s.cfg.LabelsPath)
	if err != nil {
		return nil, err
	}
	return &SymbolClassesResult{
		Classes: classes,
		Count:   len(classes),
	}, nil
}

// DetectorInfo describes the server's default detection setup.
type DetectorInfo struct {
	Strategy    string `json:"strategy"`
	ModelPath   string `json:"model_path,omitempty"`
	ModelLoaded bool   `json:"model_loaded"`
	OCRVersion  string `json:"ocr_version"`
	Version     string `json:"version"`
}

func (s *Server) handleDetectorInfo() (interface{}, error) {
	info := &DetectorInfo{
		Strategy:   s.cfg.ResolvedStrategy(),
		ModelPath:  s.cfg.ModelPath,
		OCRVersion: ocr.Version(),
		Version:    s.version,
	}
	if s.handle != nil {
		_, err := s.handle.Model()
		info.ModelLoaded = err == nil
	}
	return info, nil
}
