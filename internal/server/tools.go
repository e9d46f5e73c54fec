package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "detect_symbols",
			Description: "Detect P&ID symbols (valves, instrument bubbles, equipment tags, ...) in a diagram image. " +
				"Returns a result document with a run id, normalized bounding boxes and the detector strategy. " +
				"Heuristic-strategy class names and confidences are placeholders, not classifier output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the diagram image (PNG, JPEG, GIF, BMP, TIFF or WebP)",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the annotated JPEG to",
					},
					"confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence in (0, 1]. Default 0.5",
						"default":     0.5,
					},
					"iou": map[string]interface{}{
						"type":        "number",
						"description": "Overlap suppression threshold in (0, 1]. Default 0.45",
						"default":     0.45,
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "heuristic", "model"},
						"description": "Detector strategy. auto uses the model when the server was started with one",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for the heuristic placeholder scorer. 0 seeds from the clock",
					},
					"ocr": map[string]interface{}{
						"type":        "boolean",
						"description": "Read the tag text inside each detection with Tesseract",
					},
					"include_images": map[string]interface{}{
						"type":        "boolean",
						"description": "Include base64 originalImage and processedImage in the result. Default false",
						"default":     false,
					},
				},
				"required": []string{"image_path"},
			},
		},
		{
			Name:        "list_symbol_classes",
			Description: "List the symbol class vocabulary, indexed by class id.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "detector_info",
			Description: "Report the default detector strategy, configured model and OCR engine version.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
