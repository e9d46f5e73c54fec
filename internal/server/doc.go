// Package server implements the MCP (Model Context Protocol) server mode
// of symbol-detect.
//
// It exposes the detection pipeline as tools so an MCP client can run
// detections repeatedly without paying process start-up and model loading
// on every image.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - detect_symbols: Run one image through the pipeline
//   - list_symbol_classes: The class vocabulary
//   - detector_info: Default strategy, model and OCR engine
//
// # State
//
// Every detect_symbols call builds its own pipeline from the server's
// configuration plus the call's arguments. The only state shared between
// calls is the model handle, which loads the network on first use and is
// immutable afterwards.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
