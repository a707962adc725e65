// Package server implements the MCP (Model Context Protocol) server for palette extraction.
//
// This package provides a JSON-RPC 2.0 server that exposes colour extraction
// through the MCP protocol, so MCP-compatible clients can ask for the palette
// or dominant colour of an image.
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
// Palette Extraction:
//   - image_palette: Representative colours, largest cluster first
//   - image_dominant_color: The single most prominent colour
//
// Basic Image Information:
//   - image_load: Dimensions, format and size from the image header
//   - image_dimensions: Width and height
//
// Every tool takes a "source": a file path, an http(s) URL or a data URL.
// Nothing is cached between calls; each call reads its source afresh.
//
// # Error Handling
//
// A source that cannot be read (missing file, unreachable URL, non-200
// response) is not a protocol error. Palette tools answer with ok=false, an
// empty palette or null colour, and the reason.
//
// Everything else is returned as a JSON-RPC error response:
//   - code -32602: invalid arguments (bad count, quality, color_type or region)
//   - code -32000: tool execution failure, such as bytes that do not decode as an image
//   - code -32601: unknown method
//
// # Usage
//
//	srv := server.New(config.Default(), logger)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    logger.Error("server error", "error", err)
//	}
package server
