// Package server implements the MCP (Model Context Protocol) server for the
// image transformation pipeline.
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
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color at pixel
//   - image_transform: Resize, filter and re-encode an image
//
// image_transform accepts the same options as the web form (resize_option,
// width, percentage, grayscale, sepia, format) with the same fallbacks. The
// encoded result is written to output_path when given, otherwise it is
// returned as base64 along with its dimensions, color mode and mean color.
//
// # Image Caching
//
// Decoded images are kept in a bounded LRU cache keyed by path, so repeated
// calls against the same file skip disk I/O and decoding. The cache size
// comes from the cache_entries configuration value.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
