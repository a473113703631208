// Package server implements the MCP (Model Context Protocol) server for the
// bounding-box estimator.
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
// Estimation:
//   - bbox_estimate: Best single box, absolute and normalised
//   - bbox_analyze: Stage-by-stage report of one estimate
//
// Visual checks:
//   - bbox_annotate: Image with the estimated box drawn on it
//   - bbox_crop: The estimated box cut out of the image
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// # Image Caching
//
// Images are cached by path for the lifetime of the process and shared
// between the estimator and the information tools.
//
// # Error Handling
//
// Unlike the estimate-bbox command, a missing or undecodable image is a tool
// error here. Tool execution errors are returned as JSON-RPC error responses
// with code -32000 and the Go error string in data. An image with no
// acceptable object is not an error for bbox_estimate (it returns an empty
// bboxes list) but is for bbox_crop.
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
