package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/bbox-estimator/internal/geometry"
	"github.com/ironsheep/bbox-estimator/internal/imaging"
	"github.com/ironsheep/bbox-estimator/internal/report"
)

// ErrNoBox is returned by tools that need a detected box when none was found.
var ErrNoBox = errors.New("no bounding box found")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bbox_estimate").
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

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "bbox_estimate":
		return s.handleBBoxEstimate(args)
	case "bbox_analyze":
		return s.handleBBoxAnalyze(args)
	case "bbox_annotate":
		return s.handleBBoxAnnotate(args)
	case "bbox_crop":
		return s.handleBBoxCrop(args)

	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, errors.New("path is required")
	}
	return a, nil
}

// === Estimation Handlers ===

// estimateResult is the bbox_estimate payload.
type estimateResult struct {
	Path           string                 `json:"path"`
	Width          int                    `json:"width"`
	Height         int                    `json:"height"`
	Success        bool                   `json:"success"`
	BBoxes         []geometry.Box         `json:"bboxes"`
	RelativeBBoxes []geometry.RelativeBox `json:"relative_bboxes"`
}

func (s *Server) handleBBoxEstimate(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.est.Load(a.Path)
	if err != nil {
		return nil, err
	}

	result := s.est.EstimateImage(img)
	resp := report.FromResult(result)
	b := img.Bounds()
	return &estimateResult{
		Path:           a.Path,
		Width:          b.Dx(),
		Height:         b.Dy(),
		Success:        resp.Success,
		BBoxes:         resp.BBoxes,
		RelativeBBoxes: report.RelativeBoxes(result, b.Dx(), b.Dy()),
	}, nil
}

func (s *Server) handleBBoxAnalyze(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.est.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.est.Analyze(img)
}

type bboxAnnotateArgs struct {
	Path       string `json:"path"`
	Color      string `json:"color"`
	Thickness  int    `json:"thickness"`
	ShowLabels *bool  `json:"show_labels"`
}

func (s *Server) handleBBoxAnnotate(args json.RawMessage) (interface{}, error) {
	var a bboxAnnotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = imaging.DefaultBoxColor
	}
	if a.Thickness == 0 {
		a.Thickness = 2
	}
	showLabels := true
	if a.ShowLabels != nil {
		showLabels = *a.ShowLabels
	}

	img, err := s.est.Load(a.Path)
	if err != nil {
		return nil, err
	}
	resp := report.FromResult(s.est.EstimateImage(img))
	return imaging.Annotate(img, resp.BBoxes, a.Color, a.Thickness, showLabels)
}

type bboxCropArgs struct {
	Path    string  `json:"path"`
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleBBoxCrop(args json.RawMessage) (interface{}, error) {
	var a bboxCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	img, err := s.est.Load(a.Path)
	if err != nil {
		return nil, err
	}
	result := s.est.EstimateImage(img)
	if !result.Found {
		return nil, fmt.Errorf("%s: %w", a.Path, ErrNoBox)
	}
	return imaging.CropBox(img, *result.Box, a.Padding, a.Scale)
}

// === Basic Image Information Handlers ===

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}
