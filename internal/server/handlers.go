package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/image-transform/internal/imaging"
	"github.com/ironsheep/image-transform/internal/options"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_transform").
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
		debug("tool %s failed: %v", params.Name, err)
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
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_transform":
		return s.handleImageTransform(args)
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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Transformation Handler ===

// TransformResult is the image_transform response.
type TransformResult struct {
	*imaging.Result

	// MeanColor is the average color of the output as "#rrggbb".
	MeanColor string `json:"mean_color"`

	// Notices lists option fallbacks, such as an out-of-range percentage.
	Notices []string `json:"notices,omitempty"`

	// Size is the encoded length in bytes.
	Size int `json:"size_bytes"`

	// OutputPath is set when the image was written to disk.
	OutputPath string `json:"output_path,omitempty"`

	// Data holds the base64 encoded image when no output path was given.
	Data string `json:"data,omitempty"`
}

// handleImageTransform runs the pipeline on a cached image. Options go
// through the same parsing and fallbacks as the web form, so strings such
// as "50" are accepted where numbers are expected.
func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(args, &raw); err != nil {
		return nil, err
	}

	path, _ := raw["path"].(string)
	if path == "" {
		return nil, errors.New("path is required")
	}
	outputPath, _ := raw["output_path"].(string)
	delete(raw, "path")
	delete(raw, "output_path")

	form, err := options.Decode(raw)
	if err != nil {
		return nil, err
	}
	req, notices := form.Request(s.maxPercentage)

	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	result, err := imaging.Render(img, &buf, req)
	if err != nil {
		return nil, err
	}
	debug("transformed %s: %dx%d -> %dx%d %s", path,
		result.SourceWidth, result.SourceHeight, result.Width, result.Height, result.Format)

	out := &TransformResult{
		Result:    result,
		MeanColor: imaging.MeanColor(result.Raster).Hex,
		Notices:   notices,
		Size:      buf.Len(),
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		// A decode cached for outputPath no longer matches the file.
		s.cache.Evict(outputPath)
		out.OutputPath = outputPath
	} else {
		out.Data = base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	return out, nil
}
