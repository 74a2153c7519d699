package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and color mode. The decoded image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Color
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Transformation
		{
			Name:        "image_transform",
			Description: "Resize an image, optionally apply grayscale and sepia filters, and encode it as JPEG, PNG or GIF. The result is written to output_path, or returned as base64 when output_path is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"resize_option": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"width", "percent", "none"},
						"description": "How to resize: to a target width keeping aspect ratio, by percentage, or not at all (default width)",
						"default":     "width",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels for resize_option=width. Omit to keep the original size.",
					},
					"percentage": map[string]interface{}{
						"type":        "integer",
						"description": "Scale factor for resize_option=percent (default 100)",
						"default":     100,
					},
					"grayscale": map[string]interface{}{
						"type":        "boolean",
						"description": "Convert to grayscale",
						"default":     false,
					},
					"sepia": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply a sepia tone",
						"default":     false,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"JPEG", "PNG", "GIF"},
						"description": "Output format (default JPEG)",
						"default":     "JPEG",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the encoded image to",
					},
				},
				"required": []string{"path"},
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
