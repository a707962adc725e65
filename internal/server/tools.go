package server

import (
	"github.com/ironsheep/colorthief/internal/imaging"
	"github.com/ironsheep/colorthief/internal/palette"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperty describes the image argument shared by every tool.
func sourceProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Image to read: an absolute file path, an http(s) URL, or a data URL (data:image/png;base64,...)",
	}
}

func qualityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Sampling stride: 1 inspects every pixel, 10 roughly one in ten. Higher is faster and less precise. Default 10",
		"minimum":     1,
		"default":     palette.DefaultQuality,
	}
}

func colorTypeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Output shape: 'hex' for \"#rrggbb\" strings, 'array' for [r, g, b] triples. Default 'hex'",
		"enum":        []string{string(palette.ColorTypeHex), string(palette.ColorTypeArray)},
		"default":     string(palette.ColorTypeHex),
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional named region to sample instead of the whole image",
		"enum":        imaging.QuadrantNames,
	}
}

func maxDimensionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Optional: downscale so neither side exceeds this many pixels before sampling. Smaller images are left alone",
		"minimum":     1,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Palette Extraction
		{
			Name: "image_palette",
			Description: "Extract a palette of representative colors from an image using modified median cut quantization. " +
				"Colors are ordered by how much of the image they cover, largest first. Transparent and near-white pixels are ignored. " +
				"If the image cannot be read, the result has ok=false and an empty palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return (2-20, larger values are clamped). Fewer are returned when the image has fewer distinct colors. Default 10",
						"minimum":     palette.MinColorCount,
						"default":     palette.DefaultColorCount,
					},
					"quality":       qualityProperty(),
					"color_type":    colorTypeProperty(),
					"region":        regionProperty(),
					"max_dimension": maxDimensionProperty(),
				},
				"required": []string{"source"},
			},
		},
		{
			Name: "image_dominant_color",
			Description: "Get the single dominant color of an image: the largest cluster of a 5-color palette. " +
				"If the image cannot be read, or holds no opaque non-white pixels, color is null.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source":        sourceProperty(),
					"quality":       qualityProperty(),
					"color_type":    colorTypeProperty(),
					"region":        regionProperty(),
					"max_dimension": maxDimensionProperty(),
				},
				"required": []string{"source"},
			},
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Read an image header and return its dimensions, format and encoded size without decoding pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty(),
				},
				"required": []string{"source"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": sourceProperty(),
				},
				"required": []string{"source"},
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
