package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/colorthief/internal/imaging"
	"github.com/ironsheep/colorthief/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_palette", "image_load").
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
// Invalid arguments return code -32602; other tool errors return -32000.
// An image that cannot be acquired is not an error: palette tools report it
// in the result with ok=false.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug("tool failed", "tool", params.Name, "error", err)
		if errors.Is(err, palette.ErrInvalidOption) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configured defaults for omitted parameters
//  3. Validates options before touching the source
//  4. Runs the extraction or inspection
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Palette Extraction
	case "image_palette":
		return s.handleImagePalette(ctx, args)
	case "image_dominant_color":
		return s.handleImageDominantColor(ctx, args)

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_dimensions":
		return s.handleImageDimensions(ctx, args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Result Types ===

// HSLColor is a colour in hue (0-360), saturation (0-100) and lightness (0-100).
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ColorDetail describes one palette entry in every notation.
type ColorDetail struct {
	Hex string        `json:"hex"`
	RGB palette.Color `json:"rgb"`
	HSL HSLColor      `json:"hsl"`
}

func detail(c palette.Color) ColorDetail {
	h, sat, l := c.HSL()
	return ColorDetail{Hex: c.Hex(), RGB: c, HSL: HSLColor{H: h, S: sat, L: l}}
}

// PaletteResult is returned by image_palette.
type PaletteResult struct {
	// OK is false when the image could not be acquired.
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Source string `json:"source"`

	// Palette holds the colours in the requested color_type.
	Palette interface{}   `json:"palette"`
	Colors  []ColorDetail `json:"colors"`
}

// DominantColorResult is returned by image_dominant_color.
type DominantColorResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Source string `json:"source"`

	// Color is nil when there is no dominant colour.
	Color  interface{}  `json:"color"`
	Detail *ColorDetail `json:"detail,omitempty"`
}

// === Palette Extraction Handlers ===

type sourceArgs struct {
	Source       string `json:"source"`
	Region       string `json:"region,omitempty"`
	MaxDimension int    `json:"max_dimension,omitempty"`
}

// pixelSource validates the source arguments and returns the descriptor and
// the thief to extract it with.
func (s *Server) pixelSource(a sourceArgs) (palette.Descriptor, *palette.Thief, error) {
	if a.Source == "" {
		return palette.Descriptor{}, nil, fmt.Errorf("%w: source is required", palette.ErrInvalidOption)
	}
	if a.MaxDimension < 0 {
		return palette.Descriptor{}, nil, fmt.Errorf("%w: max_dimension must be positive, got %d", palette.ErrInvalidOption, a.MaxDimension)
	}

	d := palette.Descriptor{Location: a.Source, MaxDimension: a.MaxDimension}
	if a.Region == "" {
		return d, s.thief, nil
	}
	if !imaging.ValidQuadrant(a.Region) {
		return palette.Descriptor{}, nil, fmt.Errorf("%w: unknown region %q (valid: %v)", palette.ErrInvalidOption, a.Region, imaging.QuadrantNames)
	}
	return d, palette.New(imaging.QuadrantSource{Loader: s.loader, Name: a.Region}, nil), nil
}

// options applies configured defaults to omitted quality and color type.
func (s *Server) options(quality int, colorType string) (palette.Options, error) {
	opts := s.cfg.Options()
	if quality != 0 {
		opts.Quality = quality
	}
	if colorType != "" {
		ct, err := palette.ParseColorType(colorType)
		if err != nil {
			return palette.Options{}, err
		}
		opts.ColorType = ct
	}
	return opts, nil
}

func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type imagePaletteArgs struct {
	sourceArgs
	Count     int    `json:"count"`
	Quality   int    `json:"quality"`
	ColorType string `json:"color_type"`
}

func (s *Server) handleImagePalette(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = s.cfg.ColorCount
	}
	opts, err := s.options(a.Quality, a.ColorType)
	if err != nil {
		return nil, err
	}
	count, opts, err := palette.Validate(a.Count, opts)
	if err != nil {
		return nil, err
	}

	d, thief, err := s.pixelSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	res, err := thief.FetchPalette(ctx, d, count, opts)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		s.logger.Warn("image not acquired", "source", d.String(), "reason", res.Reason)
	}

	colors := make([]ColorDetail, len(res.Palette))
	for i, c := range res.Palette {
		colors[i] = detail(c)
	}

	return &PaletteResult{
		OK:      res.OK,
		Reason:  reason(res.Reason),
		Source:  a.Source,
		Palette: res.Palette.Format(opts.ColorType),
		Colors:  colors,
	}, nil
}

type imageDominantColorArgs struct {
	sourceArgs
	Quality   int    `json:"quality"`
	ColorType string `json:"color_type"`
}

func (s *Server) handleImageDominantColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageDominantColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.options(a.Quality, a.ColorType)
	if err != nil {
		return nil, err
	}
	if _, opts, err = palette.Validate(palette.DominantColorCount, opts); err != nil {
		return nil, err
	}

	d, thief, err := s.pixelSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	res, err := thief.FetchColor(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		s.logger.Warn("image not acquired", "source", d.String(), "reason", res.Reason)
	}

	out := &DominantColorResult{
		OK:     res.OK,
		Reason: reason(res.Reason),
		Source: a.Source,
	}
	if res.Dominant != nil {
		c := *res.Dominant
		if opts.ColorType == palette.ColorTypeArray {
			out.Color = c.Array()
		} else {
			out.Color = c.Hex()
		}
		dd := detail(c)
		out.Detail = &dd
	}
	return out, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Source string `json:"source"`
}

// DimensionsResult is returned by image_dimensions.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) inspect(ctx context.Context, args json.RawMessage) (*imaging.ImageInfo, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		return nil, fmt.Errorf("%w: source is required", palette.ErrInvalidOption)
	}
	return s.loader.Inspect(ctx, palette.Descriptor{Location: a.Source})
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return s.inspect(ctx, args)
}

func (s *Server) handleImageDimensions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	info, err := s.inspect(ctx, args)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: info.Width, Height: info.Height}, nil
}
