package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/road-finder/internal/imaging"
	"github.com/ironsheep/road-finder/internal/road"
	"github.com/ironsheep/road-finder/internal/waypoint"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "road_find").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return replyError(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return replyError(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Road Operations
	case "road_reference_color":
		return s.handleRoadReferenceColor(args)
	case "road_find":
		return s.handleRoadFind(ctx, args)
	case "road_export_jcode":
		return s.handleRoadExportJCode(ctx, args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
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

// === Road Operation Handlers ===

// loadScaled loads path from the cache and downscales it to maxWidth, or to
// the configured width when maxWidth is nil.
func (s *Server) loadScaled(path string, maxWidth *int) (image.Image, float64, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, 0, err
	}
	width := s.settings.MaxWidth
	if maxWidth != nil {
		width = *maxWidth
	}
	img, scale := imaging.Downscale(img, width)
	return img, scale, nil
}

type roadReferenceColorArgs struct {
	Path     string `json:"path"`
	MaxWidth *int   `json:"max_width"`
}

// RoadReferenceColorResult reports the estimated road color.
type RoadReferenceColorResult struct {
	Color  *imaging.ColorResult `json:"color"`
	Pixel  string               `json:"pixel"`
	Probes [2]image.Point       `json:"probes"`
	Seeds  [2]image.Point       `json:"seeds"`
	Scale  float64              `json:"scale"`
}

func (s *Server) handleRoadReferenceColor(args json.RawMessage) (interface{}, error) {
	var a roadReferenceColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, scale, err := s.loadScaled(a.Path, a.MaxWidth)
	if err != nil {
		return nil, err
	}

	cfg := s.settings.Road
	g := road.GridFromImage(img)
	if g.Width() == 0 || g.Height() == 0 {
		return nil, road.ErrEmptyImage
	}
	px := road.EstimateRoadColor(road.Smooth(g, cfg.SmoothRadius), cfg.ProbeRadius)
	return &RoadReferenceColorResult{
		Color:  imaging.DescribeColor(px.NRGBA()),
		Pixel:  px.String(),
		Probes: road.ProbePoints(g.Width(), g.Height()),
		Seeds:  road.Seeds(g.Width(), g.Height()),
		Scale:  scale,
	}, nil
}

type roadFindArgs struct {
	Path              string   `json:"path"`
	OutputPath        string   `json:"output_path"`
	IncludeImage      bool     `json:"include_image"`
	MaxWidth          *int     `json:"max_width"`
	SimplifyTolerance *float64 `json:"simplify_tolerance"`
}

// RoadFindResult is the result of the road_find tool.
type RoadFindResult struct {
	Status    string                `json:"status"`
	Attempts  int                   `json:"attempts"`
	Strength  float64               `json:"strength"`
	Coverage  float64               `json:"coverage"`
	RoadColor *imaging.ColorResult  `json:"road_color"`
	Scale     float64               `json:"scale"`
	Points    []road.Point          `json:"points"`
	Waypoints []road.Point          `json:"waypoints"`
	Summary   *waypoint.Summary     `json:"summary,omitempty"`
	Saved     string                `json:"output_path,omitempty"`
	Image     *imaging.EncodedImage `json:"image,omitempty"`
}

func (s *Server) handleRoadFind(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a roadFindArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, scale, err := s.loadScaled(a.Path, a.MaxWidth)
	if err != nil {
		return nil, err
	}
	out, err := s.processor.Process(ctx, img)
	if err != nil {
		return nil, err
	}

	result := &RoadFindResult{
		Status:    out.Status.String(),
		Attempts:  out.Attempts,
		Strength:  out.Strength,
		Coverage:  out.Coverage,
		RoadColor: imaging.DescribeColor(out.RoadColor.NRGBA()),
		Scale:     scale,
	}
	if out.Status != road.Completed {
		return result, nil
	}

	tolerance := s.settings.Waypoints.SimplifyTolerance
	if a.SimplifyTolerance != nil {
		tolerance = *a.SimplifyTolerance
	}
	summary := waypoint.Summarize(out.Points, out.Image.Bounds().Dx(), s.settings.Waypoints.StraightTolerance)
	result.Points = out.Points
	result.Waypoints = waypoint.Simplify(out.Points, tolerance)
	result.Summary = &summary

	if a.OutputPath == "" && !a.IncludeImage {
		return result, nil
	}
	annotated, err := waypoint.Annotate(out.Image, result.Waypoints, tolerance)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.SavePNG(a.OutputPath, annotated); err != nil {
			return nil, err
		}
		result.Saved = a.OutputPath
	}
	if a.IncludeImage {
		if result.Image, err = imaging.EncodePNGBase64(annotated); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type roadExportJCodeArgs struct {
	Path       string   `json:"path"`
	OutputPath string   `json:"output_path"`
	Scale      *float64 `json:"scale"`
	Speed      *float64 `json:"speed"`
	MinSpacing *float64 `json:"min_spacing"`
}

// RoadExportJCodeResult is the result of the road_export_jcode tool.
type RoadExportJCodeResult struct {
	OutputPath   string  `json:"output_path"`
	Instructions int     `json:"instructions"`
	Waypoints    int     `json:"waypoints"`
	Scale        float64 `json:"scale"`
}

func (s *Server) handleRoadExportJCode(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a roadExportJCodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, errors.New("output_path is required")
	}
	img, _, err := s.loadScaled(a.Path, nil)
	if err != nil {
		return nil, err
	}
	out, err := s.processor.Process(ctx, img)
	if err != nil {
		return nil, err
	}
	if out.Status != road.Completed {
		return nil, fmt.Errorf("road not found after %d attempts", out.Attempts)
	}

	b := out.Image.Bounds()
	wp := s.settings.Waypoints
	f := wp.Frame(b.Dx(), b.Dy())
	if a.Scale != nil {
		f.Scale = *a.Scale
	}
	if a.Speed != nil {
		f.Speed = *a.Speed
	}
	if a.MinSpacing != nil {
		f.MinSpacing = *a.MinSpacing
	}

	points := waypoint.Simplify(out.Points, wp.SimplifyTolerance)
	code := waypoint.ToJCode(points, f)
	if err := waypoint.SaveJCode(a.OutputPath, code); err != nil {
		return nil, err
	}
	return &RoadExportJCodeResult{
		OutputPath:   a.OutputPath,
		Instructions: len(code),
		Waypoints:    len(code) - 1,
		Scale:        f.Scale,
	}, nil
}
