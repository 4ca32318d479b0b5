package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type properties = map[string]interface{}

// objectSchema builds a JSON schema for a tool's arguments. Every tool takes
// the frame path, so it is added here and always required.
func objectSchema(props properties, required ...string) map[string]interface{} {
	props["path"] = property("string", "Absolute path to the image file")
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

func property(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func maxWidthProperty() map[string]interface{} {
	return property("integer", "Downscale wider images to this width first. Default from server configuration")
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	includeImage := property("boolean", "Return the annotated image as base64 PNG. Default false")
	includeImage["default"] = false

	return []Tool{
		// Frame inspection
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image is cached for subsequent operations.",
			InputSchema: objectSchema(properties{}),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(properties{}),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color at a pixel as hex, RGB, RGBA and HSL.",
			InputSchema: objectSchema(properties{
				"x": property("integer", "X coordinate (0-based from left)"),
				"y": property("integer", "Y coordinate (0-based from top)"),
			}, "x", "y"),
		},

		// Road
		{
			Name:        "road_reference_color",
			Description: "Estimate the road color of a camera image by smoothing it and averaging two probe regions near the bottom. Returns the color with the probe and seed positions used.",
			InputSchema: objectSchema(properties{
				"max_width": maxWidthProperty(),
			}),
		},
		{
			Name:        "road_find",
			Description: "Find the road in a camera image. Returns the status, the centerline points from bottom to top, a simplified waypoint list, a summary of the road's offset and heading, and optionally the annotated image: red markers at each point with the simplified centerline in green.",
			InputSchema: objectSchema(properties{
				"output_path":        property("string", "Optional path to write the annotated PNG to"),
				"include_image":      includeImage,
				"max_width":          maxWidthProperty(),
				"simplify_tolerance": property("number", "Waypoint simplification tolerance in pixels. Default from server configuration"),
			}),
		},
		{
			Name:        "road_export_jcode",
			Description: "Find the road in a camera image and write its waypoints as a JCode program for a robot controller.",
			InputSchema: objectSchema(properties{
				"output_path": property("string", "Path of the JCode file to write"),
				"scale":       property("number", "Robot units per pixel. Default maps the image height to 8 units"),
				"speed":       property("number", "Travel speed. Default 5"),
				"min_spacing": property("number", "Minimum distance between waypoints in robot units"),
			}, "output_path"),
		},
	}
}
