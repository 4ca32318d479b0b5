// Package server exposes road finding to MCP (Model Context Protocol) clients.
//
// Requests arrive as line-delimited JSON-RPC 2.0 on stdin and responses are
// written one per line to stdout. The methods are initialize, tools/list,
// tools/call and ping.
//
// Tools:
//   - image_load, image_dimensions, image_sample_color: inspect a frame
//   - road_reference_color: the averaged color under the two probe points
//   - road_find: run segmentation and return the centerline, its summary and
//     optionally the annotated frame
//   - road_export_jcode: write the centerline as a JCode program
//
// Frames wider than max_width are downscaled first. Every coordinate in a
// result refers to the downscaled frame and the factor is returned as scale.
//
// Decoded frames are cached by path for the life of the process. Tool
// failures, including a critical segmentation failure, are JSON-RPC errors
// with code -32000; a road that was not found is reported as status
// "exhausted" instead.
package server
