// Package imaging holds the road finder's image collaborators: file decoding
// and PNG output, color reporting, downscaling, and the Annotator that draws
// waypoint markers and the centerline on a copy of a frame.
//
// Coordinates are 0-based pixels from the top-left corner, Y pointing down,
// the same convention the road package uses.
//
// Frames may be PNG, JPEG, GIF, BMP, TIFF or WebP; results are written as PNG.
// ImageCache is safe for concurrent use, an Annotator is not.
package imaging
