// Package waypoint post-processes road centerline points for a robot: it
// summarizes where the road lies relative to the camera, thins the point list,
// and exports it as JCode, either to a file or streamed to a motion controller
// over a serial link.
//
// Pixel points are converted to robot units with the image's bottom-center as
// the origin, X to the right and Y pointing away from the camera.
package waypoint
