// Package road finds the drivable road surface in a single camera image and
// reduces it to an ordered list of centerline waypoints.
//
// The pipeline runs entirely in memory on one goroutine:
//
//  1. Smoothing: every pixel is replaced by the average of a hop-bounded
//     neighborhood sample (see Sample and Smooth).
//  2. Reference color: two probes near the bottom of the image are sampled and
//     averaged into the road color (see EstimateRoadColor).
//  3. Region growing: a Session flood-fills outward from two seeds near the
//     bottom edge, accepting neighbors that are close to the road color under
//     any of three criteria scaled by a strength value (see Thresholds).
//  4. Extraction: labeled rows are scanned bottom to top. Each row with enough
//     coverage yields one point at its mean x. A row that is much wider than the
//     row below it means the fill leaked off the road (see ExtractPoints).
//  5. Retry: the Processor repeats growth with an adjusted strength until the
//     extraction passes or the attempt budget runs out.
//
// # Coordinate System
//
// (0,0) is the top-left pixel, X grows rightward and Y grows downward. Points
// are returned nearest-first, so their Y values strictly decrease.
//
// # Outcomes
//
// Process returns one of three results:
//   - an Outcome with Status Completed, carrying the annotated image and points
//   - an Outcome with Status Exhausted when every attempt leaked
//   - an error wrapping ErrCriticalFailure when the strength fell below the
//     configured minimum, at which point the thresholds are too tight to see
//     anything
//
// # Labels
//
// By default labels live in a boolean plane beside the working grid. Setting
// Config.LabelMode to LabelSentinel instead paints the Sentinel color into the
// working grid and classifies pixels by color equality, which reproduces the
// historical marker-color output exactly.
package road
