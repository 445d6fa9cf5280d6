// Package bitmask provides pixel-accurate bit masks and shape analysis on
// them.
//
// # Overview
//
// A [Mask] is a dense two-dimensional bit matrix, the kind used for
// per-pixel collision tests. On top of the primitive bit operations
// (get/set, fill, invert, draw, erase, overlap) the package offers:
//
//   - connected components with 8-connectivity: [BoundingRects],
//     [Components], [LargestComponent], [ComponentAt]
//   - boundary tracing: [Outline]
//   - image moments: [Centroid], [Angle], [ComputeMoments]
//   - binary correlation: [Convolve], [ConvolveInto]
//
// # Quick Start
//
//	m := bitmask.MustParse(`
//	    ##....
//	    ##..##
//	    ....##
//	`)
//	rects, err := bitmask.BoundingRects(m)
//	// rects == [(0,0)-(2,2) (4,1)-(6,3)]
//
// # Coordinate System
//
// Origin (0,0) is the top-left bit, X grows right and Y grows down. Angles
// reported by [Angle] follow that convention.
//
// # Resources
//
// Every operation is synchronous and keeps no state between calls. Component
// operations label the whole mask on each call; their scratch buffers are
// owned by the call and returned to an [Analyzer]'s pool before it returns.
// An [Analyzer] bounds the mask size it accepts, failing with
// [ErrAllocation] instead of allocating past the limit. Constructors that
// size a new mask from their arguments ([New], [Mask.Scale], [Convolve])
// return [ErrAllocation] for dimensions whose storage would exceed 2^30
// words.
//
// Masks are not safe for concurrent mutation. Analyzing the same mask from
// several goroutines is safe as long as nobody writes to it.
package bitmask

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
