package roadgraph

import (
	"github.com/pkg/errors"
)

var (
	// ErrIntersectionNotFound implies the NodeID is unknown or was removed
	ErrIntersectionNotFound = errors.New("intersection not found")

	// ErrRoadNotFound implies the RoadID is unknown, was removed or the two
	// intersections are not directly connected
	ErrRoadNotFound = errors.New("road not found")

	// ErrSelfLoop is returned when a road would start & end at the same intersection
	ErrSelfLoop = errors.New("road cannot connect an intersection to itself")

	// ErrDuplicateRoad is returned when two intersections are already connected
	ErrDuplicateRoad = errors.New("intersections already connected")

	// ErrDegenerateSegment is returned when a road would have (close to) no length
	ErrDegenerateSegment = errors.New("road has no length")

	// ErrOverlappingRoad is returned when a road would run along part of an existing one
	ErrOverlappingRoad = errors.New("road overlaps an existing road")

	// ErrInvalidGraph is returned by Validate when an internal invariant is broken
	ErrInvalidGraph = errors.New("road graph is inconsistent")

	// ErrInvalidConfig implies a setting is out of range
	ErrInvalidConfig = errors.New("invalid config")
)
