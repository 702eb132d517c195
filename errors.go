package pod

import "errors"

// Errors returned by accessors, the builder, and the structured parser.
// None of these are ever panics — every failure path returns one of these
// sentinels. A typed accessor leaves its outputs untouched on failure;
// ParseObject may already have bound earlier fields when it fails.
var (
	// ErrMalformed is returned when a header is truncated, a body falls
	// outside the addressable region, or a String body is missing its
	// terminating NUL.
	ErrMalformed = errors.New("pod: malformed value")

	// ErrKindMismatch is returned by a typed accessor when the value's
	// type id does not match, or its body is smaller than the kind's
	// minimum encoding.
	ErrKindMismatch = errors.New("pod: kind mismatch")

	// ErrMissingKey is returned by ParseObject when a required (non-optional)
	// template key is absent from the Object.
	ErrMissingKey = errors.New("pod: missing key")

	// ErrWrongObjectType is returned by ParseObject when the Object's declared
	// type does not match the template's expected type.
	ErrWrongObjectType = errors.New("pod: wrong object type")

	// ErrOverflow names a write that would have exceeded the destination
	// buffer's capacity. The Builder does not return it: overflow is
	// reported by Builder.Overflowed, and the builder keeps advancing its
	// logical offset so RequiredSize reports the capacity a retry would
	// need.
	ErrOverflow = errors.New("pod: buffer overflow")

	// ErrNotInside is the iteration sentinel returned once an Iterator has
	// stepped past the end of its region.
	ErrNotInside = errors.New("pod: not inside")

	// ErrNoOpenFrame is returned by Pop, Prop, and Control when the
	// builder has no open frame of the required kind.
	ErrNoOpenFrame = errors.New("pod: no open frame")

	// ErrFrameDepth is returned by a push when the builder's frame stack
	// is already at MaxFrameDepth.
	ErrFrameDepth = errors.New("pod: frame stack exhausted")

	// ErrArrayHeterogeneous is returned when a child emitted into an open
	// Array/Choice frame does not match the (size, type) of the frame's
	// first child.
	ErrArrayHeterogeneous = errors.New("pod: array/choice child kind mismatch")

	// ErrPendingValue is returned by Prop, Control, and Pop when a prior
	// Prop or Control call is still waiting for its value to be emitted.
	ErrPendingValue = errors.New("pod: property/control awaiting a value")
)
