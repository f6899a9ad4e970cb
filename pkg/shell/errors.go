package shell

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every *InvalidParameterError.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError reports a violated trait or hyperparameter
// precondition. It is returned before any point is sampled.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidParameter) succeed.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(name string, value any, reason string) error {
	return &InvalidParameterError{Name: name, Value: value, Reason: reason}
}

// DegeneracyKind identifies which inner-surface safeguard fired.
type DegeneracyKind int

// Inner-surface safeguards, in the order they are checked.
const (
	// DegenerateAperture: the aperture offset is shorter than MinApertureNorm,
	// the offset is used unchanged.
	DegenerateAperture DegeneracyKind = iota
	// InvalidThickness: the thickness law produced NaN, Inf or a negative
	// value, the offset is scaled by 0.9.
	InvalidThickness
	// WallTooThick: thickness exceeds 90% of the offset length, the offset
	// is scaled by 0.1.
	WallTooThick
)

// String returns a short name for the kind.
func (k DegeneracyKind) String() string {
	switch k {
	case DegenerateAperture:
		return "degenerate_aperture"
	case InvalidThickness:
		return "invalid_thickness"
	case WallTooThick:
		return "wall_too_thick"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// NumericDegeneracyWarning records a recovered numeric degeneracy at one
// inner-surface sample. It is diagnostic only and never fails a call.
type NumericDegeneracyWarning struct {
	Kind      DegeneracyKind
	Ring      int
	Point     int
	Thickness float64
	Offset    float64 // length of the unthickened aperture offset
}

func (w NumericDegeneracyWarning) Error() string {
	return fmt.Sprintf("%s at ring %d point %d (thickness=%g, offset=%g)",
		w.Kind, w.Ring, w.Point, w.Thickness, w.Offset)
}
