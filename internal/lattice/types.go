package lattice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidResolution is returned when any axis has fewer than two
	// control points.
	ErrInvalidResolution = errors.New("lattice: resolution must be at least 2 on every axis")

	// ErrPointCount is returned when a grid's point slice does not match
	// its resolution.
	ErrPointCount = errors.New("lattice: point count does not match resolution")

	// ErrInvalidBounds is returned for non-finite or inverted boxes.
	ErrInvalidBounds = errors.New("lattice: invalid bounding box")

	// ErrUnknownInterpolation is returned by ParseInterpolation.
	ErrUnknownInterpolation = errors.New("lattice: unknown interpolation mode")

	// ErrUnknownAxis is returned by ParseAxis.
	ErrUnknownAxis = errors.New("lattice: unknown axis")
)

// Axis identifies one of the three world or local axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Valid reports whether a is X, Y or Z.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses "X", "Y" or "Z", ignoring case and surrounding space.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	return AxisX, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Interpolation is the smoothing mode applied along each lattice axis.
// Values carry the host application's key names so they round-trip
// through scene documents unchanged.
type Interpolation string

const (
	InterpolationLinear     Interpolation = "KEY_LINEAR"
	InterpolationCardinal   Interpolation = "KEY_CARDINAL"
	InterpolationCatmullRom Interpolation = "KEY_CATMULL_ROM"
	InterpolationBSpline    Interpolation = "KEY_BSPLINE"

	// DefaultInterpolation is used when no mode is supplied.
	DefaultInterpolation = InterpolationBSpline
)

// Interpolations lists every supported mode in display order.
var Interpolations = []Interpolation{
	InterpolationLinear,
	InterpolationCardinal,
	InterpolationCatmullRom,
	InterpolationBSpline,
}

// Valid reports whether m is one of the four supported modes.
func (m Interpolation) Valid() bool {
	switch m {
	case InterpolationLinear, InterpolationCardinal, InterpolationCatmullRom, InterpolationBSpline:
		return true
	}
	return false
}

// ParseInterpolation accepts either the key name ("KEY_BSPLINE") or a
// short form ("bspline", "catmull-rom").
func ParseInterpolation(s string) (Interpolation, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	norm = strings.TrimPrefix(norm, "KEY_")
	switch norm {
	case "LINEAR":
		return InterpolationLinear, nil
	case "CARDINAL":
		return InterpolationCardinal, nil
	case "CATMULL_ROM", "CATMULLROM":
		return InterpolationCatmullRom, nil
	case "BSPLINE", "B_SPLINE":
		return InterpolationBSpline, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}
