package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Mode selects the shape primitive the tracer draws with.
type Mode int

const (
	// ModeCombo mixes all shapes.
	ModeCombo Mode = iota
	// ModeTriangle draws triangles.
	ModeTriangle
	// ModeRect draws axis-aligned rectangles.
	ModeRect
	// ModeEllipse draws axis-aligned ellipses.
	ModeEllipse
	// ModeCircle draws circles.
	ModeCircle
	// ModeRotatedRect draws rotated rectangles.
	ModeRotatedRect
	// ModeBeziers draws quadratic bezier curves.
	ModeBeziers
	// ModeRotatedEllipse draws rotated ellipses.
	ModeRotatedEllipse
	// ModePolygon draws polygons.
	ModePolygon
)

var modeNames = [...]string{
	ModeCombo:          "combo",
	ModeTriangle:       "triangle",
	ModeRect:           "rect",
	ModeEllipse:        "ellipse",
	ModeCircle:         "circle",
	ModeRotatedRect:    "rotatedrect",
	ModeBeziers:        "beziers",
	ModeRotatedEllipse: "rotatedellipse",
	ModePolygon:        "polygon",
}

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if !m.Valid() {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

// Valid reports whether m is a known primitive mode.
func (m Mode) Valid() bool {
	return m >= ModeCombo && m <= ModePolygon
}

// ModeNames returns the mode names in numeric order.
func ModeNames() []string {
	return slices.Clone(modeNames[:])
}

// ParseMode accepts either a mode name or its numeric value.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Mode(n).Valid() {
		return Mode(n), nil
	}
	return 0, zerr.With(zerr.Wrap(ErrInvalidMode, "unknown mode"), "mode", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, zerr.With(zerr.Wrap(ErrInvalidMode, "cannot marshal mode"), "mode", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

const (
	// DefaultNumberOfPrimitives is the number of shapes drawn when none is configured.
	DefaultNumberOfPrimitives = 10
	// DefaultBlur is the gaussian blur standard deviation applied when none is configured.
	DefaultBlur = 1.0
)

// Options are the tuning parameters of a single preview generation.
type Options struct {
	NumberOfPrimitives int
	Blur               float64
	Mode               Mode
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		NumberOfPrimitives: DefaultNumberOfPrimitives,
		Blur:               DefaultBlur,
		Mode:               ModeCombo,
	}
}

// Validate checks that the options can be handed to a tracer.
func (o Options) Validate() error {
	if o.NumberOfPrimitives < 1 {
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "number of primitives must be positive"),
			"number_of_primitives", o.NumberOfPrimitives)
	}
	if o.Blur < 0 || math.IsNaN(o.Blur) || math.IsInf(o.Blur, 0) {
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "blur must be a finite non-negative number"), "blur", o.Blur)
	}
	if !o.Mode.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidMode, "unknown mode"), "mode", int(o.Mode))
	}
	return nil
}
