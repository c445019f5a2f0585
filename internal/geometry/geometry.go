// Package geometry computes where content is drawn on a PDF page.
//
// All coordinates are PDF user space: points, origin at the bottom-left
// corner of the page, y growing upward.
//
// Functions:
//   - AnchoredRect: places fixed-size content at one of nine anchors with
//     a 50pt margin plus a user offset. Used by the overlay tool.
//   - BackgroundRect: the full page.
//   - FittedRect: scales content of a given aspect ratio into the page area
//     left after margins, under the Fit, Fill or Stretch policy. Used by
//     the image converter.
//
// Every function here is pure.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidImageDimensions is returned when content has no usable aspect ratio.
	ErrInvalidImageDimensions = errors.New("invalid image dimensions")
	// ErrInvalidMargin is returned when margins leave no room on the page.
	ErrInvalidMargin = errors.New("margin leaves no printable area")
)

// AnchorMargin is the distance kept from the page edge by non-centered anchors.
const AnchorMargin = 50.0

// Rect is a placement rectangle in the container's coordinate space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f %.2fx%.2f)", r.X, r.Y, r.Width, r.Height)
}

// HAnchor is the horizontal anchor of an overlay.
type HAnchor int

const (
	Left HAnchor = iota
	Center
	Right
)

func (h HAnchor) String() string {
	switch h {
	case Left:
		return "left"
	case Center:
		return "center"
	}
	return "right"
}

// VAnchor is the vertical anchor of an overlay.
type VAnchor int

const (
	Top VAnchor = iota
	Middle
	Bottom
)

func (v VAnchor) String() string {
	switch v {
	case Top:
		return "top"
	case Middle:
		return "middle"
	}
	return "bottom"
}

// ParseHAnchor accepts left, center (or centre) and right, ignoring case.
// An empty string means right.
func ParseHAnchor(s string) (HAnchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "center", "centre":
		return Center, nil
	case "", "right":
		return Right, nil
	}
	return Right, fmt.Errorf("unknown horizontal position %q", s)
}

// ParseVAnchor accepts top, middle and bottom, ignoring case.
// An empty string means bottom.
func ParseVAnchor(s string) (VAnchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, nil
	case "middle":
		return Middle, nil
	case "", "bottom":
		return Bottom, nil
	}
	return Bottom, fmt.Errorf("unknown vertical position %q", s)
}

// AnchoredRect places content of size contentW x contentH inside container.
// The result is not clamped: offsets may move the content partly or fully off
// the page.
func AnchoredRect(container PageSize, contentW, contentH float64, h HAnchor, v VAnchor, offsetX, offsetY float64) Rect {
	var x, y float64
	switch h {
	case Left:
		x = AnchorMargin
	case Center:
		x = (container.Width - contentW) / 2
	default:
		x = container.Width - contentW - AnchorMargin
	}
	switch v {
	case Bottom:
		y = AnchorMargin
	case Middle:
		y = (container.Height - contentH) / 2
	default:
		y = container.Height - contentH - AnchorMargin
	}
	return Rect{X: x + offsetX, Y: y + offsetY, Width: contentW, Height: contentH}
}

// BackgroundRect covers the whole container.
func BackgroundRect(container PageSize) Rect {
	return Rect{Width: container.Width, Height: container.Height}
}

// FitPolicy decides how content is scaled into the available area.
type FitPolicy int

const (
	// Fit scales to contain, preserving aspect ratio.
	Fit FitPolicy = iota
	// Fill scales to cover, preserving aspect ratio; content may overflow.
	Fill
	// Stretch uses the available area as is.
	Stretch
)

func (f FitPolicy) String() string {
	switch f {
	case Fit:
		return "fit"
	case Fill:
		return "fill"
	}
	return "stretch"
}

// ParseFitPolicy accepts fit, fill and stretch, ignoring case.
func ParseFitPolicy(s string) (FitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fit":
		return Fit, nil
	case "fill":
		return Fill, nil
	case "stretch":
		return Stretch, nil
	}
	return Fit, fmt.Errorf("unknown fit mode %q", s)
}

// AspectRatio returns w/h, failing for degenerate content.
func AspectRatio(w, h float64) (float64, error) {
	if !(w > 0) || !(h > 0) {
		return 0, fmt.Errorf("%w: %gx%g", ErrInvalidImageDimensions, w, h)
	}
	return w / h, nil
}

// FittedRect scales content with the given aspect ratio into page minus
// margin on every side, and centers it there.
//
// When the available area has exactly the content's aspect ratio, Fit and
// Fill both scale by width.
func FittedRect(page PageSize, contentAspect float64, fit FitPolicy, margin float64) (Rect, error) {
	if !(contentAspect > 0) || math.IsInf(contentAspect, 0) {
		return Rect{}, fmt.Errorf("%w: aspect ratio %v", ErrInvalidImageDimensions, contentAspect)
	}
	availW := page.Width - 2*margin
	availH := page.Height - 2*margin
	if margin < 0 || !(availW > 0) || !(availH > 0) {
		return Rect{}, fmt.Errorf("%w: %.2fpt on %s", ErrInvalidMargin, margin, page)
	}

	if fit == Stretch {
		return Rect{X: margin, Y: margin, Width: availW, Height: availH}, nil
	}

	availAspect := availW / availH
	var byHeight bool
	if fit == Fit {
		byHeight = availAspect > contentAspect
	} else {
		byHeight = availAspect < contentAspect
	}

	var w, h float64
	if byHeight {
		h = availH
		w = h * contentAspect
	} else {
		w = availW
		h = w / contentAspect
	}
	return Rect{
		X:      margin + (availW-w)/2,
		Y:      margin + (availH-h)/2,
		Width:  w,
		Height: h,
	}, nil
}

// Stacking orders an image layer relative to the original page content.
type Stacking int

const (
	// Above draws the layer over the original content.
	Above Stacking = iota
	// Below makes the layer the base; original content is drawn over it.
	Below
)

func (s Stacking) String() string {
	if s == Below {
		return "below"
	}
	return "above"
}

// ParseStacking accepts above/overlay and below/background, ignoring case.
func ParseStacking(s string) (Stacking, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "above", "overlay", "top":
		return Above, nil
	case "below", "background", "behind":
		return Below, nil
	}
	return Above, fmt.Errorf("unknown layer mode %q", s)
}
