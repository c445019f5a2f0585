package geometry

import (
	"fmt"
	"math"
	"strings"
)

// PointsPerMillimeter converts millimeters to PDF points (1/72 inch).
const PointsPerMillimeter = 2.83465

// PageSize is a page width and height in points.
type PageSize struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive and finite.
func (s PageSize) Valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Oriented returns the size for orientation o, treating s as the portrait
// value of a preset. Landscape swaps width and height.
func (s PageSize) Oriented(o Orientation) PageSize {
	if o == Landscape {
		return PageSize{Width: s.Height, Height: s.Width}
	}
	return s
}

func (s PageSize) String() string {
	return fmt.Sprintf("%.2fx%.2fpt", s.Width, s.Height)
}

// Orientation selects portrait or landscape pages.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// ParseOrientation accepts "portrait" or "landscape" (case-insensitive).
// An empty string means portrait.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	}
	return Portrait, fmt.Errorf("unknown orientation %q", s)
}

// Preset is a named portrait page size.
type Preset struct {
	Name string
	Size PageSize
}

// Presets lists the known page sizes in portrait orientation.
var Presets = []Preset{
	{Name: "Letter", Size: PageSize{Width: 612, Height: 792}},
	{Name: "A4", Size: PageSize{Width: 595.27, Height: 841.89}},
	{Name: "Legal", Size: PageSize{Width: 612, Height: 1008}},
	{Name: "A3", Size: PageSize{Width: 841.89, Height: 1190.55}},
	{Name: "A5", Size: PageSize{Width: 419.53, Height: 595.27}},
	{Name: "Tabloid", Size: PageSize{Width: 792, Height: 1224}},
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (PageSize, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p.Size, true
		}
	}
	return PageSize{}, false
}

// sizeTolerance is how far, in points, a page may deviate from a preset and
// still carry its name.
const sizeTolerance = 5

// NameForSize names the preset matching s in either orientation, or returns
// "Custom (WxHpt)".
func NameForSize(s PageSize) string {
	for _, p := range Presets {
		w, h := p.Size.Width, p.Size.Height
		if (near(s.Width, w) && near(s.Height, h)) || (near(s.Width, h) && near(s.Height, w)) {
			return p.Name
		}
	}
	return fmt.Sprintf("Custom (%.0fx%.0fpt)", s.Width, s.Height)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < sizeTolerance
}

// MillimetersToPoints converts a length in millimeters to points.
func MillimetersToPoints(mm float64) float64 {
	return mm * PointsPerMillimeter
}
