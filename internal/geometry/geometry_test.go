package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var letter = PageSize{Width: 612, Height: 792}

func TestAnchoredRect(t *testing.T) {
	tests := []struct {
		name string
		h    HAnchor
		v    VAnchor
		dx   float64
		dy   float64
		want Rect
	}{
		{"right bottom", Right, Bottom, 0, 0, Rect{X: 362, Y: 50, Width: 200, Height: 75}},
		{"left top", Left, Top, 0, 0, Rect{X: 50, Y: 667, Width: 200, Height: 75}},
		{"center middle", Center, Middle, 0, 0, Rect{X: 206, Y: 358.5, Width: 200, Height: 75}},
		{"offsets added", Left, Bottom, 10, -20, Rect{X: 60, Y: 30, Width: 200, Height: 75}},
		{"off page allowed", Left, Bottom, -200, -200, Rect{X: -150, Y: -150, Width: 200, Height: 75}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnchoredRect(letter, 200, 75, tt.h, tt.v, tt.dx, tt.dy)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackgroundRect(t *testing.T) {
	assert.Equal(t, Rect{Width: 612, Height: 792}, BackgroundRect(letter))
}

func TestFittedRectStretch(t *testing.T) {
	for _, aspect := range []float64{0.1, 0.5, 1, 1.7, 12} {
		got, err := FittedRect(letter, aspect, Stretch, 20)
		require.NoError(t, err)
		assert.Equal(t, Rect{X: 20, Y: 20, Width: 572, Height: 752}, got)
	}
}

func TestFittedRectFitStaysInside(t *testing.T) {
	const margin = 28.3465
	availW := letter.Width - 2*margin
	availH := letter.Height - 2*margin
	for _, aspect := range []float64{0.05, 0.3, 0.75, availW / availH, 1, 2, 40} {
		got, err := FittedRect(letter, aspect, Fit, margin)
		require.NoError(t, err)
		assert.LessOrEqual(t, got.Width, availW+1e-9, "aspect %v", aspect)
		assert.LessOrEqual(t, got.Height, availH+1e-9, "aspect %v", aspect)
		assert.InDelta(t, aspect, got.Width/got.Height, 1e-9)
		// centered inside the available area
		assert.InDelta(t, letter.Width, 2*got.X+got.Width, 1e-9)
		assert.InDelta(t, letter.Height, 2*got.Y+got.Height, 1e-9)
	}
}

func TestFittedRectFillCovers(t *testing.T) {
	const margin = 10.0
	availW := letter.Width - 2*margin
	availH := letter.Height - 2*margin
	for _, aspect := range []float64{0.05, 0.3, 0.75, availW / availH, 1, 2, 40} {
		got, err := FittedRect(letter, aspect, Fill, margin)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Width, availW-1e-9, "aspect %v", aspect)
		assert.GreaterOrEqual(t, got.Height, availH-1e-9, "aspect %v", aspect)
		assert.InDelta(t, aspect, got.Width/got.Height, 1e-9)
	}
}

func TestFittedRectExactAspectScalesByWidth(t *testing.T) {
	page := PageSize{Width: 400, Height: 200}
	for _, fit := range []FitPolicy{Fit, Fill} {
		got, err := FittedRect(page, 2, fit, 0)
		require.NoError(t, err)
		assert.Equal(t, Rect{Width: 400, Height: 200}, got)
	}
}

func TestFittedRectErrors(t *testing.T) {
	_, err := FittedRect(letter, 0, Fit, 0)
	assert.ErrorIs(t, err, ErrInvalidImageDimensions)

	_, err = AspectRatio(100, 0)
	assert.ErrorIs(t, err, ErrInvalidImageDimensions)

	_, err = FittedRect(letter, 1, Fit, 400)
	assert.ErrorIs(t, err, ErrInvalidMargin)
}

func TestPresetsAndNames(t *testing.T) {
	a4, ok := LookupPreset("a4")
	require.True(t, ok)
	assert.Equal(t, PageSize{Width: 841.89, Height: 595.27}, a4.Oriented(Landscape))
	assert.Equal(t, a4, a4.Oriented(Portrait))

	assert.Equal(t, "Letter", NameForSize(PageSize{Width: 612, Height: 792}))
	assert.Equal(t, "A4", NameForSize(PageSize{Width: 842, Height: 595}))
	assert.Equal(t, "Custom (300x400pt)", NameForSize(PageSize{Width: 300, Height: 400}))

	_, ok = LookupPreset("B7")
	assert.False(t, ok)
}

func TestParsers(t *testing.T) {
	h, err := ParseHAnchor("Center")
	require.NoError(t, err)
	assert.Equal(t, Center, h)

	v, err := ParseVAnchor("top")
	require.NoError(t, err)
	assert.Equal(t, Top, v)

	s, err := ParseStacking("Background")
	require.NoError(t, err)
	assert.Equal(t, Below, s)

	f, err := ParseFitPolicy("FILL")
	require.NoError(t, err)
	assert.Equal(t, Fill, f)

	_, err = ParseHAnchor("sideways")
	assert.Error(t, err)
	assert.InDelta(t, 28.3465, MillimetersToPoints(10), 1e-9)
}
