package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeTransparentPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	// (1,0) stays fully transparent

	img, err := Decode(encodePNG(t, src))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, ModeRGBA, img.Mode)
	assert.Equal(t, "image/png", img.MIME)
	assert.True(t, img.HasTransparency())

	flat := Flatten(img)
	assert.Equal(t, ModeRGB, flat.Mode)
	assert.False(t, flat.HasTransparency())
	r, g, b, a := flat.Pixels.At(1, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
	r, g, b, _ = flat.Pixels.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestDecodeModes(t *testing.T) {
	opaque := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := range opaque.Pix {
		opaque.Pix[i] = 0xff
	}
	img, err := Decode(encodePNG(t, opaque))
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, img.Mode)

	gray := image.NewGray(image.Rect(0, 0, 3, 3))
	img, err = Decode(encodePNG(t, gray))
	require.NoError(t, err)
	assert.Equal(t, ModeGray, img.Mode)
	assert.Equal(t, ModeRGB, Flatten(img).Mode)

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, opaque, nil))
	img, err = Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ModeRGB, img.Mode)
	assert.Equal(t, "image/jpeg", img.MIME)

	buf.Reset()
	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), palette.Plan9)
	require.NoError(t, gif.Encode(&buf, pal, nil))
	img, err = Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ModePalette, img.Mode)
	assert.True(t, img.HasTransparency())
}

func TestDecodeRejectsNonImages(t *testing.T) {
	_, err := Decode([]byte("%PDF-1.7\n"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	assert.False(t, IsSupported([]byte("hello")))
}

func TestEncodeAndResize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 20))
	out, err := Encode(src, JPEG)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", Detect(out))

	out, err = Encode(src, PNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", Detect(out))

	small := Resize(src, 5, 0)
	assert.Equal(t, image.Rect(0, 0, 5, 1), small.Bounds())
}

func TestParseTransparency(t *testing.T) {
	tr, err := ParseTransparency("opaque")
	require.NoError(t, err)
	assert.Equal(t, Opaque, tr)
	tr, err = ParseTransparency("")
	require.NoError(t, err)
	assert.Equal(t, Preserve, tr)
	_, err = ParseTransparency("glass")
	assert.Error(t, err)
}
