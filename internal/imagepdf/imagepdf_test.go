package imagepdf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	px := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, px))
	return buf.Bytes()
}

type page struct {
	size geometry.PageSize
	img  *raster.Image
	rect geometry.Rect
	mode raster.Transparency
}

type fakeBook struct {
	pages    []page
	writeErr error
}

func (b *fakeBook) AddPage(size geometry.PageSize, img *raster.Image, rect geometry.Rect, mode raster.Transparency) error {
	b.pages = append(b.pages, page{size, img, rect, mode})
	return nil
}

func (b *fakeBook) Write(w io.Writer) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	_, err := io.WriteString(w, "pages:"+string(rune('0'+len(b.pages))))
	return err
}

func recordingFactory(books *[]*fakeBook) BookFactory {
	return func() Book {
		b := &fakeBook{}
		*books = append(*books, b)
		return b
	}
}

func TestAssembleCombined(t *testing.T) {
	var books []*fakeBook
	a := New(recordingFactory(&books))
	opts := DefaultOptions()
	opts.Orientation = geometry.Landscape

	inputs := []Input{
		{Name: "wide.png", Data: pngBytes(t, 400, 100, color.NRGBA{R: 255, A: 255})},
		{Name: "tall.png", Data: pngBytes(t, 100, 400, color.NRGBA{B: 255, A: 255})},
	}
	out, err := a.Assemble(inputs, opts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, CombinedName, out[0].Name)
	assert.Equal(t, "pages:2", string(out[0].Data))

	require.Len(t, books, 1)
	pages := books[0].pages
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.Equal(t, 841.89, p.size.Width)
		assert.Equal(t, 595.27, p.size.Height)
		assert.Equal(t, raster.Opaque, p.mode)
	}
	margin := geometry.MillimetersToPoints(DefaultMarginMM)
	assert.InDelta(t, 841.89-2*margin, pages[0].rect.Width, 1e-9)
	assert.InDelta(t, 595.27-2*margin, pages[1].rect.Height, 1e-9)
	assert.Equal(t, 400, pages[0].img.Width)
}

func TestAssembleFlattensTransparency(t *testing.T) {
	var books []*fakeBook
	inputs := []Input{{Name: "logo.png", Data: pngBytes(t, 4, 4, color.NRGBA{})}}
	_, err := New(recordingFactory(&books)).Assemble(inputs, DefaultOptions())
	require.NoError(t, err)

	img := books[0].pages[0].img
	assert.Equal(t, raster.ModeRGB, img.Mode)
	r, g, b, a := img.Pixels.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestAssembleSeparate(t *testing.T) {
	var books []*fakeBook
	opts := DefaultOptions()
	opts.Mode = Separate
	inputs := []Input{
		{Name: "scan 1.jpg.png", Data: pngBytes(t, 10, 10, color.NRGBA{A: 255})},
		{Name: "dup.png", Data: pngBytes(t, 10, 10, color.NRGBA{A: 255})},
		{Name: "photos/dup.png", Data: pngBytes(t, 10, 10, color.NRGBA{A: 255})},
	}
	out, err := New(recordingFactory(&books)).Assemble(inputs, opts)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "scan_1.jpg.pdf", out[0].Name)
	assert.Equal(t, "dup.pdf", out[1].Name)
	assert.Equal(t, "dup (2).pdf", out[2].Name)
	assert.Len(t, books, 3)
	for _, b := range books {
		assert.Len(t, b.pages, 1)
	}
}

func TestAssemblePreconditions(t *testing.T) {
	var books []*fakeBook
	a := New(recordingFactory(&books))

	_, err := a.Assemble(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoInputImages)

	opts := DefaultOptions()
	opts.Margin = 400
	_, err = a.Assemble([]Input{{Name: "x.png", Data: []byte("not decoded")}}, opts)
	assert.ErrorIs(t, err, geometry.ErrInvalidMargin)

	_, err = a.Assemble([]Input{
		{Name: "ok.png", Data: pngBytes(t, 2, 2, color.NRGBA{A: 255})},
		{Name: "notes.txt", Data: []byte("hello")},
	}, DefaultOptions())
	assert.ErrorIs(t, err, raster.ErrUnsupportedImage)
	assert.Contains(t, err.Error(), "notes.txt")
	assert.Empty(t, books, "no document is started before every input decodes")
}

func TestAssembleWriteFailure(t *testing.T) {
	a := New(func() Book { return &fakeBook{writeErr: errors.New("disk full")} })
	_, err := a.Assemble([]Input{{Name: "a.png", Data: pngBytes(t, 2, 2, color.NRGBA{A: 255})}}, DefaultOptions())
	assert.EqualError(t, err, "disk full")
}

func TestAssembleRealDocument(t *testing.T) {
	inputs := []Input{
		{Name: "a.png", Data: pngBytes(t, 30, 20, color.NRGBA{G: 200, A: 255})},
		{Name: "b.png", Data: pngBytes(t, 20, 30, color.NRGBA{R: 200, A: 128})},
		{Name: "c.png", Data: pngBytes(t, 5, 5, color.NRGBA{B: 200, A: 255})},
	}
	opts := DefaultOptions()
	opts.Fit = geometry.Fill
	out, err := New(nil).Assemble(inputs, opts)
	require.NoError(t, err)

	doc, err := pdf.OpenBytes(out[0].Data, out[0].Name)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())
	size, err := doc.PageSize(2)
	require.NoError(t, err)
	assert.InDelta(t, 595.27, size.Width, 0.01)
	assert.InDelta(t, 841.89, size.Height, 0.01)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Separate")
	require.NoError(t, err)
	assert.Equal(t, Separate, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Combined, m)
	_, err = ParseMode("zip")
	assert.Error(t, err)
}
