package pdf

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"
	"testing"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/raster"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirScratch string

func (d dirScratch) CreateTemp(pattern string) (*os.File, error) {
	return os.CreateTemp(string(d), pattern)
}

func testImage(w, h int, alpha uint8) *raster.Image {
	px := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: alpha})
		}
	}
	mode := raster.ModeRGBA
	if alpha == 0xff {
		mode = raster.ModeRGB
	}
	return &raster.Image{Pixels: px, Width: w, Height: h, Mode: mode, MIME: "image/png"}
}

// buildPDF returns a document with one page per size.
func buildPDF(t *testing.T, sizes ...geometry.PageSize) []byte {
	t.Helper()
	book := NewBook()
	for _, s := range sizes {
		rect := geometry.Rect{X: 10, Y: 10, Width: 20, Height: 20}
		require.NoError(t, book.AddPage(s, testImage(4, 4, 0xff), rect, raster.Opaque))
	}
	var buf bytes.Buffer
	require.NoError(t, book.Write(&buf))
	return buf.Bytes()
}

func TestOpenReadsPerPageSizes(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	wide := geometry.PageSize{Width: 842, Height: 595}
	doc, err := OpenBytes(buildPDF(t, letter, wide), "mixed.pdf")
	require.NoError(t, err)

	assert.Equal(t, "mixed.pdf", doc.Name())
	require.Equal(t, 2, doc.PageCount())
	got, err := doc.PageSize(0)
	require.NoError(t, err)
	assert.InDelta(t, 612, got.Width, 0.01)
	assert.InDelta(t, 792, got.Height, 0.01)
	got, err = doc.PageSize(1)
	require.NoError(t, err)
	assert.InDelta(t, 842, got.Width, 0.01)

	_, err = doc.PageSize(2)
	assert.Error(t, err)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := OpenBytes([]byte("definitely not a pdf"), "junk.pdf")
	assert.ErrorIs(t, err, ErrDocumentParse)
}

func TestRendererAndMergeOnto(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	doc, err := OpenBytes(buildPDF(t, letter, letter, letter), "base.pdf")
	require.NoError(t, err)

	dir := t.TempDir()
	r := NewRenderer(dirScratch(dir))
	rect := geometry.AnchoredRect(letter, 200, 75, geometry.Right, geometry.Bottom, 0, 0)

	for _, stacking := range []geometry.Stacking{geometry.Above, geometry.Below} {
		layer, err := r.RenderPage(testImage(8, 3, 0x80), letter, rect, raster.Preserve)
		require.NoError(t, err)
		assert.Equal(t, 1, layer.PageCount())
		require.NoError(t, doc.MergeOnto(1, layer, stacking))
		require.NoError(t, layer.Close())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "layer files must be released")

	out, err := doc.Bytes()
	require.NoError(t, err)
	again, err := OpenBytes(out, "out.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, again.PageCount())
}

func solidImage(c color.NRGBA) *raster.Image {
	px := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			px.SetNRGBA(x, y, c)
		}
	}
	return &raster.Image{Pixels: px, Width: 4, Height: 4, Mode: raster.ModeRGB, MIME: "image/png"}
}

// rgbAt reads a pixel of a raster rendered at one pixel per point, with the
// point given in PDF coordinates (origin bottom-left).
func rgbAt(img image.Image, page geometry.PageSize, x, y float64) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(int(x), int(page.Height-y))).(color.NRGBA)
}

func TestMergeOntoStacking(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}

	// red square from (100,100) to (300,300), blue layer from (200,200) to (400,400)
	book := NewBook()
	require.NoError(t, book.AddPage(letter, solidImage(red), geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, raster.Opaque))
	var base bytes.Buffer
	require.NoError(t, book.Write(&base))

	tests := []struct {
		stacking    geometry.Stacking
		wantOverlap string
	}{
		{geometry.Above, "blue"},
		{geometry.Below, "red"},
	}
	for _, tt := range tests {
		t.Run(tt.stacking.String(), func(t *testing.T) {
			doc, err := OpenBytes(base.Bytes(), "base.pdf")
			require.NoError(t, err)
			layer, err := NewRenderer(dirScratch(t.TempDir())).RenderPage(solidImage(blue), letter,
				geometry.Rect{X: 200, Y: 200, Width: 200, Height: 200}, raster.Opaque)
			require.NoError(t, err)
			require.NoError(t, doc.MergeOnto(0, layer, tt.stacking))
			require.NoError(t, layer.Close())

			out, err := doc.Bytes()
			require.NoError(t, err)
			img, err := RasterizePage(out, 0, int(letter.Width))
			require.NoError(t, err)

			dominant := func(c color.NRGBA) string {
				switch {
				case c.R > 200 && c.B < 60:
					return "red"
				case c.B > 200 && c.R < 60:
					return "blue"
				case c.R > 200 && c.G > 200 && c.B > 200:
					return "white"
				}
				return "other"
			}
			assert.Equal(t, tt.wantOverlap, dominant(rgbAt(img, letter, 250, 250)), "overlap")
			assert.Equal(t, "red", dominant(rgbAt(img, letter, 150, 150)), "page only")
			assert.Equal(t, "blue", dominant(rgbAt(img, letter, 350, 350)), "layer only")
			assert.Equal(t, "white", dominant(rgbAt(img, letter, 500, 700)), "outside")
		})
	}
}

func TestMergeOntoRejectsBadInput(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	doc, err := OpenBytes(buildPDF(t, letter), "base.pdf")
	require.NoError(t, err)
	assert.Error(t, doc.MergeOnto(0, &Document{}, geometry.Above))

	layer, err := NewRenderer(dirScratch(t.TempDir())).RenderPage(testImage(2, 2, 0xff), letter, geometry.BackgroundRect(letter), raster.Opaque)
	require.NoError(t, err)
	defer layer.Close()
	assert.Error(t, doc.MergeOnto(5, layer, geometry.Above))
}

func TestJoinWithBookmarks(t *testing.T) {
	a4 := geometry.PageSize{Width: 595.27, Height: 841.89}
	parts := []io.ReadSeeker{
		bytes.NewReader(buildPDF(t, a4, a4, a4)),
		bytes.NewReader(buildPDF(t, a4, a4)),
	}
	var out bytes.Buffer
	err := Joiner{}.Join(&out, parts, []Bookmark{{Title: "first", PageIndex: 0}, {Title: "second", PageIndex: 3}})
	require.NoError(t, err)

	doc, err := OpenBytes(out.Bytes(), "merged.pdf")
	require.NoError(t, err)
	assert.Equal(t, 5, doc.PageCount())

	bms, err := pdfapi.Bookmarks(bytes.NewReader(out.Bytes()), nil)
	require.NoError(t, err)
	require.Len(t, bms, 2)
	assert.Equal(t, "first", bms[0].Title)
	assert.Equal(t, 1, bms[0].PageFrom)
	assert.Equal(t, "second", bms[1].Title)
	assert.Equal(t, 4, bms[1].PageFrom)
}

func TestJoinWithoutBookmarks(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	var out bytes.Buffer
	err := Joiner{}.Join(&out, []io.ReadSeeker{bytes.NewReader(buildPDF(t, letter))}, nil)
	require.NoError(t, err)

	doc, err := OpenBytes(out.Bytes(), "merged.pdf")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())

	assert.Error(t, Joiner{}.Join(&out, nil, nil))
}

func TestJoinWithoutBookmarksDropsInheritedOutline(t *testing.T) {
	letter := geometry.PageSize{Width: 612, Height: 792}
	var marked bytes.Buffer
	require.NoError(t, Joiner{}.Join(&marked, []io.ReadSeeker{bytes.NewReader(buildPDF(t, letter, letter))},
		[]Bookmark{{Title: "chapter", PageIndex: 1}}))

	var out bytes.Buffer
	err := Joiner{}.Join(&out, []io.ReadSeeker{bytes.NewReader(marked.Bytes()), bytes.NewReader(buildPDF(t, letter))}, nil)
	require.NoError(t, err)

	// an outline-free document may be reported as an error or as no entries
	bms, _ := pdfapi.Bookmarks(bytes.NewReader(out.Bytes()), nil)
	assert.Empty(t, bms)
}

func TestBookRejectsInvalidPages(t *testing.T) {
	book := NewBook()
	assert.Error(t, book.AddPage(geometry.PageSize{}, testImage(1, 1, 0xff), geometry.Rect{}, raster.Opaque))
	assert.Error(t, book.AddPage(geometry.PageSize{Width: 10, Height: 10}, nil, geometry.Rect{}, raster.Opaque))
	assert.Equal(t, 0, book.Pages())
	assert.Error(t, book.Write(io.Discard))
}
