package overlay

import (
	"fmt"
	"image"
	"image/color"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// DefaultPreviewWidth is the preview width in pixels when none is set.
const DefaultPreviewWidth = 600

const (
	backgroundBlend = 0.3
	outlineWidth    = 2
)

var (
	outlineColor = color.NRGBA{R: 255, A: 255}
	borderColor  = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	gridColor    = color.NRGBA{R: 211, G: 211, B: 211, A: 255}
)

// Rasterizer renders page index of a PDF at the given pixel width.
type Rasterizer func(data []byte, index, widthPx int) (image.Image, error)

// Previewer draws where an overlay will land on the first page.
type Previewer struct {
	Rasterize Rasterizer
	Width     int
}

func NewPreviewer(width int) *Previewer {
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	return &Previewer{Rasterize: pdf.RasterizePage, Width: width}
}

// Render returns the first page of data with img drawn at its placement.
// When the page cannot be rasterized a blank page with a grid is used.
func (p *Previewer) Render(data []byte, page geometry.PageSize, img *raster.Image, pl Placement) (*image.NRGBA, error) {
	if !page.Valid() {
		return nil, fmt.Errorf("invalid page size %s", page)
	}
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, geometry.ErrInvalidImageDimensions
	}
	if err := pl.validate(); err != nil {
		return nil, err
	}

	canvas := p.pageCanvas(data, page)
	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()
	scale := float64(width) / page.Width

	if pl.Background {
		layer := raster.Resize(img.Pixels, width, height)
		return imaging.Overlay(canvas, layer, image.Pt(0, 0), backgroundBlend), nil
	}

	rect := pl.Rect(page)
	x := int(rect.X * scale)
	y := int((page.Height - rect.Y - rect.Height) * scale)
	w := int(rect.Width * scale)
	h := int(rect.Height * scale)
	layer := raster.Resize(img.Pixels, w, h)
	canvas = imaging.Overlay(canvas, layer, image.Pt(x, y), 1.0)
	strokeRect(canvas, image.Rect(x, y, x+w, y+h), outlineWidth, outlineColor)
	return canvas, nil
}

func (p *Previewer) pageCanvas(data []byte, page geometry.PageSize) *image.NRGBA {
	width := p.Width
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	if p.Rasterize != nil && len(data) > 0 {
		px, err := p.Rasterize(data, 0, width)
		if err == nil {
			return imaging.Clone(px)
		}
		log.Warn().Err(err).Msg("page preview unavailable, drawing blank page")
	}

	height := max(int(float64(width)*page.Height/page.Width), 1)
	canvas := imaging.New(width, height, color.White)
	strokeRect(canvas, canvas.Bounds(), 2, borderColor)
	for i := 1; i < 4; i++ {
		y := height * i / 4
		fillRect(canvas, image.Rect(0, y, width, y+1), gridColor)
		x := width * i / 4
		fillRect(canvas, image.Rect(x, 0, x+1, height), gridColor)
	}
	return canvas
}

// strokeRect draws the border of r with the given line width, clipped to
// the canvas.
func strokeRect(dst *image.NRGBA, r image.Rectangle, width int, c color.NRGBA) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func fillRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, y, c)
		}
	}
}
