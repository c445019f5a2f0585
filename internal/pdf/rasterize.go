package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// RasterizePage renders the page at zero-based index so that the result is
// widthPx pixels wide.
func RasterizePage(data []byte, index, widthPx int) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if index < 0 || index >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", index+1, doc.NumPage())
	}
	bounds, err := doc.Bound(index)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d bounds: %w", index+1, err)
	}
	if bounds.Dx() <= 0 {
		return nil, fmt.Errorf("page %d has no width", index+1)
	}
	dpi := 72 * float64(widthPx) / float64(bounds.Dx())
	img, err := doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index+1, err)
	}
	return img, nil
}
