package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/overlay"
	"go-pdftools/internal/pagerange"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"
	"go-pdftools/internal/session"
)

// overlayRequest reads the overlay parameters of a form.
func overlayRequest(r *http.Request) (overlay.Request, error) {
	var req overlay.Request
	var err error

	if req.Pages.Mode, err = parsed(pagerange.ParseMode(r.FormValue("pages"))); err != nil {
		return req, err
	}
	req.Pages.Expr = r.FormValue("range")

	pl := &req.Placement
	if pl.Background, err = formBool(r, "background"); err != nil {
		return req, err
	}
	if pl.Horizontal, err = parsed(geometry.ParseHAnchor(r.FormValue("horizontal"))); err != nil {
		return req, err
	}
	if pl.Vertical, err = parsed(geometry.ParseVAnchor(r.FormValue("vertical"))); err != nil {
		return req, err
	}
	for key, dst := range map[string]*float64{
		"width":    &pl.Width,
		"height":   &pl.Height,
		"offset_x": &pl.OffsetX,
		"offset_y": &pl.OffsetY,
	} {
		if *dst, err = formFloat(r, key, 0); err != nil {
			return req, err
		}
	}

	// a background goes under the page content unless told otherwise
	req.Stacking = geometry.Above
	if pl.Background {
		req.Stacking = geometry.Below
	}
	if v := strings.TrimSpace(r.FormValue("layer")); v != "" {
		if req.Stacking, err = parsed(geometry.ParseStacking(v)); err != nil {
			return req, err
		}
	}
	if req.Transparency, err = parsed(raster.ParseTransparency(r.FormValue("transparency"))); err != nil {
		return req, err
	}
	return req, nil
}

// overlayInputs reads the PDF, the image and the parameters of an overlay form.
func (h *APIHandler) overlayInputs(w http.ResponseWriter, r *http.Request) (upload, upload, overlay.Request, error) {
	var req overlay.Request
	if err := h.parseForm(w, r); err != nil {
		return upload{}, upload{}, req, err
	}
	docs, err := h.pdfUploads(r, "pdf")
	if err != nil {
		return upload{}, upload{}, req, err
	}
	imgs, err := h.imageUploads(r, "image")
	if err != nil {
		return upload{}, upload{}, req, err
	}
	req, err = overlayRequest(r)
	return docs[0], imgs[0], req, err
}

// OverlayImage godoc
// @Summary      Add an image to PDF pages
// @Description  Composites an image over (or under) the selected pages of a PDF and returns the result
// @Tags         overlay
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        pdf           formData  file    true   "PDF file"
// @Param        image         formData  file    true   "Image (PNG, JPEG, GIF, BMP, TIFF)"
// @Param        pages         formData  string  false  "all, first, last or custom"
// @Param        range         formData  string  false  "Custom range, e.g. 2-4 or 1,3,5"
// @Param        background    formData  bool    false  "Cover the whole page"
// @Param        layer         formData  string  false  "above or below the page content"
// @Param        horizontal    formData  string  false  "left, center or right"
// @Param        vertical      formData  string  false  "top, middle or bottom"
// @Param        width         formData  number  false  "Image width in points"
// @Param        height        formData  number  false  "Image height in points"
// @Param        offset_x      formData  number  false  "Horizontal offset in points"
// @Param        offset_y      formData  number  false  "Vertical offset in points"
// @Param        transparency  formData  string  false  "preserve or opaque"
// @Success      200  {file}    file    "<name>_signed.pdf"
// @Failure      400  {string}  string  "Bad request"
// @Failure      500  {string}  string  "Composition failed"
// @Failure      503  {string}  string  "Another job is running"
// @Router       /api/overlay [post]
func (h *APIHandler) OverlayImage(w http.ResponseWriter, r *http.Request) {
	docUpload, imgUpload, req, err := h.overlayInputs(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var out []byte
	err = h.run(r, "overlay", func(s *session.Session) error {
		doc, err := pdf.OpenBytes(docUpload.Data, docUpload.Name)
		if err != nil {
			return err
		}
		img, err := raster.Decode(imgUpload.Data)
		if err != nil {
			return err
		}
		res, err := overlay.New(pdf.NewRenderer(s)).Composite(doc, img, req)
		if err != nil {
			return err
		}
		if out, err = doc.Bytes(); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		metrics.AddPagesComposited(len(res.Pages))
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, "application/pdf", overlay.OutputName(docUpload.Name), out)
}

// PreviewOverlay godoc
// @Summary      Preview image placement
// @Description  Renders the first page with the image drawn where it will be placed
// @Tags         overlay
// @Accept       multipart/form-data
// @Produce      image/png
// @Param        pdf         formData  file    true   "PDF file"
// @Param        image       formData  file    true   "Image"
// @Param        background  formData  bool    false  "Cover the whole page"
// @Param        horizontal  formData  string  false  "left, center or right"
// @Param        vertical    formData  string  false  "top, middle or bottom"
// @Param        width       formData  number  false  "Image width in points"
// @Param        height      formData  number  false  "Image height in points"
// @Param        offset_x    formData  number  false  "Horizontal offset in points"
// @Param        offset_y    formData  number  false  "Vertical offset in points"
// @Success      200  {file}    file    "preview.png"
// @Failure      400  {string}  string  "Bad request"
// @Router       /api/overlay/preview [post]
func (h *APIHandler) PreviewOverlay(w http.ResponseWriter, r *http.Request) {
	docUpload, imgUpload, req, err := h.overlayInputs(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var out []byte
	err = h.run(r, "preview", func(*session.Session) error {
		doc, err := pdf.OpenBytes(docUpload.Data, docUpload.Name)
		if err != nil {
			return err
		}
		if doc.PageCount() == 0 {
			return errEmptyPDF
		}
		size, err := doc.PageSize(0)
		if err != nil {
			return err
		}
		img, err := raster.Decode(imgUpload.Data)
		if err != nil {
			return err
		}
		canvas, err := overlay.NewPreviewer(h.Limits.PreviewWidth).Render(docUpload.Data, size, img, req.Placement)
		if err != nil {
			return err
		}
		out, err = raster.Encode(canvas, raster.PNG)
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, "image/png", "preview.png", out)
}
