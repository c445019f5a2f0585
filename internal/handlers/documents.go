package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/imagepdf"
	"go-pdftools/internal/merge"
	"go-pdftools/internal/metrics"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/session"
)

// SeparateArchiveName is the download name of a Separate conversion.
const SeparateArchiveName = "converted_images.zip"

func convertOptions(r *http.Request) (imagepdf.Options, error) {
	opts := imagepdf.DefaultOptions()
	var err error

	if name := strings.TrimSpace(r.FormValue("page_size")); name != "" {
		size, ok := geometry.LookupPreset(name)
		if !ok {
			return opts, fmt.Errorf("%w: unknown page size %q", errBadRequest, name)
		}
		opts.PageSize = size
	}
	if opts.Orientation, err = parsed(geometry.ParseOrientation(r.FormValue("orientation"))); err != nil {
		return opts, err
	}
	if opts.Fit, err = parsed(geometry.ParseFitPolicy(r.FormValue("fit"))); err != nil {
		return opts, err
	}
	if opts.Mode, err = parsed(imagepdf.ParseMode(r.FormValue("output"))); err != nil {
		return opts, err
	}
	mm, err := formFloat(r, "margin_mm", imagepdf.DefaultMarginMM)
	if err != nil {
		return opts, err
	}
	opts.Margin = geometry.MillimetersToPoints(mm)
	return opts, nil
}

// zipOutputs packs every output into one archive.
func zipOutputs(outputs []imagepdf.Output) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, o := range outputs {
		f, err := zw.Create(o.Name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(o.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertImages godoc
// @Summary      Convert images to PDF
// @Description  Draws each image onto its own page. Combined output is one PDF, separate output is a zip of one PDF per image
// @Tags         convert
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Produce      application/zip
// @Param        images       formData  file    true   "Images (PNG, JPEG, GIF, BMP, TIFF)"
// @Param        page_size    formData  string  false  "Letter, A4, Legal, A3, A5 or Tabloid (default A4)"
// @Param        orientation  formData  string  false  "portrait or landscape"
// @Param        fit          formData  string  false  "fit, fill or stretch"
// @Param        margin_mm    formData  number  false  "Page margin in millimeters (default 10)"
// @Param        output       formData  string  false  "combined or separate"
// @Success      200  {file}    file    "converted_images.pdf or converted_images.zip"
// @Failure      400  {string}  string  "Bad request"
// @Failure      503  {string}  string  "Another job is running"
// @Router       /api/convert [post]
func (h *APIHandler) ConvertImages(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	files, err := h.imageUploads(r, "images")
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts, err := convertOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var outputs []imagepdf.Output
	err = h.run(r, "convert", func(*session.Session) error {
		inputs := make([]imagepdf.Input, len(files))
		for i, f := range files {
			inputs[i] = imagepdf.Input{Name: f.Name, Data: f.Data}
		}
		outputs, err = imagepdf.New(nil).Assemble(inputs, opts)
		if err != nil {
			return err
		}
		metrics.AddImagesConverted(len(inputs))
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if opts.Mode == imagepdf.Combined {
		writeFile(w, "application/pdf", outputs[0].Name, outputs[0].Data)
		return
	}
	archive, err := zipOutputs(outputs)
	if err != nil {
		writeError(w, r, fmt.Errorf("pack results: %w", err))
		return
	}
	w.Header().Set("X-Document-Count", strconv.Itoa(len(outputs)))
	writeFile(w, "application/zip", SeparateArchiveName, archive)
}

// MergeDocuments godoc
// @Summary      Merge PDFs
// @Description  Concatenates the uploaded PDFs, optionally adding one bookmark per file
// @Tags         merge
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        pdfs       formData  file    true   "PDF files, in upload order"
// @Param        order      formData  string  false  "as_given, name_asc or name_desc"
// @Param        bookmarks  formData  bool    false  "Add a bookmark for each file"
// @Success      200  {file}    file    "merged_document.pdf"
// @Header       200  {int}     X-Total-Pages  "Pages in the merged document"
// @Failure      400  {string}  string  "Bad request"
// @Failure      503  {string}  string  "Another job is running"
// @Router       /api/merge [post]
func (h *APIHandler) MergeDocuments(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	files, err := h.pdfUploads(r, "pdfs")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := parsed(merge.ParseOrder(r.FormValue("order")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	bookmarks, err := formBool(r, "bookmarks")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var out bytes.Buffer
	var plan *merge.Plan
	err = h.run(r, "merge", func(*session.Session) error {
		sources := make([]merge.Source, len(files))
		for i, f := range files {
			doc, err := pdf.OpenBytes(f.Data, f.Name)
			if err != nil {
				return err
			}
			sources[i] = merge.Source{Name: f.Name, Doc: doc}
		}
		if plan, err = merge.New(nil).Merge(&out, sources, order, bookmarks); err != nil {
			return err
		}
		metrics.AddDocumentsMerged(len(sources))
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Pages", strconv.Itoa(plan.TotalPages))
	writeFile(w, "application/pdf", merge.OutputName, out.Bytes())
}

type inspectResponse struct {
	Documents  []pdf.Info `json:"documents"`
	TotalPages int        `json:"total_pages"`
}

// InspectDocuments godoc
// @Summary      Describe PDFs
// @Description  Returns the page count and the size of every page of each uploaded PDF
// @Tags         inspect
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdfs  formData  file  true  "PDF files"
// @Success      200  {object}  handlers.inspectResponse
// @Failure      400  {string}  string  "Bad request"
// @Router       /api/inspect [post]
func (h *APIHandler) InspectDocuments(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		writeError(w, r, err)
		return
	}
	files, err := h.pdfUploads(r, "pdfs")
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := inspectResponse{Documents: make([]pdf.Info, 0, len(files))}
	for _, f := range files {
		doc, err := pdf.OpenBytes(f.Data, f.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		info := doc.Info()
		resp.Documents = append(resp.Documents, info)
		resp.TotalPages += info.Pages
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
