package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-pdftools/internal/geometry"
	"go-pdftools/internal/imagepdf"
	"go-pdftools/internal/merge"
	"go-pdftools/internal/overlay"
	"go-pdftools/internal/pagerange"
	"go-pdftools/internal/pdf"
	"go-pdftools/internal/raster"
	"go-pdftools/internal/session"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// withSession runs fn inside one session of the scratch directory.
func withSession(c *cli.Context, fn func(s *session.Session) error) error {
	sm, err := session.NewSessionManager(c.String("scratch-dir"))
	if err != nil {
		return err
	}
	s, err := sm.Begin(c.Context)
	if err != nil {
		return err
	}
	defer sm.End(s)
	return fn(s)
}

func placementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "pdf", Usage: "input PDF", Required: true},
		&cli.StringFlag{Name: "image", Usage: "image to place", Required: true},
		&cli.BoolFlag{Name: "background", Usage: "cover the whole page"},
		&cli.StringFlag{Name: "horizontal", Usage: "left, center or right", Value: "right"},
		&cli.StringFlag{Name: "vertical", Usage: "top, middle or bottom", Value: "bottom"},
		&cli.Float64Flag{Name: "width", Usage: "image width in points (0 picks a size from the page)"},
		&cli.Float64Flag{Name: "height", Usage: "image height in points (0 picks a size from the page)"},
		&cli.Float64Flag{Name: "offset-x", Usage: "horizontal offset in points"},
		&cli.Float64Flag{Name: "offset-y", Usage: "vertical offset in points"},
	}
}

func placementFrom(c *cli.Context) (overlay.Placement, error) {
	h, err := geometry.ParseHAnchor(c.String("horizontal"))
	if err != nil {
		return overlay.Placement{}, err
	}
	v, err := geometry.ParseVAnchor(c.String("vertical"))
	if err != nil {
		return overlay.Placement{}, err
	}
	return overlay.Placement{
		Background: c.Bool("background"),
		Horizontal: h,
		Vertical:   v,
		Width:      c.Float64("width"),
		Height:     c.Float64("height"),
		OffsetX:    c.Float64("offset-x"),
		OffsetY:    c.Float64("offset-y"),
	}, nil
}

func readImage(path string) (*raster.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := raster.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func overlayCommand() *cli.Command {
	flags := append(placementFlags(),
		&cli.StringFlag{Name: "pages", Usage: "all, first, last or custom", Value: "all"},
		&cli.StringFlag{Name: "range", Usage: "custom page range, e.g. 1,3-5"},
		&cli.StringFlag{Name: "layer", Usage: "above or below the page content (default: below for a background)"},
		&cli.StringFlag{Name: "transparency", Usage: "preserve or opaque", Value: "preserve"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default <name>_signed.pdf next to the input)"},
	)
	return &cli.Command{
		Name:  "overlay",
		Usage: "place an image on selected pages of a PDF",
		Flags: flags,
		Action: func(c *cli.Context) error {
			pl, err := placementFrom(c)
			if err != nil {
				return err
			}
			mode, err := pagerange.ParseMode(c.String("pages"))
			if err != nil {
				return err
			}
			req := overlay.Request{
				Pages:     pagerange.Selection{Mode: mode, Expr: c.String("range")},
				Placement: pl,
				Stacking:  geometry.Above,
			}
			if pl.Background {
				req.Stacking = geometry.Below
			}
			if c.IsSet("layer") {
				if req.Stacking, err = geometry.ParseStacking(c.String("layer")); err != nil {
					return err
				}
			}
			if req.Transparency, err = raster.ParseTransparency(c.String("transparency")); err != nil {
				return err
			}

			in := c.String("pdf")
			out := c.String("out")
			if out == "" {
				out = filepath.Join(filepath.Dir(in), overlay.OutputName(filepath.Base(in)))
			}

			return withSession(c, func(s *session.Session) error {
				doc, err := pdf.OpenFile(in)
				if err != nil {
					return err
				}
				img, err := readImage(c.String("image"))
				if err != nil {
					return err
				}
				res, err := overlay.New(pdf.NewRenderer(s)).Composite(doc, img, req)
				if err != nil {
					return err
				}
				data, err := doc.Bytes()
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return err
				}
				log.Info().Str("out", out).Ints("pages", res.Pages).Msg("overlay written")
				fmt.Fprintln(c.App.Writer, out)
				return nil
			})
		},
	}
}

func previewCommand() *cli.Command {
	flags := append(placementFlags(),
		&cli.IntFlag{Name: "pixels", Usage: "preview width in pixels", Value: overlay.DefaultPreviewWidth},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output PNG", Value: "preview.png"},
	)
	return &cli.Command{
		Name:  "preview",
		Usage: "render the first page with the image placement marked",
		Flags: flags,
		Action: func(c *cli.Context) error {
			pl, err := placementFrom(c)
			if err != nil {
				return err
			}
			return withSession(c, func(*session.Session) error {
				data, err := os.ReadFile(c.String("pdf"))
				if err != nil {
					return err
				}
				doc, err := pdf.OpenBytes(data, filepath.Base(c.String("pdf")))
				if err != nil {
					return err
				}
				if doc.PageCount() == 0 {
					return fmt.Errorf("%s has no pages", doc.Name())
				}
				page, err := doc.PageSize(0)
				if err != nil {
					return err
				}
				img, err := readImage(c.String("image"))
				if err != nil {
					return err
				}
				canvas, err := overlay.NewPreviewer(c.Int("pixels")).Render(data, page, img, pl)
				if err != nil {
					return err
				}
				png, err := raster.Encode(canvas, raster.PNG)
				if err != nil {
					return err
				}
				return os.WriteFile(c.String("out"), png, 0o644)
			})
		},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "draw each image onto its own PDF page",
		ArgsUsage: "IMAGE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "page-size", Usage: "Letter, A4, Legal, A3, A5 or Tabloid", Value: "A4"},
			&cli.StringFlag{Name: "orientation", Usage: "portrait or landscape", Value: "portrait"},
			&cli.StringFlag{Name: "fit", Usage: "fit, fill or stretch", Value: "fit"},
			&cli.Float64Flag{Name: "margin-mm", Usage: "page margin in millimeters", Value: imagepdf.DefaultMarginMM},
			&cli.StringFlag{Name: "mode", Usage: "combined or separate", Value: "combined"},
			&cli.StringFlag{Name: "out-dir", Usage: "directory for the results", Value: "."},
		},
		Action: func(c *cli.Context) error {
			opts := imagepdf.DefaultOptions()
			size, ok := geometry.LookupPreset(c.String("page-size"))
			if !ok {
				return fmt.Errorf("unknown page size %q", c.String("page-size"))
			}
			opts.PageSize = size
			var err error
			if opts.Orientation, err = geometry.ParseOrientation(c.String("orientation")); err != nil {
				return err
			}
			if opts.Fit, err = geometry.ParseFitPolicy(c.String("fit")); err != nil {
				return err
			}
			if opts.Mode, err = imagepdf.ParseMode(c.String("mode")); err != nil {
				return err
			}
			opts.Margin = geometry.MillimetersToPoints(c.Float64("margin-mm"))

			inputs := make([]imagepdf.Input, 0, c.NArg())
			for _, path := range c.Args().Slice() {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				inputs = append(inputs, imagepdf.Input{Name: filepath.Base(path), Data: data})
			}

			return withSession(c, func(*session.Session) error {
				outputs, err := imagepdf.New(nil).Assemble(inputs, opts)
				if err != nil {
					return err
				}
				dir := c.String("out-dir")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				for _, o := range outputs {
					path := filepath.Join(dir, o.Name)
					if err := os.WriteFile(path, o.Data, 0o644); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, path)
				}
				return nil
			})
		},
	}
}

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "concatenate PDFs into one document",
		ArgsUsage: "PDF...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order", Usage: "as_given, name_asc or name_desc", Value: "as_given"},
			&cli.BoolFlag{Name: "bookmarks", Usage: "add one bookmark per input file"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path", Value: merge.OutputName},
		},
		Action: func(c *cli.Context) error {
			order, err := merge.ParseOrder(c.String("order"))
			if err != nil {
				return err
			}
			return withSession(c, func(*session.Session) error {
				sources := make([]merge.Source, 0, c.NArg())
				for _, path := range c.Args().Slice() {
					doc, err := pdf.OpenFile(path)
					if err != nil {
						return err
					}
					sources = append(sources, merge.Source{Name: filepath.Base(path), Doc: doc})
				}
				var buf bytes.Buffer
				plan, err := merge.New(nil).Merge(&buf, sources, order, c.Bool("bookmarks"))
				if err != nil {
					return err
				}
				if err := os.WriteFile(c.String("out"), buf.Bytes(), 0o644); err != nil {
					return err
				}
				log.Info().Int("documents", len(plan.Entries)).Int("pages", plan.TotalPages).Msg("merged")
				fmt.Fprintf(c.App.Writer, "%s (%d pages)\n", c.String("out"), plan.TotalPages)
				return nil
			})
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print page counts and page sizes as JSON",
		ArgsUsage: "PDF...",
		Action: func(c *cli.Context) error {
			infos := make([]pdf.Info, 0, c.NArg())
			for _, path := range c.Args().Slice() {
				doc, err := pdf.OpenFile(path)
				if err != nil {
					return err
				}
				infos = append(infos, doc.Info())
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		},
	}
}
