// Command pdftools runs the PDF tools from the command line.
//
// Each subcommand performs one run with the same rules as the HTTP API:
//
//	pdftools overlay --pdf in.pdf --image sig.png --pages last
//	pdftools preview --pdf in.pdf --image sig.png --out preview.png
//	pdftools convert --page-size Letter --mode separate a.png b.jpg
//	pdftools merge --bookmarks --order name_asc one.pdf two.pdf
//	pdftools inspect one.pdf two.pdf
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-pdftools/internal/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:    "pdftools",
		Usage:   "add images to PDF pages, convert images to PDF and merge PDFs",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scratch-dir",
				Usage:   "directory for intermediate files",
				Value:   filepath.Join(os.TempDir(), "pdftools"),
				EnvVars: []string{"SCRATCH_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "log-json",
				Usage:   "write logs as JSON",
				EnvVars: []string{"LOG_JSON"},
			},
		},
		Before: func(c *cli.Context) error {
			return logger.Init(logger.Options{
				Level:  c.String("log-level"),
				Pretty: !c.Bool("log-json"),
				Out:    os.Stderr,
			})
		},
		After: func(*cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			overlayCommand(),
			previewCommand(),
			convertCommand(),
			mergeCommand(),
			inspectCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("pdftools")
		os.Exit(1)
	}
}
