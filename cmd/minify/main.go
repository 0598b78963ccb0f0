package main

import (
	"os"
	"path/filepath"

	"github.com/woozymasta/geodesy/assets"
	"github.com/woozymasta/geodesy/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

// Options for rendering the index page to a static file, for hosting it apart from the server.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Title  string `short:"t" long:"title" env:"PAGE_TITLE" description:"Index page title" default:"geodesy"`
	Output string `short:"o" long:"out"   description:"Output file path" default:"assets/index.html"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	page, err := assets.Index(opts.Title)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render index page")
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Msg("Failed to create output directory")
		}
	}

	if err := os.WriteFile(opts.Output, page, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write index page")
	}

	log.Info().Str("path", opts.Output).Int("bytes", len(page)).Msg("Minify done")
}
