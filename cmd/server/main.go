package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geodesy/assets"
	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/logger"
	"github.com/woozymasta/geodesy/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"      env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"      env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Ellipsoid  string `short:"E" long:"ellipsoid" env:"ELLIPSOID"      description:"Default ellipsoid or datum, overrides the config file"`
	Title      string `short:"t" long:"title"     env:"PAGE_TITLE"     description:"Index page title"           default:"geodesy"`
}

func main() {
	loadDotenv()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", opts.ConfigFile).Msg("Configuration file not found, using defaults")
		cfg = &config.Config{}
	case err != nil:
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Ellipsoid != "" {
		cfg.Ellipsoid = opts.Ellipsoid
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid ellipsoid")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	fences, err := fence.Load(ctx, &http.Client{Timeout: 15 * time.Second}, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load fences")
	}

	index, err := assets.Index(opts.Title)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build index page")
	}

	srvCtx := server.NewServerContext(cfg, fences, index)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("fences_loaded", fences.Len()).
		Msg("Web server started")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// loadDotenv reads ENV_FILE (default .env) into the environment so env-bound flags see it.
// Variables already set in the environment win.
func loadDotenv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", path, err)
	}
}
