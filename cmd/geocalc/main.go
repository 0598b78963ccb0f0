package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/geodesy/internal/config"
	"github.com/woozymasta/geodesy/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"   description:"Path to configuration file (defaults, fences)"`
	Output     string `short:"o" long:"out"    env:"OUTPUT_FILE"   description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format" env:"OUTPUT_FORMAT" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

// app carries global options and the output shared by every subcommand.
type app struct {
	opts Options
	out  io.Writer
	cfg  *config.Config
}

func main() {
	a := &app{out: os.Stdout}

	parser, err := newParser(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func newParser(a *app) (*flags.Parser, error) {
	parser := flags.NewParser(&a.opts, flags.Default)
	parser.LongDescription = "Geodesic calculations on the command line. " +
		"Points are lat,lon; use -- before arguments that start with a minus sign."
	parser.CommandHandler = a.run

	for _, c := range commands(a) {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return nil, fmt.Errorf("register %s: %w", c.name, err)
		}
	}

	return parser, nil
}

// run prepares logging, configuration and output before executing a subcommand.
func (a *app) run(cmd flags.Commander, args []string) error {
	a.opts.Logger.Setup()

	a.cfg = &config.Config{}
	if a.opts.ConfigFile != "" {
		cfg, err := config.Load(a.opts.ConfigFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		a.cfg = cfg
	}

	if a.opts.Output != "" {
		f, err := os.Create(a.opts.Output)
		if err != nil {
			return err
		}

		// We care about write errors on close
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				log.Error().Err(closeErr).Str("path", a.opts.Output).Msg("Failed to close file")
			}
		}()
		a.out = f
	}

	if cmd == nil {
		return nil
	}
	return cmd.Execute(args)
}

// emit writes v in the selected output format.
func (a *app) emit(v interface{}) error {
	if a.opts.Format == "yaml" {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
