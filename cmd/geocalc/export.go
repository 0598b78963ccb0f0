package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/woozymasta/geodesy/internal/export"
	"github.com/woozymasta/geodesy/internal/fence"
	"github.com/woozymasta/geodesy/internal/geo"

	"github.com/rs/zerolog/log"
)

type exportCommand struct {
	app *app

	Limit  []string `short:"l" long:"limit"   description:"Limit export to specific fence names or aliases"`
	As     string   `short:"a" long:"as"      description:"Document format" choice:"json" choice:"yaml" choice:"kml" default:"json"`
	OutDir string   `short:"d" long:"out-dir" description:"Write one file per fence into this directory instead of a single document"`
	Force  bool     `long:"force"             description:"Force overwrite of existing files"`
}

func (c *exportCommand) Execute([]string) error {
	format, err := export.ParseFormat(c.As)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	registry, err := fence.Load(ctx, &http.Client{Timeout: 15 * time.Second}, c.app.cfg)
	if err != nil {
		return err
	}

	if c.OutDir == "" {
		fc, err := registry.FeatureCollection(c.Limit...)
		if err != nil {
			return err
		}
		return export.Write(c.app.out, fc, format, "fences")
	}

	selected := registry.All()
	if len(c.Limit) > 0 {
		selected = selected[:0:0]
		seen := make(map[string]bool)
		for _, name := range c.Limit {
			f, err := registry.Resolve(name)
			if err != nil {
				log.Error().Str("name", name).Msg("Fence specified in --limit not found in configuration")
				continue
			}
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			selected = append(selected, f)
		}
	}

	log.Info().
		Int("fences_total", registry.Len()).
		Int("fences_queued", len(selected)).
		Str("format", string(format)).
		Msg("Starting export")

	if err := os.MkdirAll(c.OutDir, 0755); err != nil {
		return err
	}

	for _, f := range selected {
		path := filepath.Join(c.OutDir, f.Name+extension(format))
		if err := c.save(path, f, format); err != nil {
			log.Error().Err(err).Str("fence", f.Name).Msg("Failed to export fence")
		}
	}

	return nil
}

// save writes a single fence document, skipping existing files unless forced.
func (c *exportCommand) save(path string, f fence.Fence, format export.Format) error {
	if _, err := os.Stat(path); err == nil && !c.Force {
		log.Debug().Str("path", path).Msg("File exists, skipping")
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := export.Write(file, geo.NewFeatureCollection(f.Feature()), format, f.Name); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	log.Info().Str("fence", f.Name).Str("path", path).Msg("Fence exported")
	return nil
}

func extension(f export.Format) string {
	switch f {
	case export.YAML:
		return ".yaml"
	case export.KML:
		return ".kml"
	default:
		return ".geojson"
	}
}
