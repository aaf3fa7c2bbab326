// Command tsxcheck validates Tiled tilesets and exports their collision
// tables.
package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"os"

	"github.com/automoto/tilecollide/assets"
	"github.com/automoto/tilecollide/config"
	"github.com/automoto/tilecollide/logging"
	"github.com/automoto/tilecollide/shared/tileset"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := flag.String("env", ".env", "Environment file loaded before the config (ignored when missing)")
	configPath := flag.String("config", "", "YAML config file")
	dir := flag.String("dir", "", "Tileset directory (empty = embedded tilesets)")
	format := flag.String("export", "none", "Export collision tables: yaml, json or none")
	out := flag.String("out", "-", "Export destination (- = stdout)")
	verify := flag.Bool("roundtrip", false, "Check that every tileset survives an encode/load round trip")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	if err := config.Load(*configPath); err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log, err := logging.Setup(config.Log)
	if err != nil {
		logrus.Fatalf("logging: %v", err)
	}

	if err := run(log, *dir, *format, *out, *verify); err != nil {
		log.WithFields(errorFields(err)).WithError(err).Error("tsxcheck failed")
		os.Exit(1)
	}
}

// errorFields locates a tileset load failure for structured logs.
func errorFields(err error) logrus.Fields {
	var le *tileset.LoadError
	if !errors.As(err, &le) {
		return logrus.Fields{}
	}
	fields := logrus.Fields{"document": le.Document}
	if le.HasTile() {
		fields["tile"] = le.TileID
	}
	if le.Attr != "" {
		fields["attribute"] = le.Attr
	}
	return fields
}

func run(log logrus.FieldLogger, dir, format, out string, verify bool) error {
	var fsys fs.FS = assets.Tilesets()
	root := assets.TilesetDir
	if dir != "" {
		fsys, root = os.DirFS(dir), "."
	}

	tables, names, err := tileset.LoadAll(fsys, root)
	if err != nil {
		return err
	}

	for _, name := range names {
		ts := tables[name]
		stats := ts.Stats()
		log.WithFields(logrus.Fields{
			"file":          name,
			"tileset":       ts.Name,
			"tiles":         ts.TileCount,
			"records":       stats.Records,
			"shapes":        stats.Shapes,
			"render_on_top": stats.RenderOnTop,
			"skipped":       stats.SkippedObjects,
		}).Info("tileset ok")

		if verify {
			if err := roundTrip(ts); err != nil {
				return err
			}
		}
	}

	if format == "none" {
		return nil
	}

	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export(w, format, tables, names)
}
