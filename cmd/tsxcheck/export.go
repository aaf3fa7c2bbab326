package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/automoto/tilecollide/shared/tileset"
	"gopkg.in/yaml.v3"
)

var errRoundTrip = errors.New("round trip mismatch")

type exportRect struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

type exportTile struct {
	ID          uint32       `yaml:"id" json:"id"`
	RenderOnTop bool         `yaml:"render_on_top,omitempty" json:"render_on_top,omitempty"`
	Shapes      []exportRect `yaml:"shapes,omitempty" json:"shapes,omitempty"`
}

type exportTileset struct {
	Name       string       `yaml:"name" json:"name"`
	TileWidth  int          `yaml:"tile_width" json:"tile_width"`
	TileHeight int          `yaml:"tile_height" json:"tile_height"`
	TileCount  int          `yaml:"tile_count" json:"tile_count"`
	Columns    int          `yaml:"columns" json:"columns"`
	Tiles      []exportTile `yaml:"tiles" json:"tiles"`
}

func newExportTileset(ts *tileset.Tileset) exportTileset {
	out := exportTileset{
		Name:       ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		TileCount:  ts.TileCount,
		Columns:    ts.Columns,
	}
	for _, rec := range ts.Records() {
		tile := exportTile{ID: rec.ID, RenderOnTop: rec.RenderOnTop}
		for _, r := range rec.Shapes {
			tile.Shapes = append(tile.Shapes, exportRect{X: r.X, Y: r.Y, W: r.W, H: r.H})
		}
		out.Tiles = append(out.Tiles, tile)
	}
	return out
}

// export writes the collision tables of names, in order, as a YAML or JSON
// list.
func export(w io.Writer, format string, tables map[string]*tileset.Tileset, names []string) error {
	list := make([]exportTileset, 0, len(names))
	for _, name := range names {
		list = append(list, newExportTileset(tables[name]))
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("export yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// roundTrip encodes ts and parses the output back, failing when the two
// tables differ.
func roundTrip(ts *tileset.Tileset) error {
	var buf bytes.Buffer
	if err := tileset.Encode(&buf, ts); err != nil {
		return err
	}
	back, err := tileset.Load(&buf, ts.Name)
	if err != nil {
		return fmt.Errorf("reload encoded %s: %w", ts.Name, err)
	}

	if back.Name != ts.Name || back.TileCount != ts.TileCount || back.Columns != ts.Columns ||
		back.TileWidth != ts.TileWidth || back.TileHeight != ts.TileHeight {
		return fmt.Errorf("%s: %w: header", ts.Name, errRoundTrip)
	}
	if !reflect.DeepEqual(back.Records(), ts.Records()) {
		return fmt.Errorf("%s: %w: records", ts.Name, errRoundTrip)
	}
	return nil
}
