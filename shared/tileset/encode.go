package tileset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

type tsxTileset struct {
	XMLName    xml.Name  `xml:"tileset"`
	Version    string    `xml:"version,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	Spacing    int       `xml:"spacing,attr,omitempty"`
	Margin     int       `xml:"margin,attr,omitempty"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      tsxImage  `xml:"image"`
	Tiles      []tsxTile `xml:"tile"`
}

type tsxImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type tsxTile struct {
	ID          uint32          `xml:"id,attr"`
	Properties  *tsxProperties  `xml:"properties"`
	ObjectGroup *tsxObjectGroup `xml:"objectgroup"`
}

type tsxProperties struct {
	Property []tsxProperty `xml:"property"`
}

type tsxProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type tsxObjectGroup struct {
	DrawOrder string      `xml:"draworder,attr"`
	Objects   []tsxObject `xml:"object"`
}

type tsxObject struct {
	ID     int    `xml:"id,attr"`
	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
}

// Encode writes ts as a TSX document. Loading the output yields the same
// records, shapes in the same order and the same render-order flags.
func Encode(w io.Writer, ts *Tileset) error {
	doc := tsxTileset{
		Version:    "1.10",
		Name:       ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Spacing:    ts.Spacing,
		Margin:     ts.Margin,
		TileCount:  ts.TileCount,
		Columns:    ts.Columns,
		Image: tsxImage{
			Source: ts.Image.Source,
			Width:  ts.Image.Width,
			Height: ts.Image.Height,
		},
		Tiles: make([]tsxTile, 0, len(ts.records)),
	}

	for _, rec := range ts.records {
		t := tsxTile{ID: rec.ID}
		if rec.RenderOnTop {
			t.Properties = &tsxProperties{Property: []tsxProperty{
				{Name: renderOnTopProperty, Type: "bool", Value: "true"},
			}}
		}
		if rec.hasShapeGroup || len(rec.Shapes) > 0 {
			g := &tsxObjectGroup{DrawOrder: "index"}
			for i, r := range rec.Shapes {
				g.Objects = append(g.Objects, tsxObject{
					ID:     i + 1,
					X:      formatFloat(r.X),
					Y:      formatFloat(r.Y),
					Width:  formatFloat(r.W),
					Height: formatFloat(r.H),
				})
			}
			t.ObjectGroup = g
		}
		doc.Tiles = append(doc.Tiles, t)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("encode tileset %s: %w", ts.Name, err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode tileset %s: %w", ts.Name, err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode tileset %s: %w", ts.Name, err)
	}
	return nil
}

// formatFloat uses the shortest representation that parses back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
