package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/viper"
)

// Config holds general window configuration
type Config struct {
	Width  int
	Height int
	Scale  int
	Title  string
}

// ViewerConfig contains tile viewer configuration values
type ViewerConfig struct {
	// On-disk tileset directory. Empty means the embedded tilesets only,
	// without hot reload.
	TilesetDir   string
	Map          string // optional TMX path, absolute or relative to the working directory
	StartTileset string // tileset name shown first, overridden by saved settings
	CellSize     int    // broad phase cell size in pixels

	// Probe
	ProbeWidth  float64
	ProbeHeight float64
	ProbeSpeed  float64 // pixels per tick

	// Camera
	CameraTweenSeconds float32
	ZoomStep           float64
	MinZoom            float64
	MaxZoom            float64
}

// CatalogConfig sizes the tileset cache
type CatalogConfig struct {
	NumCounters int64
	MaxCost     int64
}

// LogConfig configures the logger
type LogConfig struct {
	Level      string // logrus level name
	Format     string // "text" or "json"
	File       string // empty logs to stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// UIConfig contains HUD and overlay configuration
type UIConfig struct {
	HUDFontSize float64
	HUDMargin   float64

	HUDTextColor   color.RGBA
	HUDTextBgColor color.RGBA

	// Debug overlay colors
	ShapeColor     color.RGBA
	TopShapeColor  color.RGBA
	ProbeColor     color.RGBA
	ProbeHitColor  color.RGBA
	GridColor      color.RGBA
	FallbackColors []color.RGBA // tile fill when the tileset image is missing
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	ShowCollision bool // draw the collision overlay on start
	ShowGrid      bool
}

// Global configuration instances
var C *Config
var Viewer ViewerConfig
var Catalog CatalogConfig
var Log LogConfig
var UI UIConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

func init() {
	Reset()
}

// Reset restores every global to its default.
func Reset() {
	C = &Config{
		Width:  640,
		Height: 360,
		Scale:  2,
		Title:  "tilecollide",
	}

	Viewer = ViewerConfig{
		TilesetDir:   "",
		Map:          "",
		StartTileset: "TilesetDesert",
		CellSize:     16,

		ProbeWidth:  10,
		ProbeHeight: 14,
		ProbeSpeed:  1.5,

		CameraTweenSeconds: 0.25,
		ZoomStep:           0.5,
		MinZoom:            1,
		MaxZoom:            4,
	}

	Catalog = CatalogConfig{
		NumCounters: 1000,
		MaxCost:     1 << 20,
	}

	Log = LogConfig{
		Level:      "info",
		Format:     "text",
		File:       "",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}

	UI = UIConfig{
		HUDFontSize: 10,
		HUDMargin:   4,

		HUDTextColor:   White,
		HUDTextBgColor: BlackOverlay,

		ShapeColor:    color.RGBA{R: 0, G: 255, B: 0, A: 200},
		TopShapeColor: color.RGBA{R: 255, G: 200, B: 0, A: 200},
		ProbeColor:    color.RGBA{R: 0, G: 160, B: 255, A: 255},
		ProbeHitColor: Red,
		GridColor:     color.RGBA{R: 255, G: 255, B: 255, A: 24},
		FallbackColors: []color.RGBA{
			{R: 96, G: 84, B: 64, A: 255},
			{R: 112, G: 98, B: 74, A: 255},
		},
	}

	Debug = DebugConfig{
		ShowCollision: false,
		ShowGrid:      false,
	}
}

// fileConfig is the subset of the configuration that can be overridden from
// a YAML file or TILECOLLIDE_* environment variables.
type fileConfig struct {
	Window struct {
		Width  int    `mapstructure:"width"`
		Height int    `mapstructure:"height"`
		Scale  int    `mapstructure:"scale"`
		Title  string `mapstructure:"title"`
	} `mapstructure:"window"`
	Viewer struct {
		TilesetDir         string  `mapstructure:"tileset_dir"`
		Map                string  `mapstructure:"map"`
		StartTileset       string  `mapstructure:"start_tileset"`
		CellSize           int     `mapstructure:"cell_size"`
		ProbeWidth         float64 `mapstructure:"probe_width"`
		ProbeHeight        float64 `mapstructure:"probe_height"`
		ProbeSpeed         float64 `mapstructure:"probe_speed"`
		CameraTweenSeconds float32 `mapstructure:"camera_tween_seconds"`
	} `mapstructure:"viewer"`
	Catalog struct {
		NumCounters int64 `mapstructure:"num_counters"`
		MaxCost     int64 `mapstructure:"max_cost"`
	} `mapstructure:"catalog"`
	Log struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	} `mapstructure:"log"`
	Debug struct {
		ShowCollision bool `mapstructure:"show_collision"`
		ShowGrid      bool `mapstructure:"show_grid"`
	} `mapstructure:"debug"`
}

// Load overlays the globals with the YAML file at path and TILECOLLIDE_*
// environment variables (TILECOLLIDE_LOG_LEVEL for log.level). An empty
// path applies the environment only.
func Load(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TILECOLLIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if fc.Viewer.CellSize <= 0 {
		return fmt.Errorf("decode config: viewer.cell_size must be positive, got %d", fc.Viewer.CellSize)
	}

	C.Width, C.Height, C.Scale, C.Title = fc.Window.Width, fc.Window.Height, fc.Window.Scale, fc.Window.Title

	Viewer.TilesetDir = fc.Viewer.TilesetDir
	Viewer.Map = fc.Viewer.Map
	Viewer.StartTileset = fc.Viewer.StartTileset
	Viewer.CellSize = fc.Viewer.CellSize
	Viewer.ProbeWidth = fc.Viewer.ProbeWidth
	Viewer.ProbeHeight = fc.Viewer.ProbeHeight
	Viewer.ProbeSpeed = fc.Viewer.ProbeSpeed
	Viewer.CameraTweenSeconds = fc.Viewer.CameraTweenSeconds

	Catalog.NumCounters = fc.Catalog.NumCounters
	Catalog.MaxCost = fc.Catalog.MaxCost

	Log.Level = fc.Log.Level
	Log.Format = fc.Log.Format
	Log.File = fc.Log.File
	Log.MaxSizeMB = fc.Log.MaxSizeMB
	Log.MaxBackups = fc.Log.MaxBackups
	Log.MaxAgeDays = fc.Log.MaxAgeDays

	Debug.ShowCollision = fc.Debug.ShowCollision
	Debug.ShowGrid = fc.Debug.ShowGrid
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", C.Width)
	v.SetDefault("window.height", C.Height)
	v.SetDefault("window.scale", C.Scale)
	v.SetDefault("window.title", C.Title)

	v.SetDefault("viewer.tileset_dir", Viewer.TilesetDir)
	v.SetDefault("viewer.map", Viewer.Map)
	v.SetDefault("viewer.start_tileset", Viewer.StartTileset)
	v.SetDefault("viewer.cell_size", Viewer.CellSize)
	v.SetDefault("viewer.probe_width", Viewer.ProbeWidth)
	v.SetDefault("viewer.probe_height", Viewer.ProbeHeight)
	v.SetDefault("viewer.probe_speed", Viewer.ProbeSpeed)
	v.SetDefault("viewer.camera_tween_seconds", Viewer.CameraTweenSeconds)

	v.SetDefault("catalog.num_counters", Catalog.NumCounters)
	v.SetDefault("catalog.max_cost", Catalog.MaxCost)

	v.SetDefault("log.level", Log.Level)
	v.SetDefault("log.format", Log.Format)
	v.SetDefault("log.file", Log.File)
	v.SetDefault("log.max_size_mb", Log.MaxSizeMB)
	v.SetDefault("log.max_backups", Log.MaxBackups)
	v.SetDefault("log.max_age_days", Log.MaxAgeDays)

	v.SetDefault("debug.show_collision", Debug.ShowCollision)
	v.SetDefault("debug.show_grid", Debug.ShowGrid)
}
