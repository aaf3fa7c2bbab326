package systems

import (
	"encoding/json"

	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/quasilyte/gdata"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	Tileset       string  `json:"tileset"`
	ShowCollision bool    `json:"showCollision"`
	ShowGrid      bool    `json:"showGrid"`
	Zoom          float64 `json:"zoom"`
}

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "tilecollide",
	})
	if err != nil {
		return err
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. It returns nil when persistence is
// unavailable or nothing has been saved yet.
func LoadSettings() *SavedSettings {
	if gdataManager == nil {
		return nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		logrus.WithError(err).Warn("could not load settings")
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		logrus.WithError(err).Warn("could not parse saved settings")
		return nil
	}
	return &settings
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return gdataManager.SaveItem("settings", data)
}

// SetupSettings spawns the settings entity from the configuration defaults
// overlaid with saved settings.
func SetupSettings(e *ecs.ECS, saved *SavedSettings) *components.SettingsData {
	entry := archetypes.Settings.Spawn(e)
	settings := components.Settings.Get(entry)
	settings.Tileset = cfg.Viewer.StartTileset
	settings.ShowCollision = cfg.Debug.ShowCollision
	settings.ShowGrid = cfg.Debug.ShowGrid
	settings.Zoom = 1

	if saved != nil {
		if saved.Tileset != "" {
			settings.Tileset = saved.Tileset
		}
		settings.ShowCollision = settings.ShowCollision || saved.ShowCollision
		settings.ShowGrid = saved.ShowGrid
		if saved.Zoom >= cfg.Viewer.MinZoom && saved.Zoom <= cfg.Viewer.MaxZoom {
			settings.Zoom = saved.Zoom
		}
	}
	return settings
}

// UpdateSettings applies the debug toggles and writes changed settings back
// to disk.
func UpdateSettings(e *ecs.ECS) {
	entry, ok := components.Settings.First(e.World)
	if !ok {
		return
	}
	settings := components.Settings.Get(entry)
	input := getOrCreateInput(e)

	if input.JustPressed(cfg.ActionToggleCollision) {
		settings.ShowCollision = !settings.ShowCollision
		settings.Dirty = true
	}
	if input.JustPressed(cfg.ActionToggleGrid) {
		settings.ShowGrid = !settings.ShowGrid
		settings.Dirty = true
	}

	if !settings.Dirty {
		return
	}
	settings.Dirty = false
	err := SaveSettings(&SavedSettings{
		Tileset:       settings.Tileset,
		ShowCollision: settings.ShowCollision,
		ShowGrid:      settings.ShowGrid,
		Zoom:          settings.Zoom,
	})
	if err != nil {
		logrus.WithError(err).Warn("could not save settings")
	}
}
