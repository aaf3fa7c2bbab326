package components

import "github.com/yohamta/donburi"

// SettingsData holds the viewer state persisted between runs.
type SettingsData struct {
	Tileset       string
	ShowCollision bool
	ShowGrid      bool
	Zoom          float64
	Dirty         bool // changed since the last save
}

var Settings = donburi.NewComponentType[SettingsData]()
