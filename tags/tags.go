package tags

import "github.com/yohamta/donburi"

var (
	Level = donburi.NewTag().SetName("Level")
	Probe = donburi.NewTag().SetName("Probe")
)
