package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

type CameraData struct {
	Position math.Vec2
	Zoom     float64

	// Active easing toward Target; nil when the camera is at rest.
	TweenX, TweenY *gween.Tween
	Target         math.Vec2
}

var Camera = donburi.NewComponentType[CameraData]()
