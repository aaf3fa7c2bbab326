package systems

import (
	"github.com/automoto/tilecollide/archetypes"
	"github.com/automoto/tilecollide/components"
	cfg "github.com/automoto/tilecollide/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// keyBindings maps each action to the keys that trigger it.
var keyBindings = map[cfg.ActionID][]ebiten.Key{
	cfg.ActionMoveLeft:        {ebiten.KeyLeft, ebiten.KeyA},
	cfg.ActionMoveRight:       {ebiten.KeyRight, ebiten.KeyD},
	cfg.ActionMoveUp:          {ebiten.KeyUp, ebiten.KeyW},
	cfg.ActionMoveDown:        {ebiten.KeyDown, ebiten.KeyS},
	cfg.ActionNextTileset:     {ebiten.KeyTab, ebiten.KeyPageDown},
	cfg.ActionPrevTileset:     {ebiten.KeyPageUp},
	cfg.ActionToggleCollision: {ebiten.KeyF1},
	cfg.ActionToggleGrid:      {ebiten.KeyG},
	cfg.ActionZoomIn:          {ebiten.KeyEqual, ebiten.KeyNumpadAdd},
	cfg.ActionZoomOut:         {ebiten.KeyMinus, ebiten.KeyNumpadSubtract},
	cfg.ActionResetProbe:      {ebiten.KeyR},
}

// UpdateInput polls the keyboard and updates the InputComponent.
// Must run before every system that reads input.
func UpdateInput(e *ecs.ECS) {
	input := getOrCreateInput(e)

	// Swap buffers: current becomes previous, then zero out current
	input.Previous = input.Current
	input.Current = [cfg.ActionCount]bool{}

	for actionID, keys := range keyBindings {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				input.Current[actionID] = true
			}
		}
	}
}

func getOrCreateInput(e *ecs.ECS) *components.InputData {
	if entry, ok := components.Input.First(e.World); ok {
		return components.Input.Get(entry)
	}
	entry := archetypes.Input.Spawn(e)
	return components.Input.Get(entry)
}
