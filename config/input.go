package config

// ActionID represents a logical viewer action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionNextTileset
	ActionPrevTileset
	ActionToggleCollision
	ActionToggleGrid
	ActionZoomIn
	ActionZoomOut
	ActionResetProbe
	ActionCount // Must be last - used for array sizing
)

var actionNames = [ActionCount]string{
	ActionNone:            "none",
	ActionMoveLeft:        "move_left",
	ActionMoveRight:       "move_right",
	ActionMoveUp:          "move_up",
	ActionMoveDown:        "move_down",
	ActionNextTileset:     "next_tileset",
	ActionPrevTileset:     "prev_tileset",
	ActionToggleCollision: "toggle_collision",
	ActionToggleGrid:      "toggle_grid",
	ActionZoomIn:          "zoom_in",
	ActionZoomOut:         "zoom_out",
	ActionResetProbe:      "reset_probe",
}

func (a ActionID) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}
