package editor

import (
	"github.com/Faultbox/trackforge/pkg/math"
)

// Action is a discrete user command.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionClear
	ActionBuild
	ActionBackToEditor
	ActionToggleCurves
	ActionTogglePause
	ActionSelectNext
	ActionScaleUp
	ActionScaleDown
	ActionRotateLeft
	ActionRotateRight
	ActionMoveForward
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionSaveScene
	ActionScreenshot
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:         "none",
	ActionUndo:         "undo",
	ActionClear:        "clear",
	ActionBuild:        "build",
	ActionBackToEditor: "back-to-editor",
	ActionToggleCurves: "toggle-curves",
	ActionTogglePause:  "toggle-pause",
	ActionSelectNext:   "select-next",
	ActionScaleUp:      "scale-up",
	ActionScaleDown:    "scale-down",
	ActionRotateLeft:   "rotate-left",
	ActionRotateRight:  "rotate-right",
	ActionMoveForward:  "move-forward",
	ActionMoveBack:     "move-back",
	ActionMoveLeft:     "move-left",
	ActionMoveRight:    "move-right",
	ActionSaveScene:    "save-scene",
	ActionScreenshot:   "screenshot",
	ActionQuit:         "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Apply performs an action that only touches editor state. Screenshot and
// quit are left to the caller and report handled=false, as do actions that
// do not apply in the current mode.
func (e *Editor) Apply(a Action) (handled bool, err error) {
	if e.mode == ModeEdit {
		switch a {
		case ActionUndo:
			return e.Undo(), nil
		case ActionClear:
			e.Clear()
			return true, nil
		case ActionBuild:
			return e.Build()
		}
		return false, nil
	}

	switch a {
	case ActionBackToEditor:
		e.BackToEditor()
	case ActionToggleCurves:
		e.ShowCurves = !e.ShowCurves
	case ActionTogglePause:
		e.Paused = !e.Paused
	case ActionSelectNext:
		e.SelectNext()
	case ActionScaleUp:
		e.ScaleSelected(1)
	case ActionScaleDown:
		e.ScaleSelected(-1)
	case ActionRotateLeft:
		e.RotateSelected(1)
	case ActionRotateRight:
		e.RotateSelected(-1)
	case ActionMoveForward:
		e.MoveSelected(math.Vec2{Y: -1})
	case ActionMoveBack:
		e.MoveSelected(math.Vec2{Y: 1})
	case ActionMoveLeft:
		e.MoveSelected(math.Vec2{X: -1})
	case ActionMoveRight:
		e.MoveSelected(math.Vec2{X: 1})
	case ActionSaveScene:
		return true, e.SaveScene()
	default:
		return false, nil
	}
	return true, nil
}
