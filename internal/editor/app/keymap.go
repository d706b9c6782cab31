package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/trackforge/internal/editor"
)

var editKeys = map[sdl.Scancode]editor.Action{
	sdl.SCANCODE_RETURN:    editor.ActionBuild,
	sdl.SCANCODE_KP_ENTER:  editor.ActionBuild,
	sdl.SCANCODE_BACKSPACE: editor.ActionUndo,
	sdl.SCANCODE_Z:         editor.ActionUndo,
	sdl.SCANCODE_DELETE:    editor.ActionClear,
	sdl.SCANCODE_C:         editor.ActionClear,
	sdl.SCANCODE_F12:       editor.ActionScreenshot,
	sdl.SCANCODE_ESCAPE:    editor.ActionQuit,
}

var viewKeys = map[sdl.Scancode]editor.Action{
	sdl.SCANCODE_ESCAPE: editor.ActionBackToEditor,
	sdl.SCANCODE_F1:     editor.ActionToggleCurves,
	sdl.SCANCODE_P:      editor.ActionTogglePause,
	sdl.SCANCODE_TAB:    editor.ActionSelectNext,
	sdl.SCANCODE_1:      editor.ActionScaleUp,
	sdl.SCANCODE_2:      editor.ActionScaleDown,
	sdl.SCANCODE_3:      editor.ActionRotateLeft,
	sdl.SCANCODE_4:      editor.ActionRotateRight,
	sdl.SCANCODE_UP:     editor.ActionMoveForward,
	sdl.SCANCODE_DOWN:   editor.ActionMoveBack,
	sdl.SCANCODE_LEFT:   editor.ActionMoveLeft,
	sdl.SCANCODE_RIGHT:  editor.ActionMoveRight,
	sdl.SCANCODE_F5:     editor.ActionSaveScene,
	sdl.SCANCODE_F12:    editor.ActionScreenshot,
	sdl.SCANCODE_Q:      editor.ActionQuit,
}

func actionFor(mode editor.Mode, key sdl.Scancode) editor.Action {
	keys := editKeys
	if mode == editor.ModeView {
		keys = viewKeys
	}
	return keys[key]
}
