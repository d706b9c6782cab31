// Package app runs the editor in an SDL2 window: mouse clicks add control
// points on the editor plane, Enter builds and exports the track, and the
// 3D viewer shows the exported scene with a fly camera.
package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/editor"
	"github.com/Faultbox/trackforge/internal/engine/camera"
	"github.com/Faultbox/trackforge/internal/engine/debug"
	"github.com/Faultbox/trackforge/internal/engine/input"
	"github.com/Faultbox/trackforge/internal/engine/lighting"
	"github.com/Faultbox/trackforge/internal/engine/object"
	"github.com/Faultbox/trackforge/internal/engine/picking"
	"github.com/Faultbox/trackforge/internal/engine/renderer"
	"github.com/Faultbox/trackforge/internal/engine/window"
	"github.com/Faultbox/trackforge/internal/logger"
	"github.com/Faultbox/trackforge/internal/scene"
	"github.com/Faultbox/trackforge/pkg/math"
)

// Overlay colors.
var (
	gridColor         = scene.Color{R: 0.25, G: 0.25, B: 0.3, A: 1}
	controlLineColor  = scene.Color{R: 0, G: 1, B: 0, A: 1}
	controlPointColor = scene.Color{R: 1, G: 1, B: 0, A: 1}
	previewColor      = scene.Color{R: 1, G: 0, B: 0, A: 1}
	selectionColor    = scene.Color{R: 0.3, G: 0.5, B: 0.9, A: 1}
	editorBackground  = math.Vec3{X: 0.08, Y: 0.08, Z: 0.1}
	selectedHighlight = math.Vec3{X: 0.3, Y: 0.5, Z: 0.9}
)

const (
	editTitle = "trackforge"

	gridSpacing       = 5
	initialHalfHeight = 30
)

// App owns the window, GL resources and the editor state.
type App struct {
	cfg *config.Config
	ed  *editor.Editor
	log *zap.Logger

	win   *window.Window
	in    *input.Input
	ren   *renderer.Renderer
	shots *debug.ScreenshotCapture

	editCam *camera.EditorCamera
	flyCam  *camera.FlyCamera

	// Edit mode buffers
	grid     *renderer.Lines
	control  *renderer.Lines
	preview  *renderer.Lines
	revision int

	// View mode buffers, rebuilt when a scene is shown
	shown     *scene.Scene
	meshes    map[*object.Object3D]*renderer.GPUMesh
	curves    []*renderer.Lines
	selection *renderer.Lines
}

// New creates the window and GL state. Close must be called when done.
func New(cfg *config.Config, ed *editor.Editor) (*App, error) {
	a := &App{
		cfg:      cfg,
		ed:       ed,
		log:      logger.Named("app"),
		in:       input.New(),
		shots:    debug.NewScreenshotCapture(ed.ExportPath("screenshots"), "trackforge"),
		editCam:  camera.NewEditorCamera(initialHalfHeight),
		meshes:   make(map[*object.Object3D]*renderer.GPUMesh),
		revision: -1,
	}

	win, err := window.New(window.FromConfig(editTitle, cfg.Window))
	if err != nil {
		return nil, err
	}
	a.win = win

	w, h := win.DrawableSize()
	ren, err := renderer.New(renderer.Config{Width: w, Height: h, ClearColor: editorBackground}, logger.Named("renderer"))
	if err != nil {
		win.Close()
		return nil, err
	}
	a.ren = ren

	a.grid = renderer.NewLines(nil)
	a.control = renderer.NewLines(nil)
	a.preview = renderer.NewLines(nil)
	a.selection = renderer.NewLines(nil)
	return a, nil
}

// Close releases GL resources and the window.
func (a *App) Close() {
	a.releaseScene()
	for _, l := range []*renderer.Lines{a.grid, a.control, a.preview, a.selection} {
		l.Delete()
	}
	a.ren.Close()
	a.win.Close()
}

// Run processes input and draws frames until the window is closed, a quit
// action fires or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("editor running",
		zap.String("controls", "click: add point, backspace: undo, enter: build, esc: back/quit"))
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if a.in.Update() {
			return nil
		}
		quit, err := a.handleEvents()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}

		a.ed.Tick()
		a.syncMode()
		if a.ed.Mode() == editor.ModeEdit {
			a.drawEditor()
		} else {
			a.updateFlyCamera()
			a.drawViewer()
		}
		a.win.SwapBuffers()
	}
}

func (a *App) handleEvents() (quit bool, err error) {
	for _, ev := range a.in.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.ren.Resize(a.win.DrawableSize())

		case input.EventKeyDown:
			if ev.Repeat {
				continue
			}
			act := actionFor(a.ed.Mode(), ev.Key)
			switch act {
			case editor.ActionNone:
			case editor.ActionQuit:
				return true, nil
			case editor.ActionScreenshot:
				a.screenshot()
			default:
				if _, err := a.ed.Apply(act); err != nil {
					if errors.Is(err, editor.ErrWrongMode) {
						continue
					}
					// Export failures are reported and editing goes on.
					a.log.Error("action failed", zap.Stringer("action", act), zap.Error(err))
				}
			}

		case input.EventMouseDown:
			switch ev.Button {
			case sdl.BUTTON_LEFT:
				a.click(ev.MouseX, ev.MouseY)
			case sdl.BUTTON_RIGHT:
				if a.ed.Mode() == editor.ModeView {
					a.win.SetRelativeMouse(true)
				}
			}

		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_RIGHT {
				a.win.SetRelativeMouse(false)
			}

		case input.EventMouseMove:
			a.mouseMove(ev)

		case input.EventMouseWheel:
			if a.ed.Mode() == editor.ModeEdit {
				a.editCam.HandleZoom(float32(ev.Wheel))
			}
		}
	}
	return false, nil
}

// click adds a control point in edit mode and picks an object in the
// viewer.
func (a *App) click(x, y int) {
	if a.ed.Mode() == editor.ModeEdit {
		if p, ok := a.pickEditorPlane(x, y); ok {
			a.ed.AddPoint(p)
		}
		return
	}
	a.pickObject(x, y)
}

// mouseMove pans the editor with the middle button held and looks around
// the viewer with the right button held.
func (a *App) mouseMove(ev input.Event) {
	if a.ed.Mode() == editor.ModeEdit {
		if a.in.IsButtonDown(sdl.BUTTON_MIDDLE) {
			_, h := a.win.Size()
			perPixel := 2 * a.editCam.HalfHeight / float32(max(h, 1))
			a.editCam.Pan(math.Vec2{X: -float32(ev.RelX) * perPixel, Y: float32(ev.RelY) * perPixel})
		}
		return
	}
	if a.in.IsButtonDown(sdl.BUTTON_RIGHT) && a.flyCam != nil {
		a.flyCam.Look(float32(ev.RelX), -float32(ev.RelY))
	}
}

func (a *App) ray(x, y int, cam camera.Camera) picking.Ray {
	w, h := a.win.Size()
	inv := camera.ViewProjection(cam, a.ren.Aspect()).Inverse()
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
}

func (a *App) pickEditorPlane(x, y int) (math.Vec3, bool) {
	return a.ray(x, y, a.editCam).IntersectEditorPlane()
}

func (a *App) pickObject(x, y int) {
	sc := a.ed.Scene()
	if sc == nil || a.flyCam == nil {
		return
	}
	a.ed.Select(picking.Nearest(a.ray(x, y, a.flyCam), sc.Objects))
}

func (a *App) updateFlyCamera() {
	if a.flyCam == nil {
		return
	}
	var forward, right float32
	if a.in.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if a.in.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if a.in.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if a.in.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if forward != 0 || right != 0 {
		a.flyCam.Move(forward, right)
	}
}

// syncMode uploads or releases GPU data when the editor changes mode or
// shows a different scene.
func (a *App) syncMode() {
	if a.ed.Mode() == editor.ModeEdit {
		if a.shown != nil {
			a.releaseScene()
			a.ren.SetClearColor(editorBackground)
			a.win.SetRelativeMouse(false)
			a.win.SetTitle(editTitle)
		}
		return
	}
	if sc := a.ed.Scene(); sc != a.shown {
		a.releaseScene()
		a.showScene(sc)
	}
}

func (a *App) showScene(sc *scene.Scene) {
	a.shown = sc
	for _, o := range sc.Objects {
		a.meshes[o] = renderer.UploadMesh(o.Mesh)
	}
	for _, c := range sc.Curves {
		var pts []math.Vec3
		if c.Samples != nil {
			pts = c.Samples.Closed()
		}
		a.curves = append(a.curves, renderer.NewLines(pts))
	}

	g := sc.Global
	a.flyCam = camera.NewFlyCamera(g.CameraPos, g.CameraFront)
	a.flyCam.Fov = g.Fov
	a.flyCam.NearPlane = g.NearPlane
	a.flyCam.FarPlane = g.FarPlane
	a.flyCam.Sensitivity = g.Sensitivity
	a.flyCam.Speed = g.CameraSpeed
	a.ren.SetClearColor(lighting.SkyColor)
	if exp := a.ed.Exported(); exp != nil && exp.SceneFile != "" {
		a.win.SetTitle(editTitle + " - " + filepath.Base(exp.SceneFile))
	}

	a.log.Debug("scene uploaded",
		zap.Int("meshes", len(a.meshes)),
		zap.Int("curves", len(a.curves)))
}

func (a *App) releaseScene() {
	for o, m := range a.meshes {
		m.Delete()
		delete(a.meshes, o)
	}
	for _, l := range a.curves {
		l.Delete()
	}
	a.curves = nil
	a.shown = nil
	a.flyCam = nil
}

func (a *App) drawEditor() {
	if rev := a.ed.Revision(); rev != a.revision {
		a.revision = rev
		pts := a.ed.Points()
		a.control.Update(pts)
		a.preview.Update(a.ed.Preview().Points())
	}
	a.grid.Update(debug.GridLines(a.editCam.Center, a.editCam.HalfHeight*a.ren.Aspect()+gridSpacing, gridSpacing))

	a.ren.Begin()
	a.ren.SetFrame(camera.ViewProjection(a.editCam, a.ren.Aspect()), lighting.Environment{})
	a.ren.DrawLines(a.grid, renderer.LineList, gridColor)
	a.ren.DrawLines(a.control, renderer.LineLoop, controlLineColor)
	a.ren.DrawLines(a.preview, renderer.LineLoop, previewColor)
	a.ren.DrawLines(a.control, renderer.Points, controlPointColor)
}

func (a *App) drawViewer() {
	sc := a.shown
	if sc == nil || a.flyCam == nil {
		a.ren.Begin()
		return
	}

	env := lighting.FromGlobal(sc.Global)
	env.CameraPos = a.flyCam.Position()

	a.ren.Begin()
	a.ren.SetFrame(camera.ViewProjection(a.flyCam, a.ren.Aspect()), env)

	selected, hasSelection := a.ed.Selected()
	for _, o := range sc.Objects {
		style := renderer.MeshStyle{Material: o.Material}
		if hasSelection && o == selected {
			style.Highlight = selectedHighlight
		}
		a.ren.DrawMesh(a.meshes[o], o.ModelMatrix(), style)
	}

	if a.ed.ShowCurves {
		for i, c := range sc.Curves {
			a.ren.DrawLines(a.curves[i], renderer.LineStrip, c.Color)
		}
	}
	if hasSelection {
		a.selection.Update(debug.BoxLines(selected.Bounds(), debug.DefaultBoxPadding))
		a.ren.DrawLines(a.selection, renderer.LineList, selectionColor)
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.ren.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
