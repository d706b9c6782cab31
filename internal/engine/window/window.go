// Package window creates the SDL2 window and its OpenGL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/trackforge/internal/config"
	"github.com/Faultbox/trackforge/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window settings.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
	MSAA   int
}

// FromConfig builds window settings from the application config.
func FromConfig(title string, cfg config.WindowConfig) Config {
	return Config{
		Title:  title,
		Width:  cfg.Width,
		Height: cfg.Height,
		VSync:  cfg.VSync,
		MSAA:   cfg.MSAA,
	}
}

// Window owns the SDL window and GL context.
type Window struct {
	cfg  Config
	log  *zap.Logger
	win  *sdl.Window
	glCx sdl.GLContext
}

// New initializes SDL video and opens a resizable window with a current
// GL context.
func New(cfg Config) (*Window, error) {
	w := &Window{cfg: cfg, log: logger.Named("window")}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// 4.1 core is the newest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.MSAA > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.MSAA)
	}

	var err error
	w.win, err = sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glCx, err = w.win.GLCreateContext()
	if err != nil {
		w.win.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	dw, dh := w.DrawableSize()
	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", dw),
		zap.Int("drawable_height", dh),
		zap.Int("msaa", cfg.MSAA),
		zap.Bool("vsync", cfg.VSync))
	return w, nil
}

// Close destroys the context and window and shuts SDL down.
func (w *Window) Close() {
	if w.glCx != nil {
		sdl.GLDeleteContext(w.glCx)
	}
	if w.win != nil {
		w.win.Destroy()
	}
	sdl.Quit()
	w.log.Debug("window closed")
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.win.GLSwap()
}

// Size returns the window size in screen coordinates, the space mouse
// events are reported in.
func (w *Window) Size() (int, int) {
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels. It exceeds Size on
// high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.win.GLGetDrawableSize()
	return int(width), int(height)
}

// SetRelativeMouse captures the cursor for mouse-look.
func (w *Window) SetRelativeMouse(on bool) {
	sdl.SetRelativeMouseMode(on)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}
