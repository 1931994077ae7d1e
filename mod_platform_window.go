package gekko

import (
	"fmt"
	"reflect"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is created
// and made available as a resource for any renderer or input module.
// Install is idempotent: if a WindowState resource already exists, it is reused.
type PlatformWindowModule struct {
	Config WindowConfig
}

// NewPlatformWindow creates a module that provides a shared WindowState resource.
// If width/height are zero, sensible defaults are used.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	cfg := DefaultWindowConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.Title = title
	return &PlatformWindowModule{Config: cfg.withDefaults()}
}

// Install provides the WindowState resource if missing.
func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeFor[WindowState]()) {
		// Already created by another module (or user code); no-op to preserve single-window invariant.
		return
	}

	ws, err := createWindowState(m.Config, app.Logger().Target(LogTargetWindow))
	if err != nil {
		cmd.Fail(fmt.Errorf("window: %w", err))
		return
	}
	app.addResources(ws)
	installWindowEvents(app)
}

// HeadlessWindowModule provides a WindowState without a native window.
// Systems depending on the window run unchanged; nothing is displayed.
type HeadlessWindowModule struct {
	Config WindowConfig
}

func (m HeadlessWindowModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeFor[WindowState]()) {
		return
	}
	app.addResources(newHeadlessWindowState(m.Config))
	installWindowEvents(app)
}

func installWindowEvents(app *App) {
	app.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

// windowEventsSystem pumps native events and turns a close request into an app exit.
func windowEventsSystem(s *WindowState, cmd *Commands) {
	if s.windowGlfw != nil {
		glfw.PollEvents()
	}
	if s.ShouldClose() {
		cmd.Exit()
	}
}
