package gekko

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowTheme int

const (
	WindowThemeSystem WindowTheme = iota
	WindowThemeLight
	WindowThemeDark
)

type PresentMode int

const (
	PresentModeAutoVsync PresentMode = iota
	PresentModeAutoNoVsync
	PresentModeFifo
	PresentModeImmediate
	PresentModeMailbox
)

type EnabledButtons struct {
	Minimize bool
	Maximize bool
	Close    bool
}

type WindowConfig struct {
	Title          string
	Width          int
	Height         int
	Resizable      bool
	Visible        bool
	Theme          WindowTheme
	PresentMode    PresentMode
	EnabledButtons EnabledButtons
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:          "Gekko",
		Width:          1280,
		Height:         720,
		Resizable:      true,
		Visible:        true,
		PresentMode:    PresentModeAutoVsync,
		EnabledButtons: EnabledButtons{Minimize: true, Maximize: true, Close: true},
	}
}

func (c WindowConfig) withDefaults() WindowConfig {
	def := DefaultWindowConfig()
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	return c
}

// WindowState is the shared window resource. A nil native window means the
// app runs headless: visibility and close requests are tracked but not shown.
type WindowState struct {
	// glfw
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	presentMode    PresentMode
	visible        bool
	closeRequested bool
}

func newHeadlessWindowState(cfg WindowConfig) *WindowState {
	cfg = cfg.withDefaults()
	return &WindowState{
		WindowWidth:  cfg.Width,
		WindowHeight: cfg.Height,
		windowTitle:  cfg.Title,
		presentMode:  cfg.PresentMode,
		visible:      cfg.Visible,
	}
}

func createWindowState(cfg WindowConfig, logger Logger) (*WindowState, error) {
	cfg = cfg.withDefaults()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfwBool(cfg.Resizable))
	glfw.WindowHint(glfw.Visible, glfwBool(cfg.Visible))

	// GLFW 3.3 has no theme or per-button hints.
	if cfg.Theme != WindowThemeSystem {
		logger.Debugf("window theme %d is not supported by glfw, using the system theme", cfg.Theme)
	}
	if !cfg.EnabledButtons.Minimize || !cfg.EnabledButtons.Maximize || !cfg.EnabledButtons.Close {
		logger.Debugf("window button configuration %+v is not supported by glfw", cfg.EnabledButtons)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	logger.Debugf("created window %q %dx%d", cfg.Title, cfg.Width, cfg.Height)

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  cfg.Width,
		WindowHeight: cfg.Height,
		windowTitle:  cfg.Title,
		presentMode:  cfg.PresentMode,
		visible:      cfg.Visible,
	}, nil
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (s *WindowState) Title() string { return s.windowTitle }

func (s *WindowState) Headless() bool { return s.windowGlfw == nil }

func (s *WindowState) PresentMode() PresentMode { return s.presentMode }

func (s *WindowState) Visible() bool { return s.visible }

func (s *WindowState) SetVisible(visible bool) {
	if s.visible == visible {
		return
	}
	s.visible = visible
	if s.windowGlfw == nil {
		return
	}
	if visible {
		s.windowGlfw.Show()
	} else {
		s.windowGlfw.Hide()
	}
}

func (s *WindowState) RequestClose() {
	s.closeRequested = true
	if s.windowGlfw != nil {
		s.windowGlfw.SetShouldClose(true)
	}
}

func (s *WindowState) ShouldClose() bool {
	if s.closeRequested {
		return true
	}
	return s.windowGlfw != nil && s.windowGlfw.ShouldClose()
}

// FramebufferSize returns the drawable size in pixels, which differs from
// the window size on high-DPI displays.
func (s *WindowState) FramebufferSize() (int, int) {
	if s.windowGlfw == nil {
		return s.WindowWidth, s.WindowHeight
	}
	return s.windowGlfw.GetFramebufferSize()
}

func (s *WindowState) Release() {
	if s.windowGlfw == nil {
		return
	}
	s.windowGlfw.Destroy()
	s.windowGlfw = nil
	glfw.Terminate()
}
