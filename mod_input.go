package gekko

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyEscape int = iota
	KeySpace
	KeyEnter
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

const inputSlots = MouseButtonMiddle + 1

type InputModule struct{}

type Input struct {
	Pressed [inputSlots]bool

	JustPressed  [inputSlots]bool
	JustReleased [inputSlots]bool

	MouseX, MouseY float64
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(clearInputSystem).
			InStage(Finale).
			RunAlways(),
	)
}

// Press and Release feed a button transition into the input state, the
// same way native polling does.
func (input *Input) Press(key int)   { input.update(key, true) }
func (input *Input) Release(key int) { input.update(key, false) }

// ClearTransitions resets the just-pressed/just-released flags of every button.
func (input *Input) ClearTransitions() {
	input.JustPressed = [inputSlots]bool{}
	input.JustReleased = [inputSlots]bool{}
}

func (input *Input) update(key int, down bool) {
	if down {
		input.JustPressed[key] = !input.Pressed[key]
		input.Pressed[key] = true
		return
	}
	input.JustReleased[key] = input.Pressed[key]
	input.Pressed[key] = false
}

// inputSystem samples keyboard and mouse state after Prelude pumped the
// window events. Headless windows keep whatever the caller fed in.
func inputSystem(s *WindowState, input *Input) {
	if s.windowGlfw == nil {
		return
	}

	for key, glfwKey := range keyToGlfw {
		switch s.windowGlfw.GetKey(glfwKey) {
		case glfw.Press, glfw.Repeat:
			input.update(key, true)
		case glfw.Release:
			input.update(key, false)
		}
	}
	for btn, glfwBtn := range buttonToGlfw {
		switch s.windowGlfw.GetMouseButton(glfwBtn) {
		case glfw.Press:
			input.update(btn, true)
		case glfw.Release:
			input.update(btn, false)
		}
	}
	input.MouseX, input.MouseY = s.windowGlfw.GetCursorPos()
}

var keyToGlfw = map[int]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	KeySpace:  glfw.KeySpace,
	KeyEnter:  glfw.KeyEnter,
	KeyTab:    glfw.KeyTab,
	KeyRight:  glfw.KeyRight,
	KeyLeft:   glfw.KeyLeft,
	KeyDown:   glfw.KeyDown,
	KeyUp:     glfw.KeyUp,
	KeyF1:     glfw.KeyF1,
	KeyF2:     glfw.KeyF2,
	KeyF3:     glfw.KeyF3,
	KeyF4:     glfw.KeyF4,
}

var buttonToGlfw = map[int]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

// clearInputSystem ends the frame's transitions so a press is just-pressed
// for exactly one frame, polled or fed.
func clearInputSystem(input *Input) {
	input.ClearTransitions()
}
