package main

import (
	"fmt"
	"os"
	"runtime"

	gekko "github.com/gekko3d/sceneviewer"
	"github.com/gekko3d/sceneviewer/shield"
)

func init() {
	// GLFW requires window and event calls on the main thread.
	runtime.LockOSThread()
}

func main() {
	window := gekko.DefaultWindowConfig()
	window.Title = "Scene Viewer"
	window.Width = 450
	window.Height = 800
	window.Resizable = false
	window.Theme = gekko.WindowThemeDark
	window.PresentMode = gekko.PresentModeAutoVsync
	window.EnabledButtons = gekko.EnabledButtons{Minimize: false, Maximize: false, Close: true}
	// revealed by shield.MakeVisible after the warmup frames
	window.Visible = false

	app := gekko.NewAppBuilder().
		UseStates(shield.StateWarmup, shield.StateExiting).
		UseModule(
			gekko.LoggingModule{Filter: "info,wgpu=error,glfw=error"},
			gekko.TimeModule{},
			gekko.PlatformWindowModule{Config: window},
			gekko.InputModule{},
			gekko.AssetServerModule{Shaders: shield.Shaders},
			gekko.MeshRenderModule{},
			shield.Module{},
		).
		Build()

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "sceneviewer:", err)
		os.Exit(1)
	}
}
