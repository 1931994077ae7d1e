package gekko

import "fmt"

// RendererTag records which renderer owns the window surface.
// Only one renderer can be installed at a time.
type RendererTag struct {
	Name string
}

const rendererMesh = "mesh"

// claimRenderer registers name as the app's renderer. Installing the same
// renderer twice reports already=true; a different one is an error.
func claimRenderer(app *App, name string) (already bool, err error) {
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			return false, fmt.Errorf("multiple renderers installed: %s and %s", tag.Name, name)
		}
		return true, nil
	}
	app.addResources(&RendererTag{Name: name})
	return false, nil
}
