package gekko

import "fmt"

// AlphaMode is the compositing rule used when drawing a surface over the
// existing framebuffer contents.
type AlphaMode int

// Alpha modes.
const (
	// No transparency.
	// Alpha channel is unconditionally set to 1.0.
	AlphaOpaque AlphaMode = iota
	// Either fully opaque or fully transparent,
	// as determined by the shader.
	AlphaMask
	// Composition with background.
	AlphaBlend
	// Color is already multiplied by alpha.
	AlphaPremultiplied
	// Color is added on top of the background.
	AlphaAdd
	// Color multiplies the background.
	AlphaMultiply
)

func (m AlphaMode) String() string {
	switch m {
	case AlphaOpaque:
		return "opaque"
	case AlphaMask:
		return "mask"
	case AlphaBlend:
		return "blend"
	case AlphaPremultiplied:
		return "premultiplied"
	case AlphaAdd:
		return "add"
	case AlphaMultiply:
		return "multiply"
	}
	return fmt.Sprintf("AlphaMode(%d)", int(m))
}

// Translucent reports whether the mode reads the framebuffer it draws over.
func (m AlphaMode) Translucent() bool {
	return m != AlphaOpaque && m != AlphaMask
}

func validateAlphaMode(mode AlphaMode) error {
	switch mode {
	case AlphaOpaque, AlphaMask, AlphaBlend, AlphaPremultiplied, AlphaAdd, AlphaMultiply:
		return nil
	}
	return fmt.Errorf("undefined alpha mode constant %d", int(mode))
}
