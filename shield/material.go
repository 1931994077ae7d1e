// Package shield is the scene viewer demo: a grid of translucent,
// rim-lit spheres slowly spinning in front of a fixed camera.
package shield

import (
	"embed"

	gekko "github.com/gekko3d/sceneviewer"
)

// ShaderPath is the shield shader inside Shaders. Both stages live in it.
const ShaderPath gekko.ShaderRef = "shield.wgsl"

//go:embed shield.wgsl
var Shaders embed.FS

// ShieldMaterial shades a surface with a fresnel rim. Alpha is the mode the
// shields are spawned with; AlphaMode() still reports Blend whatever Alpha
// holds, so Setup registers the material WithAlphaMode(Alpha).
type ShieldMaterial struct {
	Alpha gekko.AlphaMode
}

func (m ShieldMaterial) VertexShader() gekko.ShaderRef   { return ShaderPath }
func (m ShieldMaterial) FragmentShader() gekko.ShaderRef { return ShaderPath }
func (m ShieldMaterial) AlphaMode() gekko.AlphaMode      { return gekko.AlphaBlend }
