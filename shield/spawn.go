package shield

import (
	gekko "github.com/gekko3d/sceneviewer"
)

// Rotatable marks entities spun by the Rotate system.
type Rotatable struct{}

// SpawnShieldedSphere spawns one shield instance sharing the given mesh
// and material handles.
type SpawnShieldedSphere struct {
	Transform      gekko.TransformComponent
	Shield         gekko.Mesh
	ShieldMaterial gekko.Material
}

func (s SpawnShieldedSphere) Apply(cmd *gekko.Commands) {
	cmd.AddEntity(
		&s.Transform,
		&s.Shield,
		&s.ShieldMaterial,
		&gekko.NotShadowCaster{},
		&Rotatable{},
	)
}
