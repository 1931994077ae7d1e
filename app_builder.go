package gekko

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	ecs := MakeEcs()
	return &AppBuilder{app: &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
		stateful:         false,
		ecs:              &ecs,
	}}
}

func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build lays out the default stages and installs modules in the order they
// were added. Installation stops at the first module recording a fatal error.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	if len(app.stages) == 0 {
		for _, stage := range defaultStages {
			app.stages = append(app.stages, stage)
			app.initStatefulStage(stage)
		}
	}

	for _, module := range b.modules {
		module.Install(app, commands)
		if app.err != nil {
			break
		}
	}

	return app
}
