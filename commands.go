package gekko

// Command is a deferred, self-contained mutation applied through Commands,
// typically a bundle of components spawned together.
type Command interface {
	Apply(cmd *Commands)
}

type Commands struct {
	app *App
}

// Add applies a Command. Structural changes it makes are buffered like any
// other Commands call and land at the next flush.
func (cmd *Commands) Add(command Command) *Commands {
	command.Apply(cmd)
	return cmd
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

// Exit asks the app to stop after the current frame. Stateful apps move
// into their final state so its exit systems still run.
func (cmd *Commands) Exit() {
	cmd.app.requestExit()
}

// Fail records a fatal error and stops the app. Only the first error is kept.
func (cmd *Commands) Fail(err error) {
	cmd.app.fail(err)
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pendingAdditions = append(cmd.app.pendingAdditions, pendingAdd{
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompAdds = append(cmd.app.pendingCompAdds, pendingCompAdd{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveComponents(entityId EntityId, components ...any) {
	cmd.app.pendingCompRemovals = append(cmd.app.pendingCompRemovals, pendingCompRemoval{
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pendingRemovals = append(cmd.app.pendingRemovals, entityId)
}

// GetAllComponents returns copies of the components currently stored for an
// entity. Buffered additions are not visible until the next flush.
func (cmd *Commands) GetAllComponents(entityId EntityId) []any {
	return cmd.app.ecs.components(entityId)
}

// EntityCount reports live entities, excluding buffered additions.
func (cmd *Commands) EntityCount() int {
	return cmd.app.ecs.EntityCount()
}
