package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_Transitions(t *testing.T) {
	input := &Input{}

	input.Press(KeyEscape)
	assert.True(t, input.Pressed[KeyEscape])
	assert.True(t, input.JustPressed[KeyEscape])

	input.ClearTransitions()
	input.Press(KeyEscape)
	assert.True(t, input.Pressed[KeyEscape])
	assert.False(t, input.JustPressed[KeyEscape], "held keys are not just pressed")

	input.ClearTransitions()
	input.Release(KeyEscape)
	assert.False(t, input.Pressed[KeyEscape])
	assert.True(t, input.JustReleased[KeyEscape])

	input.ClearTransitions()
	input.Release(KeyEscape)
	assert.False(t, input.JustReleased[KeyEscape])
}

func TestInputModule_Headless(t *testing.T) {
	app := NewAppBuilder().UseModule(HeadlessWindowModule{}, InputModule{}).Build()
	input, ok := Resource[Input](app)
	assert.True(t, ok)

	var seen []bool
	app.UseSystem(System(func(input *Input) {
		seen = append(seen, input.JustPressed[KeySpace])
	}).InStage(Update).RunAlways())

	input.Press(KeySpace)
	app.Update()
	app.Update()
	app.Update()

	assert.Equal(t, []bool{true, false, false}, seen, "a fed press is just-pressed for one frame")
	assert.True(t, input.Pressed[KeySpace], "the key stays held")
	assert.False(t, input.JustPressed[KeySpace])
}

func TestKeyTables(t *testing.T) {
	for key := range keyToGlfw {
		assert.Less(t, key, MouseButtonLeft)
	}
	for btn := range buttonToGlfw {
		assert.GreaterOrEqual(t, btn, MouseButtonLeft)
		assert.Less(t, btn, inputSlots)
	}
}
