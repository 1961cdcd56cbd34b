package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScenario(t *testing.T) {
	assert.Equal(t, ScenarioCafe, ParseScenario("cafe"))
	assert.Equal(t, ScenarioAirport, ParseScenario(" AIRPORT "))
	assert.Equal(t, ScenarioGeneral, ParseScenario(""))
	assert.Equal(t, ScenarioGeneral, ParseScenario("spaceship"))
}

func TestSessionTitle(t *testing.T) {
	t.Run("roleplay names the scenario", func(t *testing.T) {
		assert.Equal(t, "Rol: Cafe", SessionTitle(ScenarioCafe, "hello there"))
		assert.Equal(t, "Rol: Doctor", SessionTitle(ScenarioDoctor, "my arm hurts"))
	})

	t.Run("general takes the first words", func(t *testing.T) {
		assert.Equal(t, "hi!", SessionTitle(ScenarioGeneral, "hi!"))
		got := SessionTitle(ScenarioGeneral, "this message is much longer than twenty characters")
		assert.Equal(t, "this message is much...", got)
	})

	t.Run("multibyte input is cut on rune boundaries", func(t *testing.T) {
		got := SessionTitle(ScenarioGeneral, "día tras día tras día tras día")
		assert.Equal(t, "día tras día tras dí...", got)
	})
}

func TestPersonaTexts(t *testing.T) {
	for _, s := range []Scenario{ScenarioGeneral, ScenarioCafe, ScenarioAirport, ScenarioInterview, ScenarioDoctor} {
		assert.NotEmpty(t, s.persona(), string(s))
	}
	assert.NotEqual(t, ScenarioCafe.persona(), ScenarioDoctor.persona())
}
