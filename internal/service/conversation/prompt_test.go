package conversation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/stretchr/testify/assert"
)

func testBuilder() promptBuilder {
	return promptBuilder{pronunciationThreshold: 0.85, factTokenBudget: 400}
}

func TestBuild_PronunciationBlockThreshold(t *testing.T) {
	pb := testBuilder()
	profile := core.DefaultVoiceProfile(1)

	t.Run("injected below threshold", func(t *testing.T) {
		got := pb.build(ScenarioGeneral, profile, nil, "en-US", 0.60)
		assert.Contains(t, got, "tip_pronunciacion'. It MUST NOT be null")
	})

	t.Run("absent at threshold", func(t *testing.T) {
		got := pb.build(ScenarioGeneral, profile, nil, "en-US", 0.85)
		assert.NotContains(t, got, "MUST NOT be null")
	})

	t.Run("absent for confident speech", func(t *testing.T) {
		got := pb.build(ScenarioGeneral, profile, nil, "en-US", 0.99)
		assert.NotContains(t, got, "MUST NOT be null")
	})
}

func TestBuild_CarriesLanguagesAndPersona(t *testing.T) {
	pb := testBuilder()
	profile := core.DefaultVoiceProfile(1)
	profile.NativeLanguage = "French"
	profile.TargetLanguage = "German"

	got := pb.build(ScenarioAirport, profile, nil, "de-DE", 1.0)
	assert.Contains(t, got, "native French speaker learning German")
	assert.Contains(t, got, "immigration officer")
	assert.Contains(t, got, "respuesta_audio")
	assert.Contains(t, got, "auditoria")
}

func TestFactsSection_Budget(t *testing.T) {
	pb := testBuilder()
	pb.factTokenBudget = 30

	var facts []core.UserFact
	for i := 0; i < 50; i++ {
		facts = append(facts, core.UserFact{Fact: fmt.Sprintf("fact number %d about the student", i)})
	}

	section := pb.factsSection(facts)
	// Newest facts win when the budget runs out.
	assert.Contains(t, section, "fact number 49")
	assert.NotContains(t, section, "fact number 0 ")
	assert.Less(t, countTokens(section), 60)
}

func TestFactsSection_Empty(t *testing.T) {
	pb := testBuilder()
	assert.Empty(t, pb.factsSection(nil))
}

func TestFactsSection_AllFitUnderBudget(t *testing.T) {
	pb := testBuilder()
	facts := []core.UserFact{{Fact: "likes chess"}, {Fact: "works as a nurse"}}

	section := pb.factsSection(facts)
	assert.Equal(t, 2, strings.Count(section, "- "))
	assert.Contains(t, section, "likes chess")
	assert.Contains(t, section, "works as a nurse")
}
