package conversation

import (
	"strings"
	"unicode/utf8"
)

// Scenario selects the roleplay persona for a session. Free-form
// scenario strings from clients collapse onto this closed set.
type Scenario string

const (
	ScenarioGeneral   Scenario = "general"
	ScenarioCafe      Scenario = "cafe"
	ScenarioAirport   Scenario = "airport"
	ScenarioInterview Scenario = "interview"
	ScenarioDoctor    Scenario = "doctor"
)

// ParseScenario maps client input onto a known scenario, defaulting to
// the general tutor.
func ParseScenario(s string) Scenario {
	switch Scenario(strings.ToLower(strings.TrimSpace(s))) {
	case ScenarioCafe:
		return ScenarioCafe
	case ScenarioAirport:
		return ScenarioAirport
	case ScenarioInterview:
		return ScenarioInterview
	case ScenarioDoctor:
		return ScenarioDoctor
	default:
		return ScenarioGeneral
	}
}

func (s Scenario) persona() string {
	switch s {
	case ScenarioCafe:
		return `ACT AS: an impatient waiter in a busy London coffee shop.
YOUR GOAL: take the customer's order. It is morning and the place is loud.
Stay in character. If the user drifts off topic, steer back to the order.`
	case ScenarioAirport:
		return `ACT AS: a strict immigration officer at JFK airport in New York.
YOUR GOAL: decide whether to let the user into the country.
KEY QUESTIONS: purpose of the trip, length of stay, where they are staying.
Be formal and serious.`
	case ScenarioInterview:
		return `ACT AS: a recruiter at a large tech company running a job interview.
YOUR GOAL: evaluate the candidate's soft skills.
Ask about strengths, weaknesses, and why they want the job.`
	case ScenarioDoctor:
		return `ACT AS: a kind doctor at a clinic.
YOUR GOAL: diagnose what hurts. Ask about symptoms and for how long.`
	default:
		return "You are a friendly expert language tutor. Talk about anything the student brings up."
	}
}

const titleRunes = 20

// SessionTitle names a new session. Roleplay sessions are named after
// the scenario; free conversation takes the start of the first message.
func SessionTitle(scenario Scenario, firstUtterance string) string {
	if scenario != ScenarioGeneral {
		return "Rol: " + capitalize(string(scenario))
	}
	if utf8.RuneCountInString(firstUtterance) <= titleRunes {
		return firstUtterance
	}
	runes := []rune(firstUtterance)
	return string(runes[:titleRunes]) + "..."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
