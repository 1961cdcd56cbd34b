package conversation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/lingobot/internal/core"
)

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}

// promptBuilder assembles the system instruction for one turn.
type promptBuilder struct {
	pronunciationThreshold float64
	factTokenBudget        int
}

// factsSection renders long-term memory, newest facts first, trimmed to
// the token budget so memory never crowds out the conversation itself.
func (pb *promptBuilder) factsSection(facts []core.UserFact) string {
	if len(facts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("WHAT YOU KNOW ABOUT THE STUDENT:\n")
	used := 0
	for i := len(facts) - 1; i >= 0; i-- {
		line := "- " + facts[i].Fact + "\n"
		cost := countTokens(line)
		if used+cost > pb.factTokenBudget {
			break
		}
		used += cost
		b.WriteString(line)
	}
	return b.String()
}

func (pb *promptBuilder) pronunciationSection(confidence float64) string {
	if confidence >= pb.pronunciationThreshold {
		return ""
	}
	return fmt.Sprintf(`ATTENTION: speech recognition struggled with the user's last utterance (confidence %.2f).
This points to mispronunciation or an STT misread.
REQUIRED:
1. Identify the hardest word or phrase in what the user said.
2. Deduce what the user MEANT from phonetics and context.
   Example: "I want to dream coffee" was probably "I want to drink coffee".
3. Put the deduced phrase in the JSON field 'texto_corregido_fonetico'.
4. Put the phonetic advice in 'tip_pronunciacion'. It MUST NOT be null.
5. Be kind about it.
`, confidence)
}

// build produces the full system instruction: persona, student memory,
// language setup, pronunciation coaching when recognition was shaky,
// interaction rules and the strict JSON contract.
func (pb *promptBuilder) build(scenario Scenario, profile core.VoiceProfile, facts []core.UserFact, detectedLang string, confidence float64) string {
	var b strings.Builder

	b.WriteString(scenario.persona())
	b.WriteString("\n\n")

	if fs := pb.factsSection(facts); fs != "" {
		b.WriteString(fs)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `TECHNICAL CONTEXT:
- The user is a native %s speaker learning %s.
- The user spoke to you in: %s.
- Speech recognition confidence (0-1): %.2f.

`, profile.NativeLanguage, profile.TargetLanguage, detectedLang, confidence)

	if ps := pb.pronunciationSection(confidence); ps != "" {
		b.WriteString(ps)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `INTERACTION RULES:
1. ALWAYS stay in character (%s).
2. Answer in %s unless the user is completely lost in %s.
3. CORRECTIONS: whatever your character, you are still a tutor underneath.
   On a serious grammar mistake fill 'correccion' and 'explicacion' (in %s),
   but keep 'respuesta_bot' in character and in %s so immersion is not broken.
4. When the user shares a lasting personal fact, add it to 'nuevos_datos_aprendidos'.
5. When you introduce a useful new word, add it to 'nuevas_palabras' with a translation and an example sentence.
6. Always fill 'auditoria' with a toxicity assessment of the user's message.
7. NEVER use emojis. Text-to-speech reads them aloud and ruins the audio.
8. 'respuesta_audio' may add natural spoken fillers; 'respuesta_bot' stays clean for the transcript.

STRICT JSON RESPONSE FORMAT:
{
    "respuesta_bot": "clean text the character says",
    "respuesta_audio": "same reply with natural spoken fillers",
    "idioma_respuesta": "BCP-47 tag, e.g. en-US",
    "hay_error": true/false,
    "texto_original": "...",
    "correccion": "...",
    "explicacion": "short explanation in %s",
    "tip_pronunciacion": "phonetic advice (or null)",
    "texto_corregido_fonetico": "what the user probably meant (or null)",
    "nuevos_datos_aprendidos": ["..."],
    "nuevas_palabras": [{"palabra": "...", "traduccion": "...", "ejemplo": "..."}],
    "auditoria": {"es_toxico": true/false, "categoria": "SAFE|...", "confianza": 0.0}
}`,
		scenario, profile.TargetLanguage, profile.NativeLanguage,
		profile.NativeLanguage, profile.TargetLanguage, profile.NativeLanguage)

	return b.String()
}
