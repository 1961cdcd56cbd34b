package voice

import (
	"testing"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/stretchr/testify/assert"
)

func profileFor(native, target string) core.VoiceProfile {
	p := core.DefaultVoiceProfile(1)
	p.NativeLanguage = native
	p.TargetLanguage = target
	p.NativeVoice = "native-voice"
	p.TargetVoice = "target-voice"
	return p
}

func TestResolveVoice(t *testing.T) {
	tests := []struct {
		name         string
		native       string
		target       string
		responseLang string
		want         string
	}{
		{"native language uses native voice", "Spanish", "English", "es-ES", "native-voice"},
		{"target language uses target voice", "Spanish", "English", "en-US", "target-voice"},
		{"primary code alone matches", "Spanish", "English", "en", "target-voice"},
		{"third language falls back to table", "Spanish", "English", "fr-FR", "fr-FR-Studio-A"},
		{"japanese from table", "Spanish", "English", "ja-JP", "ja-JP-Neural2-B"},
		{"unknown language uses target voice", "Spanish", "English", "xx-XX", "target-voice"},
		{"spanish names resolve the same", "Español", "Inglés", "en-US", "target-voice"},
		{"underscore separator tolerated", "Spanish", "English", "en_US", "target-voice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveVoice(profileFor(tt.native, tt.target), tt.responseLang)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecognitionHints(t *testing.T) {
	t.Run("target leads, native and defaults follow", func(t *testing.T) {
		primary, alts := RecognitionHints(profileFor("Spanish", "English"))
		assert.Equal(t, "en-US", primary)
		assert.Equal(t, []string{"es-ES"}, alts)
	})

	t.Run("distinct languages fill alternatives without the primary", func(t *testing.T) {
		primary, alts := RecognitionHints(profileFor("French", "German"))
		assert.Equal(t, "de-DE", primary)
		assert.Equal(t, []string{"fr-FR", "en-US", "es-ES"}, alts)
	})

	t.Run("never more than three alternatives", func(t *testing.T) {
		_, alts := RecognitionHints(profileFor("Japanese", "Russian"))
		assert.LessOrEqual(t, len(alts), 3)
	})

	t.Run("unknown target defaults to en-US", func(t *testing.T) {
		primary, _ := RecognitionHints(profileFor("Spanish", "Klingon"))
		assert.Equal(t, "en-US", primary)
	})
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en", LanguageCode("English"))
	assert.Equal(t, "en", LanguageCode("inglés"))
	assert.Equal(t, "pt", LanguageCode("Portugués"))
	assert.Equal(t, "", LanguageCode("Esperanto"))
}
