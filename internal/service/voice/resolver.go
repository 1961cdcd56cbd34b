package voice

import "strings"

// languageCodes maps spelled-out language names, as stored in user
// profiles and reported by the model, to primary language codes.
var languageCodes = map[string]string{
	"inglés":     "en",
	"english":    "en",
	"español":    "es",
	"spanish":    "es",
	"francés":    "fr",
	"french":     "fr",
	"alemán":     "de",
	"german":     "de",
	"italiano":   "it",
	"italian":    "it",
	"portugués":  "pt",
	"portuguese": "pt",
	"japonés":    "ja",
	"japanese":   "ja",
	"chino":      "zh",
	"chinese":    "zh",
	"ruso":       "ru",
	"russian":    "ru",
}

// regionalCodes maps primary language codes to the regional recognition
// codes used for speech hints.
var regionalCodes = map[string]string{
	"en": "en-US",
	"es": "es-ES",
	"fr": "fr-FR",
	"de": "de-DE",
	"it": "it-IT",
	"pt": "pt-BR",
	"ja": "ja-JP",
	"zh": "zh-CN",
	"ru": "ru-RU",
}

// fallbackVoices covers languages the tutor may answer in that match
// neither of the user's configured voices.
var fallbackVoices = map[string]string{
	"en": "en-US-Studio-O",
	"es": "es-ES-Studio-C",
	"fr": "fr-FR-Studio-A",
	"de": "de-DE-Studio-C",
	"it": "it-IT-Neural2-A",
	"pt": "pt-BR-Neural2-A",
	"ja": "ja-JP-Neural2-B",
	"zh": "zh-CN-Wavenet-A",
	"ru": "ru-RU-Wavenet-A",
}

// LanguageCode resolves a spelled-out language name to its primary
// code. Unknown names resolve to empty.
func LanguageCode(name string) string {
	return languageCodes[strings.ToLower(strings.TrimSpace(name))]
}

// RegionalCode resolves a spelled-out language name to the regional
// code used for speech recognition, e.g. "English" -> "en-US".
func RegionalCode(name string) string {
	return regionalCodes[LanguageCode(name)]
}

// primaryOf reduces a language tag to its primary subtag, e.g.
// "en-US" -> "en".
func primaryOf(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i != -1 {
		return tag[:i]
	}
	return tag
}
