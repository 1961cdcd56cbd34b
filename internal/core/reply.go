package core

// TutorReply is the structured result the generative provider must return.
// The wire field names match the JSON contract the system instruction
// mandates.
type TutorReply struct {
	BotText          string       `json:"respuesta_bot"`
	AudioText        string       `json:"respuesta_audio"`
	ResponseLanguage string       `json:"idioma_respuesta"`
	HasError         bool         `json:"hay_error"`
	OriginalText     string       `json:"texto_original"`
	Correction       string       `json:"correccion"`
	Explanation      string       `json:"explicacion"`
	PronunciationTip *string      `json:"tip_pronunciacion"`
	PhoneticGuess    *string      `json:"texto_corregido_fonetico"`
	LearnedFacts     []string     `json:"nuevos_datos_aprendidos"`
	NewVocabulary    []VocabEntry `json:"nuevas_palabras"`
	Audit            *ReplyAudit  `json:"auditoria"`
}

type VocabEntry struct {
	Word        string `json:"palabra"`
	Translation string `json:"traduccion"`
	Example     string `json:"ejemplo"`
}

type ReplyAudit struct {
	Toxic      bool    `json:"es_toxico"`
	Category   string  `json:"categoria"`
	Confidence float64 `json:"confianza"`
}

// SpokenText returns the variant sent to speech synthesis. The audio
// channel may carry conversational fillers the clean channel omits.
func (r *TutorReply) SpokenText() string {
	if r.AudioText != "" {
		return r.AudioText
	}
	return r.BotText
}

// QuizSheet is the structured result of a quiz-generation call.
type QuizSheet struct {
	Title     string          `json:"titulo"`
	Questions []SheetQuestion `json:"preguntas"`
}

type SheetQuestion struct {
	Number        int      `json:"numero"`
	Question      string   `json:"pregunta"`
	Options       []string `json:"opciones"`
	CorrectOption int      `json:"respuesta_correcta"`
	Explanation   string   `json:"explicacion"`
	Category      string   `json:"categoria"`
}
