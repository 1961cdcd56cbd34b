package voice

import (
	"context"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/pkg/log"
)

const (
	minSpeakingRate = 0.5
	maxSpeakingRate = 1.5
	minCooldownDays = 1
	maxCooldownDays = 30
	maxHints        = 3
)

// Service resolves which voice speaks a reply, manages per-user voice
// settings, and fronts the synthesizer for previews and single words.
type Service struct {
	profiles core.ProfilesRepository
	synth    core.Synthesizer
}

func NewService(profiles core.ProfilesRepository, synth core.Synthesizer) *Service {
	return &Service{profiles: profiles, synth: synth}
}

// ResolveVoice picks the voice for a reply in responseLang. The user's
// own native and target voices win over the fallback table, so custom
// voice choices are honored whenever the tutor speaks one of the two
// configured languages.
func ResolveVoice(profile core.VoiceProfile, responseLang string) string {
	code := primaryOf(responseLang)
	switch code {
	case LanguageCode(profile.NativeLanguage):
		return profile.NativeVoice
	case LanguageCode(profile.TargetLanguage):
		return profile.TargetVoice
	}
	if v, ok := fallbackVoices[code]; ok {
		return v
	}
	return profile.TargetVoice
}

// RecognitionHints returns the primary recognition language and up to
// three alternatives for speech input. The target language leads; the
// native language plus the two most common app languages fill the
// alternatives, minus whatever already leads.
func RecognitionHints(profile core.VoiceProfile) (string, []string) {
	primary := RegionalCode(profile.TargetLanguage)
	if primary == "" {
		primary = "en-US"
	}

	candidates := []string{RegionalCode(profile.NativeLanguage), "en-US", "es-ES"}
	seen := map[string]bool{primary: true}
	alts := make([]string, 0, maxHints)
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		alts = append(alts, c)
		if len(alts) == maxHints {
			break
		}
	}
	return primary, alts
}

func (s *Service) Profile(ctx context.Context, userID int64) (core.VoiceProfile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// UpdateSettings validates and saves the user's voice and gamification
// cadence settings.
func (s *Service) UpdateSettings(ctx context.Context, p core.VoiceProfile) error {
	if p.SpeakingRate < minSpeakingRate || p.SpeakingRate > maxSpeakingRate {
		return core.Invalidf("speaking rate %.2f outside [%.1f, %.1f]", p.SpeakingRate, minSpeakingRate, maxSpeakingRate)
	}
	if p.CooldownDays < minCooldownDays || p.CooldownDays > maxCooldownDays {
		return core.Invalidf("cooldown %d days outside [%d, %d]", p.CooldownDays, minCooldownDays, maxCooldownDays)
	}
	if p.TargetVoice == "" || p.NativeVoice == "" {
		return core.Invalidf("voice names must not be empty")
	}
	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return fmt.Errorf("save voice profile: %w", err)
	}
	log.FromCtx(ctx).Info().Int64("user_id", p.UserID).Str("target_voice", p.TargetVoice).Msg("voice settings updated")
	return nil
}

// Preview synthesizes a short sample with the given voice at the user's
// configured rate, so settings can be auditioned before saving.
func (s *Service) Preview(ctx context.Context, userID int64, voiceCode, sample string) ([]byte, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if sample == "" {
		sample = "Hello! This is how I sound."
	}
	return s.synth.Synthesize(ctx, sample, voiceCode, profile.SpeakingRate)
}

// SpeakWord pronounces a single vocabulary word in the target voice.
func (s *Service) SpeakWord(ctx context.Context, userID int64, word string) ([]byte, error) {
	if word == "" {
		return nil, core.Invalidf("word must not be empty")
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return s.synth.Synthesize(ctx, word, profile.TargetVoice, profile.SpeakingRate)
}
