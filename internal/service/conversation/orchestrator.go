package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/internal/service/voice"
	"github.com/sandevgo/lingobot/pkg/log"
)

// degradedBotText is spoken when the provider answered but the payload
// could not be decoded. The turn still completes; the user's message is
// already saved and no bot message is recorded.
const degradedBotText = "Sorry, I got cut off. Could you say that again?"

// Dispatcher is the slice of the provider gateway a turn needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, instruction string, history []core.Message, utterance string) (*core.TutorReply, error)
}

// Awarder grants per-turn XP.
type Awarder interface {
	AwardTurn(ctx context.Context, userID int64) (core.ProgressDelta, error)
}

// TurnInput is one user utterance plus the recognition metadata the
// speech frontend attaches.
type TurnInput struct {
	UserID       int64
	SessionID    string // empty starts a new session
	Utterance    string
	DetectedLang string
	Scenario     string
	Confidence   float64
}

// TurnResult is everything a client needs to render one completed turn.
type TurnResult struct {
	SessionID        string
	BotText          string
	ResponseLanguage string
	VoiceCode        string
	Audio            []byte

	HasError         bool
	OriginalText     string
	Correction       string
	Explanation      string
	PronunciationTip string

	Progress core.ProgressDelta
	Degraded bool
}

// Orchestrator runs the full conversation turn: session resolution,
// message persistence, memory assembly, the provider call, learning
// side effects, speech synthesis and XP.
type Orchestrator struct {
	sessions    core.SessionsRepository
	facts       core.FactsRepository
	vocab       core.VocabularyRepository
	corrections core.CorrectionsRepository
	profiles    core.ProfilesRepository
	gateway     Dispatcher
	synth       core.Synthesizer
	awarder     Awarder

	prompts       promptBuilder
	contextWindow int
	now           func() time.Time
}

type Config struct {
	ContextWindowSize      int
	PronunciationThreshold float64
	FactTokenBudget        int
}

func NewOrchestrator(
	sessions core.SessionsRepository,
	facts core.FactsRepository,
	vocab core.VocabularyRepository,
	corrections core.CorrectionsRepository,
	profiles core.ProfilesRepository,
	gateway Dispatcher,
	synth core.Synthesizer,
	awarder Awarder,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		facts:       facts,
		vocab:       vocab,
		corrections: corrections,
		profiles:    profiles,
		gateway:     gateway,
		synth:       synth,
		awarder:     awarder,
		prompts: promptBuilder{
			pronunciationThreshold: cfg.PronunciationThreshold,
			factTokenBudget:        cfg.FactTokenBudget,
		},
		contextWindow: cfg.ContextWindowSize,
		now:           time.Now,
	}
}

// Turn processes one utterance end to end. The user's message is
// persisted before the provider call and is never rolled back; failures
// in learning side effects degrade the turn instead of failing it.
func (o *Orchestrator) Turn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	if in.Utterance == "" {
		return nil, core.Invalidf("utterance must not be empty")
	}
	logger := log.FromCtx(ctx)
	scenario := ParseScenario(in.Scenario)

	session, err := o.resolveSession(ctx, in, scenario)
	if err != nil {
		return nil, err
	}

	userMsgID, err := o.sessions.AddMessage(ctx, core.Message{
		SessionID: session.ID,
		Role:      core.RoleUser,
		Content:   in.Utterance,
	})
	if err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	history, err := o.sessions.RecentMessages(ctx, session.ID, o.contextWindow, userMsgID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	facts, err := o.facts.ListFacts(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load facts: %w", err)
	}

	profile, err := o.profiles.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	instruction := o.prompts.build(scenario, profile, facts, in.DetectedLang, in.Confidence)

	reply, err := o.gateway.Dispatch(ctx, instruction, history, in.Utterance)
	if err != nil {
		if errors.Is(err, core.ErrContentParse) {
			logger.Warn().Err(err).Str("session_id", session.ID).Msg("degraded turn, provider payload unusable")
			return o.degradedResult(ctx, session.ID, profile), nil
		}
		return nil, err
	}

	o.applyLearning(ctx, in, session.ID, userMsgID, reply)

	voiceCode := voice.ResolveVoice(profile, reply.ResponseLanguage)
	audio, err := o.synth.Synthesize(ctx, reply.SpokenText(), voiceCode, profile.SpeakingRate)
	if err != nil {
		// Text still reaches the user; audio is best effort.
		logger.Error().Err(err).Str("voice", voiceCode).Msg("speech synthesis failed")
		audio = nil
	}

	delta, err := o.awarder.AwardTurn(ctx, in.UserID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", in.UserID).Msg("turn xp award failed")
	}

	result := &TurnResult{
		SessionID:        session.ID,
		BotText:          reply.BotText,
		ResponseLanguage: reply.ResponseLanguage,
		VoiceCode:        voiceCode,
		Audio:            audio,
		HasError:         reply.HasError,
		OriginalText:     reply.OriginalText,
		Correction:       reply.Correction,
		Explanation:      reply.Explanation,
		Progress:         delta,
	}
	if reply.PronunciationTip != nil {
		result.PronunciationTip = *reply.PronunciationTip
	}
	return result, nil
}

func (o *Orchestrator) resolveSession(ctx context.Context, in TurnInput, scenario Scenario) (core.Session, error) {
	if in.SessionID != "" {
		session, err := o.sessions.GetSession(ctx, in.SessionID, in.UserID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return core.Session{}, fmt.Errorf("load session: %w", err)
		}
	}

	session := core.Session{
		ID:     uuid.NewString(),
		UserID: in.UserID,
		Title:  SessionTitle(scenario, in.Utterance),
	}
	if err := o.sessions.CreateSession(ctx, session); err != nil {
		return core.Session{}, fmt.Errorf("create session: %w", err)
	}
	log.FromCtx(ctx).Info().Str("session_id", session.ID).Str("scenario", string(scenario)).Msg("session started")
	return session, nil
}

// applyLearning runs every post-reply side effect. Each one is isolated
// so a single bad write cannot lose the reply.
func (o *Orchestrator) applyLearning(ctx context.Context, in TurnInput, sessionID string, userMsgID int64, reply *core.TutorReply) {
	logger := log.FromCtx(ctx)

	if reply.Audit != nil {
		if err := o.sessions.SetAudit(ctx, userMsgID, core.SafetyAudit{
			Toxic:      reply.Audit.Toxic,
			Category:   reply.Audit.Category,
			Confidence: reply.Audit.Confidence,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to save safety audit")
		}
	}

	botMsgID, err := o.sessions.AddMessage(ctx, core.Message{
		SessionID: sessionID,
		Role:      core.RoleAssistant,
		Content:   reply.BotText,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to save bot message")
	}

	for _, fact := range reply.LearnedFacts {
		if fact == "" {
			continue
		}
		created, err := o.facts.AddFact(ctx, in.UserID, fact)
		if err != nil {
			logger.Error().Err(err).Msg("failed to save fact")
			continue
		}
		if created {
			logger.Debug().Str("fact", fact).Msg("learned new fact")
		}
	}

	now := o.now()
	for _, w := range reply.NewVocabulary {
		if w.Word == "" || w.Translation == "" {
			continue
		}
		if _, err := o.vocab.AddWord(ctx, core.VocabularyItem{
			UserID:       in.UserID,
			Word:         w.Word,
			Translation:  w.Translation,
			Example:      w.Example,
			MasteryLevel: 0,
			NextReviewAt: now,
			LanguageTag:  reply.ResponseLanguage,
		}); err != nil {
			logger.Error().Err(err).Str("word", w.Word).Msg("failed to save vocabulary")
		}
	}

	if reply.HasError && reply.Correction != "" {
		original := reply.OriginalText
		if original == "" {
			original = in.Utterance
		}
		if err := o.corrections.AddCorrection(ctx, core.Correction{
			UserID:      in.UserID,
			MessageID:   botMsgID,
			Original:    original,
			Corrected:   reply.Correction,
			Explanation: reply.Explanation,
		}); err != nil {
			logger.Error().Err(err).Msg("failed to save correction")
		}
	}

	if reply.PronunciationTip != nil && *reply.PronunciationTip != "" {
		slip := core.PronunciationSlip{
			UserID:     in.UserID,
			SessionID:  sessionID,
			Original:   in.Utterance,
			Tip:        *reply.PronunciationTip,
			Confidence: in.Confidence,
		}
		if reply.PhoneticGuess != nil {
			slip.PhoneticGuess = *reply.PhoneticGuess
		}
		if err := o.corrections.AddPronunciationSlip(ctx, slip); err != nil {
			logger.Error().Err(err).Msg("failed to save pronunciation slip")
		}
	}
}

func (o *Orchestrator) degradedResult(ctx context.Context, sessionID string, profile core.VoiceProfile) *TurnResult {
	voiceCode := profile.TargetVoice
	audio, err := o.synth.Synthesize(ctx, degradedBotText, voiceCode, profile.SpeakingRate)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("speech synthesis failed for degraded turn")
		audio = nil
	}
	return &TurnResult{
		SessionID: sessionID,
		BotText:   degradedBotText,
		VoiceCode: voiceCode,
		Audio:     audio,
		Degraded:  true,
	}
}

// Sessions lists the user's conversation threads, newest first.
func (o *Orchestrator) Sessions(ctx context.Context, userID int64) ([]core.Session, error) {
	return o.sessions.ListSessions(ctx, userID)
}

// Transcript returns a session's full message history, oldest first.
func (o *Orchestrator) Transcript(ctx context.Context, sessionID string, userID int64) ([]core.Message, error) {
	if _, err := o.sessions.GetSession(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	return o.sessions.SessionMessages(ctx, sessionID)
}
