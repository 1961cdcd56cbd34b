package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/lingobot/internal/config"
	"github.com/sandevgo/lingobot/internal/core"
	"github.com/sandevgo/lingobot/internal/providers/gateway"
	"github.com/sandevgo/lingobot/internal/providers/llm"
	"github.com/sandevgo/lingobot/internal/providers/tts"
	"github.com/sandevgo/lingobot/internal/service/conversation"
	"github.com/sandevgo/lingobot/internal/service/progress"
	"github.com/sandevgo/lingobot/internal/service/quiz"
	"github.com/sandevgo/lingobot/internal/service/srs"
	"github.com/sandevgo/lingobot/internal/service/voice"
	"github.com/sandevgo/lingobot/internal/storage/sqlite"
	"github.com/sandevgo/lingobot/pkg/log"
)

// app wires every layer together for the CLI commands.
type app struct {
	db *sql.DB

	users core.UsersRepository

	orchestrator *conversation.Orchestrator
	scheduler    *srs.Scheduler
	engine       *progress.Engine
	quizzes      *quiz.Manager
	voices       *voice.Service
	notes        core.NotesRepository
	corrections  core.CorrectionsRepository

	cfg *config.AppConfig
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	providerCfg := config.NewProviderConfig(ctx)
	speechCfg := config.NewSpeechConfig(ctx)

	if err := os.MkdirAll(appCfg.GetRuntimePath(), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create runtime directory")
	}

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	usersRepo := sqlite.NewUsersRepo(db)
	sessionsRepo := sqlite.NewSessionsRepo(db)
	factsRepo := sqlite.NewFactsRepo(db)
	vocabRepo := sqlite.NewVocabularyRepo(db)
	progressRepo := sqlite.NewProgressRepo(db)
	profilesRepo := sqlite.NewProfilesRepo(db)
	quizzesRepo := sqlite.NewQuizzesRepo(db)
	correctionsRepo := sqlite.NewCorrectionsRepo(db)
	notesRepo := sqlite.NewNotesRepo(db)

	providers := llm.NewProviders(ctx, providerCfg)
	gw, err := gateway.New(providers)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize provider gateway")
	}
	synth := tts.NewClient(speechCfg.BaseURL, speechCfg.APIKey)

	engine := progress.NewEngine(progressRepo)

	return &app{
		db:    db,
		users: usersRepo,
		orchestrator: conversation.NewOrchestrator(
			sessionsRepo, factsRepo, vocabRepo, correctionsRepo, profilesRepo,
			gw, synth, engine,
			conversation.Config{
				ContextWindowSize:      appCfg.ContextWindowSize,
				PronunciationThreshold: appCfg.PronunciationThreshold,
				FactTokenBudget:        appCfg.FactTokenBudget,
			},
		),
		scheduler:   srs.NewScheduler(vocabRepo),
		engine:      engine,
		quizzes:     quiz.NewManager(quizzesRepo, sessionsRepo, profilesRepo, gw, engine),
		voices:      voice.NewService(profilesRepo, synth),
		notes:       notesRepo,
		corrections: correctionsRepo,
		cfg:         appCfg,
	}
}

func (a *app) Close() error {
	return a.db.Close()
}

// currentUser resolves the --user flag into a stored learner profile.
func (a *app) currentUser(ctx context.Context) core.User {
	user, err := a.users.GetOrCreateByName(ctx, username)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Str("user", username).Msg("failed to resolve user")
	}
	return user
}

func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(".", ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
