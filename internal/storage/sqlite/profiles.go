package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/lingobot/internal/core"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) GetProfile(ctx context.Context, userID int64) (core.VoiceProfile, error) {
	var p core.VoiceProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, target_voice, native_voice, speaking_rate, native_language, target_language, cooldown_days
		 FROM voice_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.TargetVoice, &p.NativeVoice, &p.SpeakingRate,
			&p.NativeLanguage, &p.TargetLanguage, &p.CooldownDays)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultVoiceProfile(userID), nil
	}
	if err != nil {
		return core.VoiceProfile{}, fmt.Errorf("failed to query voice profile: %w", err)
	}
	return p, nil
}

func (r *ProfilesRepo) UpsertProfile(ctx context.Context, p core.VoiceProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO voice_profiles
		   (user_id, target_voice, native_voice, speaking_rate, native_language, target_language, cooldown_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		   target_voice = excluded.target_voice,
		   native_voice = excluded.native_voice,
		   speaking_rate = excluded.speaking_rate,
		   native_language = excluded.native_language,
		   target_language = excluded.target_language,
		   cooldown_days = excluded.cooldown_days`,
		p.UserID, p.TargetVoice, p.NativeVoice, p.SpeakingRate,
		p.NativeLanguage, p.TargetLanguage, p.CooldownDays)
	if err != nil {
		return fmt.Errorf("failed to upsert voice profile: %w", err)
	}
	return nil
}
