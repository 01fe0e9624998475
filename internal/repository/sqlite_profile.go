package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkoziel/dayflow/internal/db"
	"github.com/pkoziel/dayflow/internal/domain"
)

// SQLiteProfileRepo implements ProfileRepo using a SQLite database. The
// pattern collections are stored as JSON columns; last write wins.
type SQLiteProfileRepo struct {
	db db.DBTX
}

// NewSQLiteProfileRepo creates a new SQLiteProfileRepo.
func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context, userID string) (*domain.BehaviorProfile, error) {
	query := `SELECT user_id, peak_start_hour, peak_end_hour, preferred_duration_min,
		switch_sensitivity, postpone_patterns, energy_patterns, streaks, updated_at
		FROM behavior_profiles WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p domain.BehaviorProfile
	var patterns, energy, streaks, updatedAt string
	err := row.Scan(
		&p.UserID,
		&p.PeakStartHour,
		&p.PeakEndHour,
		&p.PreferredDurationMin,
		&p.SwitchSensitivity,
		&patterns,
		&energy,
		&streaks,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("behavior profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning behavior profile: %w", err)
	}

	if err := json.Unmarshal([]byte(patterns), &p.PostponePatterns); err != nil {
		return nil, fmt.Errorf("decoding postpone patterns: %w", err)
	}
	if err := json.Unmarshal([]byte(energy), &p.EnergyPatterns); err != nil {
		return nil, fmt.Errorf("decoding energy patterns: %w", err)
	}
	if err := json.Unmarshal([]byte(streaks), &p.Streaks); err != nil {
		return nil, fmt.Errorf("decoding streaks: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing profile updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.BehaviorProfile) error {
	patterns, err := json.Marshal(p.PostponePatterns)
	if err != nil {
		return fmt.Errorf("encoding postpone patterns: %w", err)
	}
	energy, err := json.Marshal(p.EnergyPatterns)
	if err != nil {
		return fmt.Errorf("encoding energy patterns: %w", err)
	}
	streaks, err := json.Marshal(p.Streaks)
	if err != nil {
		return fmt.Errorf("encoding streaks: %w", err)
	}

	query := `INSERT OR REPLACE INTO behavior_profiles (user_id, peak_start_hour,
		peak_end_hour, preferred_duration_min, switch_sensitivity,
		postpone_patterns, energy_patterns, streaks, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.UserID,
		p.PeakStartHour,
		p.PeakEndHour,
		p.PreferredDurationMin,
		p.SwitchSensitivity,
		string(patterns),
		string(energy),
		string(streaks),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting behavior profile: %w", err)
	}
	return nil
}
