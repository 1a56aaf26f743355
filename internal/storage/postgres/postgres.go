// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"finny/internal/domain"
	"finny/internal/storage"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// === UserStorage ===

func (s *Storage) CreateUser(ctx context.Context, user *domain.User) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, employment_mode)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.Username, user.PasswordHash, user.EmploymentMode).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, storage.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, employment_mode,
		       COALESCE(telegram_chat_id, 0), created_at
		FROM users WHERE email = $1
	`, email))
}

func (s *Storage) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.scanUser(s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, employment_mode,
		       COALESCE(telegram_chat_id, 0), created_at
		FROM users WHERE id = $1
	`, id))
}

func (s *Storage) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.EmploymentMode, &u.TelegramChatID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Storage) UpdateProfile(ctx context.Context, user *domain.User) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET username = $2, employment_mode = $3, telegram_chat_id = NULLIF($4, 0)
		WHERE id = $1
	`, user.ID, user.Username, user.EmploymentMode, user.TelegramChatID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// === ExperienceStorage ===

func (s *Storage) ExperienceByUser(ctx context.Context, userID int64) (*domain.Experience, error) {
	var e domain.Experience
	err := s.db.QueryRow(ctx, `
		SELECT user_id, level, experience, next_level_experience, streak,
		       COALESCE(last_activity, 'epoch'::timestamptz), updated_at
		FROM user_experience WHERE user_id = $1
	`, userID).Scan(&e.UserID, &e.Level, &e.Experience, &e.NextLevelExperience,
		&e.Streak, &e.LastActivity, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find experience: %w", err)
	}
	if e.LastActivity.Unix() == 0 {
		e.LastActivity = time.Time{}
	}
	return &e, nil
}

func (s *Storage) SaveExperience(ctx context.Context, exp *domain.Experience) error {
	// A zero LastActivity means "never active" and is stored as NULL.
	var lastActivity any
	if !exp.LastActivity.IsZero() {
		lastActivity = exp.LastActivity
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_experience (user_id, level, experience, next_level_experience, streak, last_activity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			next_level_experience = EXCLUDED.next_level_experience,
			streak = EXCLUDED.streak,
			last_activity = EXCLUDED.last_activity,
			updated_at = now()
	`, exp.UserID, exp.Level, exp.Experience, exp.NextLevelExperience,
		exp.Streak, lastActivity)
	if err != nil {
		return fmt.Errorf("save experience: %w", err)
	}
	return nil
}
