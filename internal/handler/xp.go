// internal/handler/xp.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"finny/internal/gamification"
	"finny/internal/storage"
)

// grantXP applies an XP reward in the background. Like the original client it
// is fire and forget: failures are logged and never surface to the request.
func (h *Handler) grantXP(userID int64, amount int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		exp, err := h.store.ExperienceByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("load experience failed", "error", err, "user_id", userID)
				return
			}
			exp = gamification.NewExperience(userID)
		}

		gamification.Touch(exp, time.Now())
		leveledUp := gamification.AddExperience(exp, amount)

		if err := h.store.SaveExperience(ctx, exp); err != nil {
			slog.Error("save experience failed", "error", err, "user_id", userID)
			return
		}
		if leveledUp {
			slog.Info("level up", "user_id", userID, "level", exp.Level)
		}
	}()
}
