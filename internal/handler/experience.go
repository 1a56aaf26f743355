// internal/handler/experience.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/gamification"
	"finny/internal/storage"
)

// SyncExperienceRequest is the client's fire-and-forget state sync payload.
type SyncExperienceRequest struct {
	Level               int `json:"level" validate:"required,gte=1"`
	Experience          int `json:"experience" validate:"gte=0"`
	NextLevelExperience int `json:"next_level_experience" validate:"required,gte=1"`
	Streak              int `json:"streak" validate:"gte=0"`
}

func (h *Handler) GetExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	exp, err := h.store.ExperienceByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusOK, gamification.NewExperience(userID))
			return
		}
		storageError(c, "GetExperience", err)
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *Handler) SyncExperience(c *gin.Context) {
	var req SyncExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	exp, err := h.store.ExperienceByUser(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			storageError(c, "SyncExperience", err)
			return
		}
		exp = gamification.NewExperience(userID)
	}

	exp.Level = req.Level
	exp.Experience = req.Experience
	exp.NextLevelExperience = req.NextLevelExperience
	exp.Streak = req.Streak

	if err := h.store.SaveExperience(c.Request.Context(), exp); err != nil {
		storageError(c, "SyncExperience", err)
		return
	}
	c.JSON(http.StatusOK, exp)
}
