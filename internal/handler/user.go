// internal/handler/user.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/domain"
)

type UpdateProfileRequest struct {
	Username       string `json:"username" validate:"required,notblank"`
	EmploymentMode string `json:"employment_mode" validate:"required,employment"`
	TelegramChatID int64  `json:"telegram_chat_id" validate:"gte=0"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.store.UserByID(c.Request.Context(), userID)
	if err != nil {
		storageError(c, "GetProfile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
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

	user, err := h.store.UserByID(c.Request.Context(), userID)
	if err != nil {
		storageError(c, "UpdateProfile", err)
		return
	}

	user.Username = req.Username
	user.EmploymentMode = domain.EmploymentMode(req.EmploymentMode)
	user.TelegramChatID = req.TelegramChatID

	if err := h.store.UpdateProfile(c.Request.Context(), user); err != nil {
		storageError(c, "UpdateProfile", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
