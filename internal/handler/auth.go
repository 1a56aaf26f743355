// internal/handler/auth.go
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/auth"
	"finny/internal/domain"
	"finny/internal/gamification"
	"finny/internal/storage"
)

type RegisterRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Username       string `json:"username" validate:"required,notblank"`
	Password       string `json:"password" validate:"required,min=8"`
	EmploymentMode string `json:"employment_mode" validate:"omitempty,employment"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves registration and login, issuing session tokens.
type AuthHandler struct {
	store  storage.CombinedStorage
	tokens *auth.TokenService
}

func NewAuthHandler(store storage.CombinedStorage, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode := domain.EmploymentMode(req.EmploymentMode)
	if mode == "" {
		mode = domain.EmploymentFullTime
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hash failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	user := &domain.User{
		Email:          req.Email,
		Username:       req.Username,
		PasswordHash:   hash,
		EmploymentMode: mode,
	}
	id, err := h.store.CreateUser(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		slog.Error("create user failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	// Fresh gamification state; best effort, the user can still log in.
	if err := h.store.SaveExperience(c.Request.Context(), gamification.NewExperience(id)); err != nil {
		slog.Error("init experience failed", "error", err, "user_id", id)
	}

	token, err := h.tokens.GenerateToken(id)
	if err != nil {
		slog.Error("token generation failed", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	slog.Info("user registered", "user_id", id)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user_id": id})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		slog.Error("login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		slog.Error("token generation failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": user.ID})
}
