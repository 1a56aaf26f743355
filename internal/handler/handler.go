// internal/handler/handler.go
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"finny/internal/storage"
	val "finny/internal/validator"
)

type Handler struct {
	store storage.CombinedStorage
}

func NewHandler(store storage.CombinedStorage) *Handler {
	return &Handler{store: store}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	userIDVal, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return 0, false
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return userID, true
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// storageError maps storage sentinels onto the HTTP error taxonomy. Anything
// unexpected becomes a 500 with a generic body; the detail goes to the log.
func storageError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, storage.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		slog.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var errs []string
		for _, e := range err.(validator.ValidationErrors) {
			errs = append(errs, fieldErrorToString(e))
		}
		return fmt.Errorf("invalid input: %s", strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "frequency":
		return fmt.Sprintf("%s must be one of one-time, weekly, bi-weekly, monthly, quarterly, yearly", e.Field())
	case "employment":
		return fmt.Sprintf("%s must be full-time or contract", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", e.Field())
	case "min":
		return fmt.Sprintf("%s is too short", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
