// internal/handler/dashboard.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/gamification"
	"finny/internal/storage"
	"finny/internal/tracker"
)

// Dashboard assembles the derived state in one response: calculations,
// health score and gamification state.
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.UserByID(ctx, userID)
	if err != nil {
		storageError(c, "Dashboard", err)
		return
	}
	incomes, err := h.store.ListIncomes(ctx, userID)
	if err != nil {
		storageError(c, "Dashboard", err)
		return
	}
	expenses, err := h.store.ListExpenses(ctx, userID)
	if err != nil {
		storageError(c, "Dashboard", err)
		return
	}

	store := tracker.NewStore(user.EmploymentMode)
	store.Load(incomes, expenses)

	exp, err := h.store.ExperienceByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			storageError(c, "Dashboard", err)
			return
		}
		exp = gamification.NewExperience(userID)
	}

	c.JSON(http.StatusOK, gin.H{
		"calculations": store.Calculations(),
		"health_score": store.HealthScore(),
		"experience":   exp,
	})
}
