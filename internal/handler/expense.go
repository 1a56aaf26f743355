// internal/handler/expense.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/domain"
	"finny/internal/gamification"
)

type CreateExpenseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gte=0"`
	Frequency   string  `json:"frequency" validate:"required,frequency"`
	Category    string  `json:"category" validate:"required,notblank"`
	Description string  `json:"description"`
}

func (h *Handler) ListExpenses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	expenses, err := h.store.ListExpenses(c.Request.Context(), userID)
	if err != nil {
		storageError(c, "ListExpenses", err)
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *Handler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
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

	expense := &domain.Expense{
		UserID:      userID,
		Amount:      req.Amount,
		Frequency:   domain.Frequency(req.Frequency),
		Category:    req.Category,
		Description: req.Description,
	}
	id, err := h.store.CreateExpense(c.Request.Context(), expense)
	if err != nil {
		storageError(c, "CreateExpense", err)
		return
	}
	expense.ID = id

	h.grantXP(userID, gamification.XPAddExpense)

	slog.Info("expense created", "user_id", userID, "expense_id", id, "amount", req.Amount)
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		storageError(c, "DeleteExpense", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
