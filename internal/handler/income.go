// internal/handler/income.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finny/internal/domain"
	"finny/internal/gamification"
)

type CreateIncomeRequest struct {
	Amount      float64 `json:"amount" validate:"required,gte=0"`
	Frequency   string  `json:"frequency" validate:"required,frequency"`
	Source      string  `json:"source" validate:"required,notblank"`
	Description string  `json:"description"`
}

func (h *Handler) ListIncomes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	incomes, err := h.store.ListIncomes(c.Request.Context(), userID)
	if err != nil {
		storageError(c, "ListIncomes", err)
		return
	}
	if incomes == nil {
		incomes = []domain.Income{}
	}
	c.JSON(http.StatusOK, incomes)
}

func (h *Handler) CreateIncome(c *gin.Context) {
	var req CreateIncomeRequest
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

	income := &domain.Income{
		UserID:      userID,
		Amount:      req.Amount,
		Frequency:   domain.Frequency(req.Frequency),
		Source:      req.Source,
		Description: req.Description,
	}
	id, err := h.store.CreateIncome(c.Request.Context(), income)
	if err != nil {
		storageError(c, "CreateIncome", err)
		return
	}
	income.ID = id

	h.grantXP(userID, gamification.XPAddIncome)

	slog.Info("income created", "user_id", userID, "income_id", id, "amount", req.Amount)
	c.JSON(http.StatusCreated, income)
}

func (h *Handler) DeleteIncome(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteIncome(c.Request.Context(), userID, id); err != nil {
		storageError(c, "DeleteIncome", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
