// internal/handler/bill.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finny/internal/domain"
	"finny/internal/gamification"
)

const dateLayout = "2006-01-02"

type BillRequest struct {
	Name         string  `json:"name" validate:"required,notblank"`
	Amount       float64 `json:"amount" validate:"required,gte=0"`
	Frequency    string  `json:"frequency" validate:"required,frequency"`
	Category     string  `json:"category" validate:"required,notblank"`
	DueDate      string  `json:"due_date" validate:"required"`
	IsRecurring  bool    `json:"is_recurring"`
	ReminderDays int     `json:"reminder_days" validate:"gte=0"`
	AutoPay      bool    `json:"auto_pay"`
	PaymentURL   string  `json:"payment_url"`
}

// writeTimeStatus derives the stored status. It is set whenever the bill is
// written, never recomputed on read.
func writeTimeStatus(isPaid bool, due, now time.Time) domain.BillStatus {
	if isPaid {
		return domain.BillPaid
	}
	if due.Before(startOfDay(now)) {
		return domain.BillOverdue
	}
	return domain.BillUpcoming
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (h *Handler) ListBills(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bills, err := h.store.ListBills(c.Request.Context(), userID)
	if err != nil {
		storageError(c, "ListBills", err)
		return
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	c.JSON(http.StatusOK, bills)
}

func (h *Handler) GetBill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(c.Request.Context(), userID, id)
	if err != nil {
		storageError(c, "GetBill", err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) CreateBill(c *gin.Context) {
	var req BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be in YYYY-MM-DD format"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	bill := &domain.Bill{
		UserID:       userID,
		Name:         req.Name,
		Amount:       req.Amount,
		Frequency:    domain.Frequency(req.Frequency),
		Category:     req.Category,
		DueDate:      dueDate,
		NextDueDate:  dueDate,
		IsRecurring:  req.IsRecurring,
		ReminderDays: req.ReminderDays,
		AutoPay:      req.AutoPay,
		PaymentURL:   req.PaymentURL,
	}
	bill.Status = writeTimeStatus(false, bill.NextDueDate, time.Now())

	id, err := h.store.CreateBill(c.Request.Context(), bill)
	if err != nil {
		storageError(c, "CreateBill", err)
		return
	}
	bill.ID = id

	slog.Info("bill created", "user_id", userID, "bill_id", id, "due_date", req.DueDate)
	c.JSON(http.StatusCreated, bill)
}

// UpdateBill rewrites the bill. A new due date or frequency resets the due
// cycle: next_due_date becomes the submitted due date and the status is
// rederived at write time.
func (h *Handler) UpdateBill(c *gin.Context) {
	var req BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be in YYYY-MM-DD format"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(c.Request.Context(), userID, id)
	if err != nil {
		storageError(c, "UpdateBill", err)
		return
	}

	bill.Name = req.Name
	bill.Amount = req.Amount
	bill.Category = req.Category
	bill.IsRecurring = req.IsRecurring
	bill.ReminderDays = req.ReminderDays
	bill.AutoPay = req.AutoPay
	bill.PaymentURL = req.PaymentURL
	if !dueDate.Equal(bill.DueDate) || domain.Frequency(req.Frequency) != bill.Frequency {
		bill.DueDate = dueDate
		bill.NextDueDate = dueDate
		bill.IsPaid = false
	}
	bill.Frequency = domain.Frequency(req.Frequency)
	bill.Status = writeTimeStatus(bill.IsPaid, bill.NextDueDate, time.Now())

	if err := h.store.UpdateBill(c.Request.Context(), bill); err != nil {
		storageError(c, "UpdateBill", err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *Handler) DeleteBill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteBill(c.Request.Context(), userID, id); err != nil {
		storageError(c, "DeleteBill", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PayBill records a payment event. A recurring bill rolls straight into the
// next cycle (the due date advances one frequency step and the bill stays
// unpaid for that cycle); a one-time bill is closed out. On-time payments
// earn XP.
func (h *Handler) PayBill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(c.Request.Context(), userID, id)
	if err != nil {
		storageError(c, "PayBill", err)
		return
	}
	if bill.IsPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bill is already paid"})
		return
	}

	now := time.Now()
	onTime := now.Before(startOfDay(bill.NextDueDate).AddDate(0, 0, 1))

	payment := &domain.BillPayment{
		BillID: bill.ID,
		Amount: bill.Amount,
		PaidAt: now,
		OnTime: onTime,
	}

	if bill.IsRecurring {
		bill.DueDate = bill.NextDueDate
		bill.NextDueDate = bill.Frequency.Step(bill.NextDueDate)
		bill.IsPaid = false
		bill.Status = domain.BillUpcoming
	} else {
		bill.IsPaid = true
		bill.Status = domain.BillPaid
	}

	if err := h.store.MarkBillPaid(c.Request.Context(), bill, payment); err != nil {
		storageError(c, "PayBill", err)
		return
	}

	if onTime {
		h.grantXP(userID, gamification.XPOnTimePayment)
	}

	slog.Info("bill paid", "user_id", userID, "bill_id", bill.ID, "on_time", onTime)
	c.JSON(http.StatusOK, gin.H{"bill": bill, "payment": payment})
}

func (h *Handler) PinBill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	bill, err := h.store.BillByID(c.Request.Context(), userID, id)
	if err != nil {
		storageError(c, "PinBill", err)
		return
	}

	pinned := !bill.IsPinned
	if err := h.store.SetBillPinned(c.Request.Context(), bill.ID, pinned); err != nil {
		storageError(c, "PinBill", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "is_pinned": pinned})
}

func (h *Handler) ListBillPayments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	// Ownership check before exposing the history.
	if _, err := h.store.BillByID(c.Request.Context(), userID, id); err != nil {
		storageError(c, "ListBillPayments", err)
		return
	}

	payments, err := h.store.ListPayments(c.Request.Context(), id)
	if err != nil {
		storageError(c, "ListBillPayments", err)
		return
	}
	if payments == nil {
		payments = []domain.BillPayment{}
	}
	c.JSON(http.StatusOK, payments)
}
