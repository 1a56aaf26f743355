// internal/domain/models.go
package domain

import "time"

// Frequency is the recurrence unit for a money amount.
type Frequency string

const (
	FrequencyOneTime   Frequency = "one-time"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiWeekly  Frequency = "bi-weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyWeekly, FrequencyBiWeekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// Step advances a due date by one recurrence interval.
// One-time (and unknown) frequencies do not advance.
func (f Frequency) Step(from time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// EmploymentMode selects the tax estimation mode.
type EmploymentMode string

const (
	EmploymentFullTime EmploymentMode = "full-time"
	EmploymentContract EmploymentMode = "contract"
)

func (m EmploymentMode) Valid() bool {
	return m == EmploymentFullTime || m == EmploymentContract
}

// BillStatus is set at write time, not recomputed live.
type BillStatus string

const (
	BillPaid     BillStatus = "paid"
	BillUpcoming BillStatus = "upcoming"
	BillOverdue  BillStatus = "overdue"
)

type User struct {
	ID             int64          `json:"id"`
	Email          string         `json:"email"`
	Username       string         `json:"username"`
	PasswordHash   string         `json:"-"`
	EmploymentMode EmploymentMode `json:"employment_mode"`
	TelegramChatID int64          `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type Income struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Amount      float64   `json:"amount"`
	Frequency   Frequency `json:"frequency"`
	Source      string    `json:"source"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Amount      float64   `json:"amount"`
	Frequency   Frequency `json:"frequency"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bill is an expense with due-date tracking. NextDueDate is recalculated
// only when the bill is marked paid or edited with a new due date/frequency.
type Bill struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"-"`
	Name         string     `json:"name"`
	Amount       float64    `json:"amount"`
	Frequency    Frequency  `json:"frequency"`
	Category     string     `json:"category"`
	DueDate      time.Time  `json:"due_date"`
	NextDueDate  time.Time  `json:"next_due_date"`
	IsRecurring  bool       `json:"is_recurring"`
	ReminderDays int        `json:"reminder_days"`
	IsPaid       bool       `json:"is_paid"`
	Status       BillStatus `json:"status"`
	AutoPay      bool       `json:"auto_pay"`
	PaymentURL   string     `json:"payment_url,omitempty"`
	IsPinned     bool       `json:"is_pinned"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type BillPayment struct {
	ID     int64     `json:"id"`
	BillID int64     `json:"-"`
	Amount float64   `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
	OnTime bool      `json:"on_time"`
}

// Experience is the persisted gamification state for a user.
type Experience struct {
	UserID              int64     `json:"-"`
	Level               int       `json:"level"`
	Experience          int       `json:"experience"`
	NextLevelExperience int       `json:"next_level_experience"`
	Streak              int       `json:"streak"`
	LastActivity        time.Time `json:"last_activity"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Calculations holds the derived financial metrics. It is a pure function of
// the current income/expense lists plus employment mode and is never persisted.
type Calculations struct {
	TotalMonthlyIncome   float64 `json:"total_monthly_income"`
	TotalAnnualIncome    float64 `json:"total_annual_income"`
	TotalMonthlyExpenses float64 `json:"total_monthly_expenses"`
	MonthlyBalance       float64 `json:"monthly_balance"`
	TaxBracket           float64 `json:"tax_bracket"`
	TaxAmount            float64 `json:"tax_amount"`
	AfterTaxIncome       float64 `json:"after_tax_income"`
}

// BillReminder pairs a due bill with the owner's Telegram chat for notifications.
type BillReminder struct {
	Bill   Bill
	ChatID int64
}
