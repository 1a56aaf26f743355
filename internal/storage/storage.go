// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"finny/internal/domain"
)

var (
	// ErrNotFound means the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the resource exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicateEmail is returned for registration with an email already in use.
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) (int64, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

type IncomeStorage interface {
	CreateIncome(ctx context.Context, income *domain.Income) (int64, error)
	ListIncomes(ctx context.Context, userID int64) ([]domain.Income, error)
	DeleteIncome(ctx context.Context, userID, id int64) error
}

type ExpenseStorage interface {
	CreateExpense(ctx context.Context, expense *domain.Expense) (int64, error)
	ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

type BillStorage interface {
	CreateBill(ctx context.Context, bill *domain.Bill) (int64, error)
	ListBills(ctx context.Context, userID int64) ([]domain.Bill, error)
	BillByID(ctx context.Context, userID, id int64) (*domain.Bill, error)
	UpdateBill(ctx context.Context, bill *domain.Bill) error
	DeleteBill(ctx context.Context, userID, id int64) error
	SetBillPinned(ctx context.Context, id int64, pinned bool) error
	// MarkBillPaid records a payment event and updates the bill row in one
	// transaction.
	MarkBillPaid(ctx context.Context, bill *domain.Bill, payment *domain.BillPayment) error
	ListPayments(ctx context.Context, billID int64) ([]domain.BillPayment, error)

	// Reminder sweep queries (cross-user, not ownership-scoped).
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
	BillsForReminder(ctx context.Context, asOf time.Time) ([]domain.BillReminder, error)
}

type ExperienceStorage interface {
	ExperienceByUser(ctx context.Context, userID int64) (*domain.Experience, error)
	SaveExperience(ctx context.Context, exp *domain.Experience) error
}

// CombinedStorage is what the HTTP handlers depend on.
type CombinedStorage interface {
	UserStorage
	IncomeStorage
	ExpenseStorage
	BillStorage
	ExperienceStorage
}
