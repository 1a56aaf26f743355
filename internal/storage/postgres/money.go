// internal/storage/postgres/money.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"finny/internal/domain"
	"finny/internal/storage"
)

// === IncomeStorage ===

func (s *Storage) CreateIncome(ctx context.Context, income *domain.Income) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO incomes (user_id, amount, frequency, source, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, income.UserID, income.Amount, income.Frequency, income.Source, income.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}
	return id, nil
}

func (s *Storage) ListIncomes(ctx context.Context, userID int64) ([]domain.Income, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, frequency, source, COALESCE(description, ''), created_at, updated_at
		FROM incomes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var incomes []domain.Income
	for rows.Next() {
		var in domain.Income
		if err := rows.Scan(&in.ID, &in.UserID, &in.Amount, &in.Frequency,
			&in.Source, &in.Description, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

func (s *Storage) DeleteIncome(ctx context.Context, userID, id int64) error {
	return s.deleteOwned(ctx, "incomes", userID, id)
}

// === ExpenseStorage ===

func (s *Storage) CreateExpense(ctx context.Context, expense *domain.Expense) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, amount, frequency, category, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, expense.UserID, expense.Amount, expense.Frequency, expense.Category, expense.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}
	return id, nil
}

func (s *Storage) ListExpenses(ctx context.Context, userID int64) ([]domain.Expense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, frequency, category, COALESCE(description, ''), created_at, updated_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		var ex domain.Expense
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Amount, &ex.Frequency,
			&ex.Category, &ex.Description, &ex.CreatedAt, &ex.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, ex)
	}
	return expenses, rows.Err()
}

func (s *Storage) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.deleteOwned(ctx, "expenses", userID, id)
}

// deleteOwned removes a row after checking ownership, so callers can tell a
// missing resource (404) apart from someone else's (403).
func (s *Storage) deleteOwned(ctx context.Context, table string, userID, id int64) error {
	var ownerID int64
	err := s.db.QueryRow(ctx,
		fmt.Sprintf("SELECT user_id FROM %s WHERE id = $1", table), id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("check %s owner: %w", table, err)
	}
	if ownerID != userID {
		return storage.ErrForbidden
	}
	_, err = s.db.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}
