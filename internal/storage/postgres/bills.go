// internal/storage/postgres/bills.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"finny/internal/domain"
	"finny/internal/storage"
)

const billColumns = `id, user_id, name, amount, frequency, category, due_date,
	next_due_date, is_recurring, reminder_days, is_paid, status, auto_pay,
	COALESCE(payment_url, ''), is_pinned, created_at, updated_at`

func (s *Storage) CreateBill(ctx context.Context, bill *domain.Bill) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO bills (user_id, name, amount, frequency, category, due_date,
			next_due_date, is_recurring, reminder_days, is_paid, status, auto_pay,
			payment_url, is_pinned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
		RETURNING id
	`, bill.UserID, bill.Name, bill.Amount, bill.Frequency, bill.Category,
		bill.DueDate, bill.NextDueDate, bill.IsRecurring, bill.ReminderDays,
		bill.IsPaid, bill.Status, bill.AutoPay, bill.PaymentURL, bill.IsPinned).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create bill: %w", err)
	}
	return id, nil
}

func (s *Storage) ListBills(ctx context.Context, userID int64) ([]domain.Bill, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE user_id = $1
		ORDER BY is_pinned DESC, next_due_date ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *Storage) BillByID(ctx context.Context, userID, id int64) (*domain.Bill, error) {
	b, err := scanBill(s.db.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, storage.ErrForbidden
	}
	return b, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Frequency,
		&b.Category, &b.DueDate, &b.NextDueDate, &b.IsRecurring, &b.ReminderDays,
		&b.IsPaid, &b.Status, &b.AutoPay, &b.PaymentURL, &b.IsPinned,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan bill: %w", err)
	}
	return &b, nil
}

func (s *Storage) UpdateBill(ctx context.Context, bill *domain.Bill) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE bills
		SET name = $2, amount = $3, frequency = $4, category = $5, due_date = $6,
			next_due_date = $7, is_recurring = $8, reminder_days = $9, is_paid = $10,
			status = $11, auto_pay = $12, payment_url = NULLIF($13, ''), updated_at = now()
		WHERE id = $1
	`, bill.ID, bill.Name, bill.Amount, bill.Frequency, bill.Category,
		bill.DueDate, bill.NextDueDate, bill.IsRecurring, bill.ReminderDays,
		bill.IsPaid, bill.Status, bill.AutoPay, bill.PaymentURL)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteBill(ctx context.Context, userID, id int64) error {
	return s.deleteOwned(ctx, "bills", userID, id)
}

func (s *Storage) SetBillPinned(ctx context.Context, id int64, pinned bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE bills SET is_pinned = $2, updated_at = now() WHERE id = $1
	`, id, pinned)
	if err != nil {
		return fmt.Errorf("pin bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// MarkBillPaid records the payment event and the updated bill state in a
// single transaction so the payment history never drifts from the bill row.
func (s *Storage) MarkBillPaid(ctx context.Context, bill *domain.Bill, payment *domain.BillPayment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO bill_payments (bill_id, amount, paid_at, on_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, payment.BillID, payment.Amount, payment.PaidAt, payment.OnTime).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bills
		SET is_paid = $2, status = $3, due_date = $4, next_due_date = $5, updated_at = now()
		WHERE id = $1
	`, bill.ID, bill.IsPaid, bill.Status, bill.DueDate, bill.NextDueDate)
	if err != nil {
		return fmt.Errorf("update paid bill: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Storage) ListPayments(ctx context.Context, billID int64) ([]domain.BillPayment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, bill_id, amount, paid_at, on_time
		FROM bill_payments
		WHERE bill_id = $1
		ORDER BY paid_at ASC, id ASC
	`, billID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.BillPayment
	for rows.Next() {
		var p domain.BillPayment
		if err := rows.Scan(&p.ID, &p.BillID, &p.Amount, &p.PaidAt, &p.OnTime); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// === Reminder sweep ===

func (s *Storage) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bills
		SET status = 'overdue', updated_at = now()
		WHERE is_paid = FALSE AND status = 'upcoming' AND next_due_date < $1
	`, asOf)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Storage) BillsForReminder(ctx context.Context, asOf time.Time) ([]domain.BillReminder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT b.id, b.user_id, b.name, b.amount, b.frequency, b.category,
			b.due_date, b.next_due_date, b.is_recurring, b.reminder_days,
			b.is_paid, b.status, b.auto_pay, COALESCE(b.payment_url, ''),
			b.is_pinned, b.created_at, b.updated_at,
			u.telegram_chat_id
		FROM bills b
		JOIN users u ON u.id = b.user_id
		WHERE b.is_paid = FALSE
		AND u.telegram_chat_id IS NOT NULL
		AND b.next_due_date >= $1
		AND b.next_due_date < $1 + (b.reminder_days + 1) * interval '1 day'
	`, asOf)
	if err != nil {
		return nil, fmt.Errorf("bills for reminder: %w", err)
	}
	defer rows.Close()

	var reminders []domain.BillReminder
	for rows.Next() {
		var r domain.BillReminder
		b := &r.Bill
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Frequency,
			&b.Category, &b.DueDate, &b.NextDueDate, &b.IsRecurring, &b.ReminderDays,
			&b.IsPaid, &b.Status, &b.AutoPay, &b.PaymentURL, &b.IsPinned,
			&b.CreatedAt, &b.UpdatedAt, &r.ChatID); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
