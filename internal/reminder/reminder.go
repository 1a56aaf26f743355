// internal/reminder/reminder.go

// Package reminder runs the scheduled bill sweep: unpaid bills past their due
// date are marked overdue, and bills entering their reminder window trigger a
// notification.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"finny/internal/domain"
	"finny/internal/storage"
)

// Notifier delivers a due-bill reminder. Implementations must be safe for
// repeated calls; delivery failures are logged and skipped.
type Notifier interface {
	NotifyBillDue(chatID int64, bill domain.Bill, daysLeft int) error
}

type Sweeper struct {
	bills    storage.BillStorage
	notifier Notifier
}

// NewSweeper builds a sweeper. notifier may be nil, in which case only
// overdue marking happens.
func NewSweeper(bills storage.BillStorage, notifier Notifier) *Sweeper {
	return &Sweeper{bills: bills, notifier: notifier}
}

// Run executes one sweep. Errors are logged, never returned: the sweep is a
// background job and the next scheduled run will retry naturally.
//
// Due dates have day granularity, so the sweep reasons in whole calendar
// days: overdue means the due day has fully passed, and a bill due today is
// still current no matter what time the sweep runs.
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	today := startOfDay(time.Now())
	marked, err := s.bills.MarkOverdue(ctx, today)
	if err != nil {
		slog.Error("overdue sweep failed", "error", err)
	} else if marked > 0 {
		slog.Info("bills marked overdue", "count", marked)
	}

	if s.notifier == nil {
		return
	}

	reminders, err := s.bills.BillsForReminder(ctx, today)
	if err != nil {
		slog.Error("reminder query failed", "error", err)
		return
	}
	for _, r := range reminders {
		daysLeft := daysUntil(today, r.Bill.NextDueDate)
		if err := s.notifier.NotifyBillDue(r.ChatID, r.Bill, daysLeft); err != nil {
			slog.Error("reminder delivery failed", "error", err, "bill_id", r.Bill.ID)
			continue
		}
		slog.Debug("reminder sent", "bill_id", r.Bill.ID, "days_left", daysLeft)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysUntil counts calendar days from now's day to the due day, ignoring the
// time of day and location of either timestamp.
func daysUntil(now, due time.Time) int {
	ny, nm, nd := now.Date()
	dy, dm, dd := due.Date()
	from := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	to := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
