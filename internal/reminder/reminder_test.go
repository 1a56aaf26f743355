// internal/reminder/reminder_test.go
package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"finny/internal/domain"
)

type fakeBills struct {
	markOverdueCalls int
	markOverdueAsOf  time.Time
	reminderAsOf     time.Time
	reminders        []domain.BillReminder
	reminderErr      error
}

func (f *fakeBills) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	f.markOverdueCalls++
	f.markOverdueAsOf = asOf
	return 2, nil
}

func (f *fakeBills) BillsForReminder(_ context.Context, asOf time.Time) ([]domain.BillReminder, error) {
	f.reminderAsOf = asOf
	return f.reminders, f.reminderErr
}

func (f *fakeBills) CreateBill(context.Context, *domain.Bill) (int64, error) { return 0, nil }
func (f *fakeBills) ListBills(context.Context, int64) ([]domain.Bill, error) { return nil, nil }
func (f *fakeBills) BillByID(context.Context, int64, int64) (*domain.Bill, error) {
	return nil, errors.New("unused")
}
func (f *fakeBills) UpdateBill(context.Context, *domain.Bill) error       { return nil }
func (f *fakeBills) DeleteBill(context.Context, int64, int64) error       { return nil }
func (f *fakeBills) SetBillPinned(context.Context, int64, bool) error     { return nil }
func (f *fakeBills) MarkBillPaid(context.Context, *domain.Bill, *domain.BillPayment) error {
	return nil
}
func (f *fakeBills) ListPayments(context.Context, int64) ([]domain.BillPayment, error) {
	return nil, nil
}

type recordingNotifier struct {
	sent []int64
	days []int
	err  error
}

func (n *recordingNotifier) NotifyBillDue(chatID int64, _ domain.Bill, daysLeft int) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, chatID)
	n.days = append(n.days, daysLeft)
	return nil
}

func TestSweepWithoutNotifier(t *testing.T) {
	bills := &fakeBills{}
	NewSweeper(bills, nil).Run()
	if bills.markOverdueCalls != 1 {
		t.Errorf("MarkOverdue called %d times, want 1", bills.markOverdueCalls)
	}
}

func TestSweepQueriesAtStartOfDay(t *testing.T) {
	bills := &fakeBills{}
	NewSweeper(bills, &recordingNotifier{}).Run()

	// Wall-clock time must not leak into the queries: a bill due today would
	// otherwise flip to overdue (and miss its reminder) at any post-midnight
	// sweep.
	for name, asOf := range map[string]time.Time{
		"MarkOverdue":      bills.markOverdueAsOf,
		"BillsForReminder": bills.reminderAsOf,
	} {
		h, m, s := asOf.Clock()
		if h != 0 || m != 0 || s != 0 || asOf.Nanosecond() != 0 {
			t.Errorf("%s asOf = %v, want start of day", name, asOf)
		}
		if now := time.Now(); asOf.Day() != now.Day() && asOf.Day() != now.AddDate(0, 0, -1).Day() {
			t.Errorf("%s asOf = %v, not today", name, asOf)
		}
	}
}

func TestSweepDaysLeft(t *testing.T) {
	today := startOfDay(time.Now())
	bills := &fakeBills{reminders: []domain.BillReminder{
		{Bill: domain.Bill{ID: 1, Name: "Water", NextDueDate: today}, ChatID: 1},
		{Bill: domain.Bill{ID: 2, Name: "Rent", NextDueDate: today.AddDate(0, 0, 1)}, ChatID: 2},
		{Bill: domain.Bill{ID: 3, Name: "Internet", NextDueDate: today.AddDate(0, 0, 3)}, ChatID: 3},
	}}
	notifier := &recordingNotifier{}

	NewSweeper(bills, notifier).Run()

	want := []int{0, 1, 3}
	if len(notifier.days) != len(want) {
		t.Fatalf("delivered %d reminders, want %d", len(notifier.days), len(want))
	}
	for i, d := range want {
		if notifier.days[i] != d {
			t.Errorf("reminder %d daysLeft = %d, want %d", i, notifier.days[i], d)
		}
	}
}

func TestDaysUntilIgnoresTimeAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 6, 10, 23, 45, 0, 0, zone)
	due := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if got := daysUntil(now, due); got != 1 {
		t.Errorf("daysUntil = %d, want 1", got)
	}
	sameDay := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if got := daysUntil(now, sameDay); got != 0 {
		t.Errorf("daysUntil same day = %d, want 0", got)
	}
}

func TestSweepDeliversReminders(t *testing.T) {
	due := time.Now().AddDate(0, 0, 2)
	bills := &fakeBills{reminders: []domain.BillReminder{
		{Bill: domain.Bill{ID: 1, Name: "Rent", NextDueDate: due}, ChatID: 100},
		{Bill: domain.Bill{ID: 2, Name: "Internet", NextDueDate: due}, ChatID: 200},
	}}
	notifier := &recordingNotifier{}

	NewSweeper(bills, notifier).Run()

	if len(notifier.sent) != 2 {
		t.Fatalf("delivered %d reminders, want 2", len(notifier.sent))
	}
	if notifier.sent[0] != 100 || notifier.sent[1] != 200 {
		t.Errorf("delivered to %v, want [100 200]", notifier.sent)
	}
}

func TestSweepSurvivesDeliveryFailure(t *testing.T) {
	bills := &fakeBills{reminders: []domain.BillReminder{
		{Bill: domain.Bill{ID: 1}, ChatID: 100},
	}}
	notifier := &recordingNotifier{err: errors.New("chat not found")}

	// Must not panic or abort the sweep.
	NewSweeper(bills, notifier).Run()

	if bills.markOverdueCalls != 1 {
		t.Errorf("MarkOverdue called %d times, want 1", bills.markOverdueCalls)
	}
}
