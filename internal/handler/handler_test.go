// internal/handler/handler_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finny/internal/domain"
	"finny/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStore is an in-memory CombinedStorage. Mutations from the XP grant
// goroutine race with test assertions, so everything goes through the mutex.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*domain.User
	incomes    map[int64]domain.Income
	expenses   map[int64]domain.Expense
	bills      map[int64]domain.Bill
	payments   map[int64][]domain.BillPayment
	experience map[int64]domain.Experience
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*domain.User),
		incomes:    make(map[int64]domain.Income),
		expenses:   make(map[int64]domain.Expense),
		bills:      make(map[int64]domain.Bill),
		payments:   make(map[int64][]domain.BillPayment),
		experience: make(map[int64]domain.Experience),
	}
}

func (f *fakeStore) newID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateUser(_ context.Context, user *domain.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, storage.ErrDuplicateEmail
		}
	}
	user.ID = f.newID()
	cp := *user
	f.users[user.ID] = &cp
	return user.ID, nil
}

func (f *fakeStore) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) CreateIncome(_ context.Context, income *domain.Income) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	income.ID = f.newID()
	f.incomes[income.ID] = *income
	return income.ID, nil
}

func (f *fakeStore) ListIncomes(_ context.Context, userID int64) ([]domain.Income, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Income
	for _, in := range f.incomes {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteIncome(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.incomes[id]
	if !ok {
		return storage.ErrNotFound
	}
	if in.UserID != userID {
		return storage.ErrForbidden
	}
	delete(f.incomes, id)
	return nil
}

func (f *fakeStore) CreateExpense(_ context.Context, expense *domain.Expense) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	expense.ID = f.newID()
	f.expenses[expense.ID] = *expense
	return expense.ID, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, userID int64) ([]domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Expense
	for _, ex := range f.expenses {
		if ex.UserID == userID {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ex, ok := f.expenses[id]
	if !ok {
		return storage.ErrNotFound
	}
	if ex.UserID != userID {
		return storage.ErrForbidden
	}
	delete(f.expenses, id)
	return nil
}

func (f *fakeStore) CreateBill(_ context.Context, bill *domain.Bill) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bill.ID = f.newID()
	f.bills[bill.ID] = *bill
	return bill.ID, nil
}

func (f *fakeStore) ListBills(_ context.Context, userID int64) ([]domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Bill
	for _, b := range f.bills {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) BillByID(_ context.Context, userID, id int64) (*domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bills[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if b.UserID != userID {
		return nil, storage.ErrForbidden
	}
	cp := b
	return &cp, nil
}

func (f *fakeStore) UpdateBill(_ context.Context, bill *domain.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bills[bill.ID]; !ok {
		return storage.ErrNotFound
	}
	f.bills[bill.ID] = *bill
	return nil
}

func (f *fakeStore) DeleteBill(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bills[id]
	if !ok {
		return storage.ErrNotFound
	}
	if b.UserID != userID {
		return storage.ErrForbidden
	}
	delete(f.bills, id)
	return nil
}

func (f *fakeStore) SetBillPinned(_ context.Context, id int64, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bills[id]
	if !ok {
		return storage.ErrNotFound
	}
	b.IsPinned = pinned
	f.bills[id] = b
	return nil
}

func (f *fakeStore) MarkBillPaid(_ context.Context, bill *domain.Bill, payment *domain.BillPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bills[bill.ID]; !ok {
		return storage.ErrNotFound
	}
	payment.ID = f.newID()
	f.payments[bill.ID] = append(f.payments[bill.ID], *payment)
	f.bills[bill.ID] = *bill
	return nil
}

func (f *fakeStore) ListPayments(_ context.Context, billID int64) ([]domain.BillPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.BillPayment(nil), f.payments[billID]...), nil
}

func (f *fakeStore) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, b := range f.bills {
		if b.Status == domain.BillUpcoming && !b.IsPaid && b.NextDueDate.Before(asOf) {
			b.Status = domain.BillOverdue
			f.bills[id] = b
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) BillsForReminder(_ context.Context, asOf time.Time) ([]domain.BillReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.BillReminder
	for _, b := range f.bills {
		u, ok := f.users[b.UserID]
		if !ok || u.TelegramChatID == 0 || b.IsPaid {
			continue
		}
		window := b.NextDueDate.AddDate(0, 0, -b.ReminderDays)
		if !asOf.Before(window) && !asOf.After(b.NextDueDate) {
			out = append(out, domain.BillReminder{Bill: b, ChatID: u.TelegramChatID})
		}
	}
	return out, nil
}

func (f *fakeStore) ExperienceByUser(_ context.Context, userID int64) (*domain.Experience, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.experience[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := exp
	return &cp, nil
}

func (f *fakeStore) SaveExperience(_ context.Context, exp *domain.Experience) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.experience[exp.UserID] = *exp
	return nil
}

var _ storage.CombinedStorage = (*fakeStore)(nil)

// newTestRouter wires the protected routes with the user id preset, bypassing
// the token middleware (covered by its own tests).
func newTestRouter(store storage.CombinedStorage, userID int64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})

	h := NewHandler(store)
	r.GET("/incomes", h.ListIncomes)
	r.POST("/incomes", h.CreateIncome)
	r.DELETE("/incomes/:id", h.DeleteIncome)
	r.GET("/expenses", h.ListExpenses)
	r.POST("/expenses", h.CreateExpense)
	r.DELETE("/expenses/:id", h.DeleteExpense)
	r.GET("/bills", h.ListBills)
	r.POST("/bills", h.CreateBill)
	r.GET("/bills/:id", h.GetBill)
	r.PUT("/bills/:id", h.UpdateBill)
	r.DELETE("/bills/:id", h.DeleteBill)
	r.POST("/bills/:id/pay", h.PayBill)
	r.POST("/bills/:id/pin", h.PinBill)
	r.GET("/bills/:id/payments", h.ListBillPayments)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.UpdateProfile)
	r.GET("/experience", h.GetExperience)
	r.PUT("/experience", h.SyncExperience)
	r.GET("/dashboard", h.Dashboard)
	return r
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// waitForExperience polls until the background XP grant lands.
func waitForExperience(t *testing.T, fs *fakeStore, userID int64, wantXP int) domain.Experience {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fs.mu.Lock()
		exp, ok := fs.experience[userID]
		fs.mu.Unlock()
		if ok && exp.Experience == wantXP {
			return exp
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("experience for user %d never reached %d XP", userID, wantXP)
	return domain.Experience{}
}

func (f *fakeStore) seedUser(t *testing.T, email string) int64 {
	t.Helper()
	id, err := f.CreateUser(context.Background(), &domain.User{
		Email:          email,
		Username:       "tester",
		PasswordHash:   "x",
		EmploymentMode: domain.EmploymentFullTime,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}
