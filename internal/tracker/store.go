// internal/tracker/store.go

// Package tracker holds the shared derived-state store: raw entity lists plus
// the calculations recomputed synchronously after every mutation. Instead of
// an implicit global it is an explicit struct with a pure recompute step and
// an explicit observer list.
package tracker

import (
	"sync"

	"finny/internal/domain"
	"finny/internal/finance"
	"finny/internal/gamification"
)

// Observer is notified after every recompute with the fresh calculations.
type Observer func(domain.Calculations)

type Store struct {
	mu        sync.Mutex
	incomes   []domain.Income
	expenses  []domain.Expense
	mode      domain.EmploymentMode
	calc      domain.Calculations
	observers []Observer
}

func NewStore(mode domain.EmploymentMode) *Store {
	s := &Store{mode: mode}
	s.calc = finance.Calculate(nil, nil, mode)
	return s
}

// Subscribe registers an observer. Observers run synchronously inside the
// mutating call, in registration order.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Load replaces both entity lists at once, triggering a single recompute.
func (s *Store) Load(incomes []domain.Income, expenses []domain.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append([]domain.Income(nil), incomes...)
	s.expenses = append([]domain.Expense(nil), expenses...)
	s.recompute()
}

func (s *Store) AddIncome(in domain.Income) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, in)
	s.recompute()
}

func (s *Store) RemoveIncome(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, in := range s.incomes {
		if in.ID == id {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			break
		}
	}
	s.recompute()
}

func (s *Store) AddExpense(ex domain.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, ex)
	s.recompute()
}

func (s *Store) RemoveExpense(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ex := range s.expenses {
		if ex.ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			break
		}
	}
	s.recompute()
}

func (s *Store) SetEmploymentMode(mode domain.EmploymentMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.recompute()
}

// Calculations returns the current derived metrics.
func (s *Store) Calculations() domain.Calculations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calc
}

// HealthScore derives the 0-100 financial health score from current state.
func (s *Store) HealthScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gamification.HealthScore(s.calc, s.sourceCount(), len(s.expenses))
}

// sourceCount counts distinct income sources. Callers must hold mu.
func (s *Store) sourceCount() int {
	seen := make(map[string]struct{}, len(s.incomes))
	for _, in := range s.incomes {
		if in.Source != "" {
			seen[in.Source] = struct{}{}
		}
	}
	return len(seen)
}

// recompute rebuilds calculations in one assignment and notifies observers.
// Callers must hold mu.
func (s *Store) recompute() {
	s.calc = finance.Calculate(s.incomes, s.expenses, s.mode)
	for _, o := range s.observers {
		o(s.calc)
	}
}
