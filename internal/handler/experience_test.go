// internal/handler/experience_test.go
package handler

import (
	"net/http"
	"testing"

	"finny/internal/domain"
)

func TestGetExperienceDefaultsForFreshUser(t *testing.T) {
	fs := newFakeStore()
	r := newTestRouter(fs, fs.seedUser(t, "a@example.com"))

	w := doJSON(t, r, http.MethodGet, "/experience", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var exp domain.Experience
	decodeBody(t, w, &exp)
	if exp.Level != 1 || exp.Experience != 0 || exp.NextLevelExperience != 100 {
		t.Errorf("fresh experience = %+v, want level 1, 0/100", exp)
	}
}

func TestSyncExperienceOverwritesState(t *testing.T) {
	fs := newFakeStore()
	userID := fs.seedUser(t, "a@example.com")
	r := newTestRouter(fs, userID)

	w := doJSON(t, r, http.MethodPut, "/experience", map[string]any{
		"level":                 3,
		"experience":            40,
		"next_level_experience": 450,
		"streak":                7,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	fs.mu.Lock()
	saved := fs.experience[userID]
	fs.mu.Unlock()
	if saved.Level != 3 || saved.Experience != 40 || saved.NextLevelExperience != 450 || saved.Streak != 7 {
		t.Errorf("saved state = %+v", saved)
	}

	// Reads now reflect the synced state.
	w = doJSON(t, r, http.MethodGet, "/experience", nil)
	var exp domain.Experience
	decodeBody(t, w, &exp)
	if exp.Level != 3 || exp.Streak != 7 {
		t.Errorf("read-back = %+v", exp)
	}
}

func TestSyncExperienceValidation(t *testing.T) {
	fs := newFakeStore()
	r := newTestRouter(fs, fs.seedUser(t, "a@example.com"))

	w := doJSON(t, r, http.MethodPut, "/experience", map[string]any{
		"level":                 0,
		"experience":            -5,
		"next_level_experience": 100,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}
