package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/bank"
	"github.com/quizforge/quizforge/internal/rbac"
	"github.com/quizforge/quizforge/internal/report"
)

// fetchAttempt loads an attempt and enforces that the caller owns it or holds
// attempt:view-all. On failure the response is already written and ok is
// false.
func fetchAttempt(w http.ResponseWriter, r *http.Request, store bank.Store) (bank.Attempt, bool) {
	attemptID := strings.TrimSpace(chi.URLParam(r, "attemptID"))
	if attemptID == "" {
		http.Error(w, "attemptID required", http.StatusBadRequest)
		return bank.Attempt{}, false
	}
	a, err := store.GetAttempt(attemptID)
	if err != nil {
		if errors.Is(err, bank.ErrAttemptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return bank.Attempt{}, false
		}
		http.Error(w, "get attempt: "+err.Error(), http.StatusInternalServerError)
		return bank.Attempt{}, false
	}
	if a.UserID != auth.SubjectFromContext(r.Context()) && !rbac.Allows(r.Context(), "attempt:view-all") {
		http.Error(w, "forbidden", http.StatusForbidden)
		return bank.Attempt{}, false
	}
	return a, true
}

// CreateAttemptHandler starts an attempt for the authenticated user.
//
// POST /attempts  { "bank_id": "..." }
func CreateAttemptHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			BankID string `json:"bank_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := store.NewAttempt(req.BankID, auth.SubjectFromContext(r.Context()))
		if err != nil {
			if errors.Is(err, bank.ErrBankNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, "create attempt: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// SaveResponsesHandler merges a partial response map into the attempt.
// Responses are keyed by question index; a value is a letter list, free
// text, or an empty list to mark the question as skipped.
//
// POST /attempts/{attemptID}/responses  { "0": ["A"], "1": "B and maybe C", "2": [] }
func SaveResponsesHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := fetchAttempt(w, r, store)
		if !ok {
			return
		}
		var resp map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := store.SaveResponses(a.ID, resp)
		if err != nil {
			if errors.Is(err, bank.ErrAttemptNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, "save responses: "+err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// SubmitAttemptHandler grades the attempt and freezes it.
func SubmitAttemptHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := fetchAttempt(w, r, store)
		if !ok {
			return
		}
		a, err := store.Submit(a.ID)
		if err != nil {
			if errors.Is(err, bank.ErrAttemptNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, "submit: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func GetAttemptHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := fetchAttempt(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// AttemptReportHandler renders a submitted attempt as result rows, one per
// question. ?format=csv streams the table instead of JSON.
func AttemptReportHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := fetchAttempt(w, r, store)
		if !ok {
			return
		}
		if a.Status != bank.StatusSubmitted {
			http.Error(w, "attempt not submitted", http.StatusConflict)
			return
		}
		b, err := store.GetBankFull(a.BankID)
		if err != nil {
			http.Error(w, "get bank: "+err.Error(), http.StatusInternalServerError)
			return
		}
		rows := report.Build(b.Questions, a.Verdicts)

		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="quiz_results.csv"`)
			if err := report.WriteCSV(w, rows); err != nil {
				http.Error(w, "write csv: "+err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"summary": report.Summarize(a.Verdicts),
			"rows":    rows,
		})
	}
}
