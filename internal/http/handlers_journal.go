package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pairbudget/internal/core"
	"pairbudget/internal/log"
)

// handleJournal routes the /api/journal verbs to the journal service.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListExpenses(w, r)
	case http.MethodPost:
		s.handleAddExpense(w, r)
	case http.MethodPut:
		s.handleUpdateExpense(w, r)
	case http.MethodDelete:
		s.handleDeleteExpense(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if expenses, found := s.journalCache.Get(journalCacheKey); found {
		slog.DebugContext(r.Context(), "Journal cache hit", log.FieldCount, len(expenses))
		writeJSON(w, http.StatusOK, expenses)
		return
	}

	expenses, err := s.journal.ListExpenses(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.journalCache.Set(journalCacheKey, expenses)
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The store requires id and amount; everything else is taken as sent.
	// A zero amount is rejected along with a missing one, matching the
	// behaviour clients already depend on.
	if e.ID == "" || e.Amount == 0 {
		writeError(w, http.StatusInternalServerError, "Missing required fields")
		return
	}

	if err := s.journal.CreateExpense(r.Context(), e); err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", log.FieldError, err, log.FieldExpenseID, e.ID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.journalCache.Delete(journalCacheKey)
	writeMessage(w, http.StatusOK, "Expense added")
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if e.ID == "" {
		writeError(w, http.StatusInternalServerError, "Missing ID")
		return
	}

	if err := s.journal.UpdateExpense(r.Context(), e); err != nil {
		slog.ErrorContext(r.Context(), "Update expense failed", log.FieldError, err, log.FieldExpenseID, e.ID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.journalCache.Delete(journalCacheKey)
	writeMessage(w, http.StatusOK, "Expense updated")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("reset") == "true" {
		if err := s.journal.ResetExpenses(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Reset expenses failed", log.FieldError, err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.journalCache.Delete(journalCacheKey)
		writeMessage(w, http.StatusOK, "All expenses deleted")
		return
	}

	if id := query.Get("id"); id != "" {
		if err := s.journal.DeleteExpense(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Delete expense failed", log.FieldError, err, log.FieldExpenseID, id)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.journalCache.Delete(journalCacheKey)
		writeMessage(w, http.StatusOK, "Expense deleted")
		return
	}

	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
