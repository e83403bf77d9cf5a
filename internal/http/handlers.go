package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.transactions.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		respondViolations(w, violations)
		return
	}

	transaction := req.toTransaction()
	id, err := s.transactions.Create(r.Context(), transaction)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	transaction.ID = id
	respondJSON(w, http.StatusCreated, toTransactionResponse(transaction))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	transaction, err := s.transactions.Get(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, r, err, id)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(*transaction))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		respondViolations(w, violations)
		return
	}

	updated, err := s.transactions.Update(r.Context(), id, req.toUpdate())
	if err != nil {
		s.respondStoreError(w, r, err, id)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, r, err, id)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleSetBudget upserts the budget for its (category, month, year) key.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if violations := req.Validate(); len(violations) > 0 {
		respondViolations(w, violations)
		return
	}

	saved, err := s.budgets.Set(r.Context(), req.toBudget())
	if err != nil {
		slog.ErrorContext(r.Context(), "Set budget error", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}
	respondJSON(w, http.StatusOK, toBudgetResponse(saved))
}

// handleDashboard recomputes the full dashboard for the reference month,
// defaulting to the current calendar month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, violations := ParseMonthParams(r.URL.Query())
	if len(violations) > 0 {
		respondViolations(w, violations)
		return
	}

	dashboard, err := s.dashboard.Load(r.Context(), params.Month, params.Year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard load error", "error", err,
			"year", params.Year, "month", params.Month)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, toDashboardResponse(dashboard))
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"expense": core.ExpenseCategories,
		"income":  core.IncomeCategories,
	})
}

func (s *Server) respondStoreError(w http.ResponseWriter, r *http.Request, err error, id string) {
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "invalid transaction id")
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "transaction not found")
	default:
		slog.ErrorContext(r.Context(), "Transaction store error", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
