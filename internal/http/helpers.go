package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

type transactionResponse struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

type budgetResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    int     `json:"month"`
	Year     int     `json:"year"`
}

type totalsResponse struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type categoryValueResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type monthBucketResponse struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Expenses float64 `json:"expenses"`
}

type budgetComparisonResponse struct {
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Actual   float64 `json:"actual"`
}

type dashboardResponse struct {
	Month          int                        `json:"month"`
	Year           int                        `json:"year"`
	Totals         totalsResponse             `json:"totals"`
	Breakdown      []categoryValueResponse    `json:"breakdown"`
	Series         []monthBucketResponse      `json:"series"`
	Reconciliation []budgetComparisonResponse `json:"reconciliation"`
	Insights       []string                   `json:"insights"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.Float(),
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
		Type:        string(t.Type),
		Category:    t.Category,
	}
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		Category: b.Category,
		Amount:   b.Amount.Float(),
		Month:    b.Month,
		Year:     b.Year,
	}
}

func toDashboardResponse(d *services.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Month: d.Month,
		Year:  d.Year,
		Totals: totalsResponse{
			Income:   d.Totals.Income.Float(),
			Expenses: d.Totals.Expenses.Float(),
			Net:      d.Totals.Net.Float(),
		},
		Breakdown:      make([]categoryValueResponse, 0, len(d.Breakdown)),
		Series:         make([]monthBucketResponse, 0, len(d.Series)),
		Reconciliation: make([]budgetComparisonResponse, 0, len(d.Reconciliation)),
		Insights:       d.Insights,
	}
	for _, cv := range d.Breakdown {
		resp.Breakdown = append(resp.Breakdown, categoryValueResponse{Name: cv.Name, Value: cv.Value.Float()})
	}
	for _, b := range d.Series {
		resp.Series = append(resp.Series, monthBucketResponse{Key: b.Key, Label: b.Label, Expenses: b.Expenses.Float()})
	}
	for _, row := range d.Reconciliation {
		resp.Reconciliation = append(resp.Reconciliation, budgetComparisonResponse{
			Category: row.Category,
			Budgeted: row.Budgeted.Float(),
			Actual:   row.Actual.Float(),
		})
	}
	if resp.Insights == nil {
		resp.Insights = []string{}
	}
	return resp
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondViolations(w http.ResponseWriter, violations []string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:      "validation failed",
		Violations: violations,
	})
}
