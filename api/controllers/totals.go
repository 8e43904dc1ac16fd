package controllers

import (
	"net/http"
	"strings"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/internal/totals"
	"github.com/eventocaixa/backend/pkg/logger"
)

// Totals returns the event-wide aggregate snapshot.
func Totals(svc totals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.ComputeTotals(r.Context()))
	}
}

// SessionReport returns closed sessions with reversal-adjusted figures over an
// optional date range.
func SessionReport(svc totals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := strings.TrimSpace(r.URL.Query().Get("from"))
		to := strings.TrimSpace(r.URL.Query().Get("to"))

		report, err := svc.SessionReport(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
