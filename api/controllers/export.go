package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/internal/export"
	"github.com/eventocaixa/backend/pkg/logger"
)

// ExportCSV streams one whitelisted table as a CSV download.
func ExportCSV(svc export.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := strings.TrimSpace(chi.URLParam(r, "table"))

		// Validate before writing headers so rejections still come back as
		// the JSON error envelope.
		if err := svc.CSV(r.Context(), table, &headerOnWrite{
			w: w,
			header: func() {
				w.Header().Set("Content-Type", "text/csv; charset=utf-8")
				w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table+".csv"))
			},
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}
}

// headerOnWrite defers the CSV headers until the first byte, keeping the
// response clean for errors raised before any output.
type headerOnWrite struct {
	w       http.ResponseWriter
	header  func()
	started bool
}

func (h *headerOnWrite) Write(p []byte) (int, error) {
	if !h.started {
		h.started = true
		if h.header != nil {
			h.header()
		}
	}
	return h.w.Write(p)
}
