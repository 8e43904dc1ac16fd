package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/api/validators"
	"github.com/eventocaixa/backend/internal/reversals"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/logger"
	"github.com/eventocaixa/backend/pkg/money"
)

type recordReversalRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// ReversalRecord appends a correction to a session's reversal log.
func ReversalRecord(svc reversals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordReversalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := validators.ParsePathUUID(body.SessionID, "session_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount := money.ParseMin(body.Amount, decimal.Zero)
		reversal, err := svc.Record(r.Context(), reversals.RecordInput{
			SessionID: sessionID,
			Amount:    amount,
			Category:  enums.ReversalCategory(body.Category),
			Reason:    body.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reversal)
	}
}

// ReversalList pages through the whole log, or returns one session's slice
// of it when session_id is supplied.
func ReversalList(svc reversals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := strings.TrimSpace(r.URL.Query().Get("session_id")); raw != "" {
			id, err := validators.ParsePathUUID(raw, "session_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			rows, err := svc.ListBySession(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if rows == nil {
				rows = []models.Reversal{}
			}
			responses.WriteSuccess(w, rows)
			return
		}

		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a non-negative integer"))
				return
			}
			limit = parsed
		}

		result, err := svc.List(r.Context(), reversals.ListParams{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", ""),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Items == nil {
			result.Items = []models.Reversal{}
		}
		responses.WriteSuccess(w, result)
	}
}
