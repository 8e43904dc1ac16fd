package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/api/validators"
	"github.com/eventocaixa/backend/internal/cashbox"
	"github.com/eventocaixa/backend/internal/reversals"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/logger"
)

type openSessionRequest struct {
	Operator string `json:"operator" validate:"required"`
	Date     string `json:"date,omitempty"`
}

type sessionFiguresRequest struct {
	Cash        string  `json:"cash"`
	Card        string  `json:"card"`
	Bank        string  `json:"bank"`
	Withdrawals string  `json:"withdrawals"`
	Notes       *string `json:"notes,omitempty"`
}

func (req sessionFiguresRequest) toInput() cashbox.FiguresInput {
	return cashbox.FiguresInput{
		Cash:        req.Cash,
		Card:        req.Card,
		Bank:        req.Bank,
		Withdrawals: req.Withdrawals,
		Notes:       req.Notes,
	}
}

// SessionOpen starts a register session for an operator and date.
func SessionOpen(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body openSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Open(r.Context(), cashbox.OpenInput{Date: body.Date, Operator: body.Operator})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// SessionClose records the closing figures and links the shift's inventory.
func SessionClose(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessionFiguresRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Close(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{
			"session":      result.Session,
			"linked_items": result.LinkedItems,
		}
		if result.ZeroFigures {
			payload["warning"] = "session closed with zero cash and card"
		}
		responses.WriteSuccess(w, payload)
	}
}

// SessionEdit overwrites the stored figures on an open or closed session.
func SessionEdit(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessionFiguresRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Edit(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := map[string]any{"session": result.Session}
		if result.ZeroFigures {
			payload["warning"] = "session figures are zero cash and card"
		}
		responses.WriteSuccess(w, payload)
	}
}

func SessionDetail(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SessionList lists by operator when the query is present, open sessions
// otherwise.
func SessionList(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operator := strings.TrimSpace(r.URL.Query().Get("operator"))
		if operator != "" {
			sessions, err := svc.ListByOperator(r.Context(), operator)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, sessions)
			return
		}

		sessions, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessions)
	}
}

func SessionListOpen(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessions)
	}
}

// SessionToday finds the operator's open session for today's date.
func SessionToday(svc cashbox.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operator := strings.TrimSpace(r.URL.Query().Get("operator"))
		if operator == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "operator query parameter is required"))
			return
		}

		session, err := svc.OpenToday(r.Context(), operator)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// SessionEffective returns the session's figures after folding its reversals.
func SessionEffective(svc reversals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		figures, err := svc.ComputeEffective(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, figures)
	}
}
