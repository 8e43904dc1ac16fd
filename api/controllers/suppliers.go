package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/api/validators"
	"github.com/eventocaixa/backend/internal/payables"
	"github.com/eventocaixa/backend/pkg/enums"
	"github.com/eventocaixa/backend/pkg/logger"
)

type registerSupplierRequest struct {
	Name           string          `json:"name" validate:"required"`
	Total          string          `json:"total" validate:"required"`
	Notes          *string         `json:"notes,omitempty"`
	InitialPayment *paymentRequest `json:"initial_payment,omitempty"`
}

type paymentRequest struct {
	Amount string  `json:"amount" validate:"required"`
	Source string  `json:"source" validate:"required"`
	Note   *string `json:"note,omitempty"`
}

func (req paymentRequest) toInput() payables.PaymentInput {
	return payables.PaymentInput{
		Amount: req.Amount,
		Source: enums.PaymentSource(req.Source),
		Note:   req.Note,
	}
}

// SupplierRegister records a new payable, optionally with an opening payment.
func SupplierRegister(svc payables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerSupplierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payables.RegisterSupplierInput{
			Name:  body.Name,
			Total: body.Total,
			Notes: body.Notes,
		}
		if body.InitialPayment != nil {
			payment := body.InitialPayment.toInput()
			input.InitialPayment = &payment
		}

		supplier, err := svc.RegisterSupplier(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

func SupplierPayment(svc payables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RegisterPayment(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func SupplierPayments(svc payables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

func SupplierList(svc payables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers)
	}
}
