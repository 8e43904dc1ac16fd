package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventocaixa/backend/api/responses"
	"github.com/eventocaixa/backend/api/validators"
	"github.com/eventocaixa/backend/internal/investments"
	"github.com/eventocaixa/backend/pkg/enums"
	"github.com/eventocaixa/backend/pkg/logger"
)

type registerInvestorRequest struct {
	Name      string `json:"name" validate:"required"`
	Principal string `json:"principal" validate:"required"`
}

// InvestorRegister records a capital contribution.
func InvestorRegister(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerInvestorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		investor, err := svc.RegisterInvestor(r.Context(), investments.RegisterInvestorInput{
			Name:      body.Name,
			Principal: body.Principal,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, investor)
	}
}

// InvestorReturn records a devolution, bounded by the remaining capital.
func InvestorReturn(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.RegisterReturn(r.Context(), id, investments.ReturnInput{
			Amount: body.Amount,
			Source: enums.PaymentSource(body.Source),
			Note:   body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func InvestorReturns(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
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

func InvestorList(svc investments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		investors, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, investors)
	}
}
