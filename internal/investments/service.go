package investments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/internal/settlements"
	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes investor capital and devolution bookkeeping.
type Service interface {
	RegisterInvestor(ctx context.Context, input RegisterInvestorInput) (*models.Investor, error)
	RegisterReturn(ctx context.Context, investorID uuid.UUID, input ReturnInput) (*ReturnResult, error)
	History(ctx context.Context, investorID uuid.UUID) ([]models.Settlement, error)
	List(ctx context.Context) ([]models.Investor, error)
}

type service struct {
	repo        Repository
	settlements settlements.Repository
	tx          txRunner
	clock       *clock.Clock
}

// RegisterInvestorInput carries a new capital contribution.
type RegisterInvestorInput struct {
	Name      string
	Principal string
}

// ReturnInput carries one devolution as raw operator input.
type ReturnInput struct {
	Amount string
	Source enums.PaymentSource
	Note   *string
}

// ReturnResult reports the updated investor and the recorded settlement.
type ReturnResult struct {
	Investor   *models.Investor   `json:"investor"`
	Settlement *models.Settlement `json:"settlement"`
}

// NewService wires an investments service with its dependencies.
func NewService(repo Repository, settlementsRepo settlements.Repository, tx txRunner, clk *clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("investor repository required")
	}
	if settlementsRepo == nil {
		return nil, fmt.Errorf("settlements repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	return &service{repo: repo, settlements: settlementsRepo, tx: tx, clock: clk}, nil
}

func (s *service) RegisterInvestor(ctx context.Context, input RegisterInvestorInput) (*models.Investor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	principal := money.Parse(input.Principal)
	if !principal.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "principal must be positive")
	}

	investor := &models.Investor{
		Name:      name,
		Principal: principal,
	}
	if err := s.repo.Create(ctx, investor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create investor")
	}
	return investor, nil
}

func (s *service) RegisterReturn(ctx context.Context, investorID uuid.UUID, input ReturnInput) (*ReturnResult, error) {
	if investorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investor id is required")
	}
	amount := money.Parse(input.Amount)
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment source")
	}

	investor, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup investor")
	}

	// Unlike supplier payments, devolutions are hard-bounded: handing back
	// more than was put in is a bookkeeping error, not an overpayment.
	remaining := investor.Remaining()
	if amount.GreaterThan(remaining) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("amount exceeds remaining capital (%s)", remaining.StringFixed(2)))
	}

	today := s.clock.Today()
	settlement := &models.Settlement{
		Direction:    enums.SettlementDirectionReceivable,
		ObligationID: investor.ID,
		Amount:       amount,
		Source:       input.Source,
		SettledOn:    today,
	}
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if trimmed != "" {
			settlement.Note = &trimmed
		}
	}

	wasReturned := investor.Returned
	investor.AmountReturned = investor.AmountReturned.Add(amount)
	investor.Returned = investor.AmountReturned.GreaterThanOrEqual(investor.Principal)
	if investor.Returned && !wasReturned {
		investor.ReturnDate = &today
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.settlements.WithTx(tx).Create(ctx, settlement); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Save(ctx, investor)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register return")
	}

	return &ReturnResult{
		Investor:   investor,
		Settlement: settlement,
	}, nil
}

func (s *service) History(ctx context.Context, investorID uuid.UUID) ([]models.Settlement, error) {
	if investorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "investor id is required")
	}
	if _, err := s.repo.FindByID(ctx, investorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "investor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup investor")
	}
	rows, err := s.settlements.ListByObligation(ctx, enums.SettlementDirectionReceivable, investorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context) ([]models.Investor, error) {
	investors, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investors")
	}
	return investors, nil
}
