package reversals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/pagination"
)

type sessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.CashSession, error)
}

// Service records and reads the append-only reversal log. Session rows are
// never mutated; corrected figures come out of the Effective fold.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.Reversal, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Reversal, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ComputeEffective(ctx context.Context, sessionID uuid.UUID) (*EffectiveFigures, error)
}

// ListParams carries cursor pagination inputs for the event-wide log.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps one page of reversals and the cursor for the next page.
type ListResult struct {
	Items  []models.Reversal `json:"items"`
	Cursor string            `json:"cursor"`
}

type service struct {
	repo     Repository
	sessions sessionRepository
	clock    *clock.Clock
}

// RecordInput carries one correction against a closed-out figure.
type RecordInput struct {
	SessionID uuid.UUID
	Amount    decimal.Decimal
	Category  enums.ReversalCategory
	Reason    string
}

// EffectiveFigures is the result of folding a session's reversal log over its
// stored figures, with each category clamped at zero.
type EffectiveFigures struct {
	SessionID   uuid.UUID       `json:"session_id"`
	Cash        decimal.Decimal `json:"cash"`
	Card        decimal.Decimal `json:"card"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Net         decimal.Decimal `json:"net"`
}

// NewService wires a reversal service with its dependencies.
func NewService(repo Repository, sessions sessionRepository, clk *clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reversal repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	return &service{repo: repo, sessions: sessions, clock: clk}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.Reversal, error) {
	if input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid reversal category")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	if _, err := s.sessions.FindByID(ctx, input.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}

	// Oversized amounts are recorded as requested: the log is the audit
	// trail, and the fold clamps so the effective figure bottoms out at zero.
	reversal := &models.Reversal{
		SessionID:  input.SessionID,
		Amount:     input.Amount.Round(2),
		Category:   input.Category,
		Reason:     reason,
		ReversedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, reversal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reversal")
	}
	return reversal, nil
}

func (s *service) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Reversal, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list session reversals")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.ListPage(ctx, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reversals")
	}

	result := &ListResult{Items: rows}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) ComputeEffective(ctx context.Context, sessionID uuid.UUID) (*EffectiveFigures, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}

	rows, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list session reversals")
	}

	figures := Effective(session, rows)
	return &figures, nil
}

// Effective folds the reversal log over the session's stored figures. Each
// category is clamped at zero independently, so oversized or repeated
// reversals can never drive a figure negative or leak into another category.
func Effective(session *models.CashSession, rows []models.Reversal) EffectiveFigures {
	cash := session.Cash
	card := session.Card
	withdrawals := session.Withdrawals

	for _, row := range rows {
		switch row.Category {
		case enums.ReversalCategoryCash:
			cash = clampSub(cash, row.Amount)
		case enums.ReversalCategoryCard:
			card = clampSub(card, row.Amount)
		case enums.ReversalCategoryWithdrawals:
			withdrawals = clampSub(withdrawals, row.Amount)
		}
	}

	return EffectiveFigures{
		SessionID:   session.ID,
		Cash:        cash,
		Card:        card,
		Withdrawals: withdrawals,
		Net:         cash.Add(card).Sub(withdrawals),
	}
}

func clampSub(value, amount decimal.Decimal) decimal.Decimal {
	result := value.Sub(amount)
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}
