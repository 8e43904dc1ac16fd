package cashbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryRepository interface {
	AssignToSessionWithTx(tx *gorm.DB, date, responsible string, sessionID uuid.UUID) (int64, error)
}

// Service exposes the register session lifecycle: open, close, edit, lookup.
type Service interface {
	Open(ctx context.Context, input OpenInput) (*models.CashSession, error)
	Close(ctx context.Context, id uuid.UUID, input FiguresInput) (*CloseResult, error)
	Edit(ctx context.Context, id uuid.UUID, input FiguresInput) (*EditResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CashSession, error)
	ListOpen(ctx context.Context) ([]models.CashSession, error)
	ListByOperator(ctx context.Context, operator string) ([]models.CashSession, error)
	OpenToday(ctx context.Context, operator string) (*models.CashSession, error)
}

type service struct {
	repo      Repository
	inventory inventoryRepository
	tx        txRunner
	clock     *clock.Clock
}

// OpenInput carries the data needed to open a session. Date defaults to
// today in the configured timezone.
type OpenInput struct {
	Date     string
	Operator string
}

// FiguresInput carries the closing figures as raw operator input; amounts go
// through the forgiving money parser, so "R$ 1.234,56" and "1234.56" both work.
type FiguresInput struct {
	Cash        string
	Card        string
	Bank        string
	Withdrawals string
	Notes       *string
}

// CloseResult reports the closed session plus close-time side effects.
type CloseResult struct {
	Session *models.CashSession
	// ZeroFigures flags a close where both cash and card came in as zero,
	// which usually means the operator skipped counting.
	ZeroFigures bool
	LinkedItems int64
}

// EditResult reports the edited session, with the same zero-figures flag as
// a close since an edit can wipe a counted session back to zero.
type EditResult struct {
	Session     *models.CashSession
	ZeroFigures bool
}

// NewService wires a session service with its dependencies.
func NewService(repo Repository, inventory inventoryRepository, tx txRunner, clk *clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cashbox repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	return &service{repo: repo, inventory: inventory, tx: tx, clock: clk}, nil
}

func (s *service) Open(ctx context.Context, input OpenInput) (*models.CashSession, error) {
	operator := strings.TrimSpace(input.Operator)
	if operator == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator is required")
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.clock.Today()
	} else if !clock.ValidDate(date) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	_, err := s.repo.FindOpen(ctx, date, operator)
	switch {
	case err == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "session already open for this operator and date")
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open session")
	}

	session := &models.CashSession{
		SessionDate: date,
		Operator:    operator,
		OpenedAt:    s.clock.Now(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return session, nil
}

func (s *service) Close(ctx context.Context, id uuid.UUID, input FiguresInput) (*CloseResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.ClosedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "session already closed")
	}

	applyFigures(session, input)
	now := s.clock.Now()
	session.ClosedAt = &now

	result := &CloseResult{
		Session:     session,
		ZeroFigures: session.Cash.IsZero() && session.Card.IsZero(),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Save(ctx, session); err != nil {
			return err
		}
		linked, err := s.inventory.AssignToSessionWithTx(tx, session.SessionDate, session.Operator, session.ID)
		if err != nil {
			return err
		}
		result.LinkedItems = linked
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close session")
	}
	return result, nil
}

func (s *service) Edit(ctx context.Context, id uuid.UUID, input FiguresInput) (*EditResult, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	session, err := s.findSession(ctx, id)
	if err != nil {
		return nil, err
	}

	// Editing is allowed on open and closed sessions alike; closed_at stays
	// untouched. Concurrent edits are last-write-wins.
	applyFigures(session, input)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return &EditResult{
		Session:     session,
		ZeroFigures: session.Cash.IsZero() && session.Card.IsZero(),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.CashSession, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.findSession(ctx, id)
}

func (s *service) ListOpen(ctx context.Context) ([]models.CashSession, error) {
	sessions, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list open sessions")
	}
	return sessions, nil
}

func (s *service) ListByOperator(ctx context.Context, operator string) ([]models.CashSession, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator is required")
	}
	sessions, err := s.repo.ListByOperator(ctx, operator)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions by operator")
	}
	return sessions, nil
}

func (s *service) OpenToday(ctx context.Context, operator string) (*models.CashSession, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator is required")
	}
	session, err := s.repo.FindOpen(ctx, s.clock.Today(), operator)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open session today")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find open session")
	}
	return session, nil
}

func (s *service) findSession(ctx context.Context, id uuid.UUID) (*models.CashSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	return session, nil
}

func applyFigures(session *models.CashSession, input FiguresInput) {
	session.Cash = money.Parse(input.Cash)
	session.Card = money.Parse(input.Card)
	session.Bank = money.Parse(input.Bank)
	session.Withdrawals = money.Parse(input.Withdrawals)
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed == "" {
			session.Notes = nil
		} else {
			session.Notes = &trimmed
		}
	}
}
