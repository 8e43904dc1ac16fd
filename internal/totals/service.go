package totals

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventocaixa/backend/internal/reversals"
	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/logger"
)

type sessionRepository interface {
	ListClosed(ctx context.Context) ([]models.CashSession, error)
	ListClosedInRange(ctx context.Context, from, to string) ([]models.CashSession, error)
}

type reversalRepository interface {
	ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) ([]models.Reversal, error)
}

type supplierRepository interface {
	List(ctx context.Context) ([]models.Supplier, error)
}

type investorRepository interface {
	List(ctx context.Context) ([]models.Investor, error)
}

// Service computes event-wide financial aggregates.
type Service interface {
	ComputeTotals(ctx context.Context) *Record
	SessionReport(ctx context.Context, from, to string) (*Report, error)
}

type service struct {
	sessions  sessionRepository
	reversals reversalRepository
	suppliers supplierRepository
	investors investorRepository
	logg      *logger.Logger
}

// Record is the aggregate snapshot across the whole event. Every figure is a
// pure function of store state; recomputing without new writes yields the
// same record.
type Record struct {
	TotalCashSessions decimal.Decimal `json:"total_cash_sessions"`
	TotalBank         decimal.Decimal `json:"total_bank"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	AmountOwed        decimal.Decimal `json:"amount_owed"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalReturned     decimal.Decimal `json:"total_returned"`
	AmountToReturn    decimal.Decimal `json:"amount_to_return"`
	AvailableBalance  decimal.Decimal `json:"available_balance"`
}

// ReportRow is one closed session with its reversal-adjusted figures.
type ReportRow struct {
	SessionID   uuid.UUID       `json:"session_id"`
	SessionDate string          `json:"session_date"`
	Operator    string          `json:"operator"`
	Cash        decimal.Decimal `json:"cash"`
	Card        decimal.Decimal `json:"card"`
	Bank        decimal.Decimal `json:"bank"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Net         decimal.Decimal `json:"net"`
	NetWithBank decimal.Decimal `json:"net_with_bank"`
}

// Report is the session report over a date range, newest first.
type Report struct {
	From             string          `json:"from,omitempty"`
	To               string          `json:"to,omitempty"`
	Rows             []ReportRow     `json:"rows"`
	TotalNet         decimal.Decimal `json:"total_net"`
	TotalNetWithBank decimal.Decimal `json:"total_net_with_bank"`
}

// NewService wires a totals service with its dependencies.
func NewService(sessions sessionRepository, reversalsRepo reversalRepository, suppliers supplierRepository, investors investorRepository, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if reversalsRepo == nil {
		return nil, fmt.Errorf("reversal repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if investors == nil {
		return nil, fmt.Errorf("investor repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:  sessions,
		reversals: reversalsRepo,
		suppliers: suppliers,
		investors: investors,
		logg:      logg,
	}, nil
}

// ComputeTotals is fail-soft: a store error logs and yields the zero-filled
// record instead of failing the whole dashboard read.
func (s *service) ComputeTotals(ctx context.Context) *Record {
	record := zeroRecord()

	sessions, err := s.sessions.ListClosed(ctx)
	if err != nil {
		s.logg.Error(ctx, "totals: falling back to zero record", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list closed sessions"))
		return record
	}

	byID, err := s.reversalsBySession(ctx, sessions)
	if err != nil {
		s.logg.Error(ctx, "totals: falling back to zero record", err)
		return record
	}

	for i := range sessions {
		session := &sessions[i]
		figures := reversals.Effective(session, byID[session.ID])
		record.TotalCashSessions = record.TotalCashSessions.Add(figures.Net)
		record.TotalBank = record.TotalBank.Add(session.Bank)
	}

	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		s.logg.Error(ctx, "totals: falling back to zero record", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers"))
		return zeroRecord()
	}
	for _, supplier := range suppliers {
		record.TotalPayable = record.TotalPayable.Add(supplier.Total)
		record.TotalPaid = record.TotalPaid.Add(supplier.AmountPaid)
	}
	// Overpaid suppliers reduce the aggregate owed figure, so this is the raw
	// difference, not a sum of per-supplier remainders.
	record.AmountOwed = record.TotalPayable.Sub(record.TotalPaid)

	investors, err := s.investors.List(ctx)
	if err != nil {
		s.logg.Error(ctx, "totals: falling back to zero record", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investors"))
		return zeroRecord()
	}
	for _, investor := range investors {
		record.TotalInvested = record.TotalInvested.Add(investor.Principal)
		record.TotalReturned = record.TotalReturned.Add(investor.AmountReturned)
		if !investor.Returned {
			record.AmountToReturn = record.AmountToReturn.Add(investor.Remaining())
		}
	}

	record.AvailableBalance = record.TotalCashSessions.
		Add(record.TotalBank).
		Sub(record.AmountOwed).
		Sub(record.AmountToReturn)
	return record
}

func (s *service) SessionReport(ctx context.Context, from, to string) (*Report, error) {
	if from != "" && !clock.ValidDate(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must be YYYY-MM-DD")
	}
	if to != "" && !clock.ValidDate(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must be YYYY-MM-DD")
	}
	if from != "" && to != "" && from > to {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
	}

	sessions, err := s.sessions.ListClosedInRange(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions in range")
	}

	byID, err := s.reversalsBySession(ctx, sessions)
	if err != nil {
		return nil, err
	}

	report := &Report{
		From:             from,
		To:               to,
		Rows:             make([]ReportRow, 0, len(sessions)),
		TotalNet:         decimal.Zero,
		TotalNetWithBank: decimal.Zero,
	}
	for i := range sessions {
		session := &sessions[i]
		figures := reversals.Effective(session, byID[session.ID])
		row := ReportRow{
			SessionID:   session.ID,
			SessionDate: session.SessionDate,
			Operator:    session.Operator,
			Cash:        figures.Cash,
			Card:        figures.Card,
			Bank:        session.Bank,
			Withdrawals: figures.Withdrawals,
			Net:         figures.Net,
			NetWithBank: figures.Net.Add(session.Bank),
		}
		report.Rows = append(report.Rows, row)
		report.TotalNet = report.TotalNet.Add(row.Net)
		report.TotalNetWithBank = report.TotalNetWithBank.Add(row.NetWithBank)
	}
	return report, nil
}

func (s *service) reversalsBySession(ctx context.Context, sessions []models.CashSession) (map[uuid.UUID][]models.Reversal, error) {
	ids := make([]uuid.UUID, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
	}
	rows, err := s.reversals.ListBySessions(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reversals")
	}
	byID := make(map[uuid.UUID][]models.Reversal, len(sessions))
	for _, row := range rows {
		byID[row.SessionID] = append(byID[row.SessionID], row)
	}
	return byID, nil
}

func zeroRecord() *Record {
	return &Record{
		TotalCashSessions: decimal.Zero,
		TotalBank:         decimal.Zero,
		TotalPayable:      decimal.Zero,
		TotalPaid:         decimal.Zero,
		AmountOwed:        decimal.Zero,
		TotalInvested:     decimal.Zero,
		TotalReturned:     decimal.Zero,
		AmountToReturn:    decimal.Zero,
		AvailableBalance:  decimal.Zero,
	}
}
