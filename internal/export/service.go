// Package export produces read-only CSV projections of the bookkeeping
// tables, byte-compatible with spreadsheet imports (UTF-8 with BOM).
package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"

	"gorm.io/gorm"

	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
)

// utf8BOM makes Excel detect the encoding instead of assuming Latin-1;
// operator and product names are routinely accented.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Tables is the whitelist of exportable tables. Anything else is rejected
// before touching the database.
var Tables = []string{
	"cash_sessions",
	"inventory_items",
	"suppliers",
	"investors",
	"settlements",
	"reversals",
}

// Service streams whitelisted tables as CSV.
type Service interface {
	CSV(ctx context.Context, table string, w io.Writer) error
}

type service struct {
	db *gorm.DB
}

// NewService wires an export service over the shared connection.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database required")
	}
	return &service{db: db}, nil
}

func (s *service) CSV(ctx context.Context, table string, w io.Writer) error {
	if !allowed(table) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown export table %q", table))
	}

	rows, err := s.db.WithContext(ctx).
		Table(table).
		Order("created_at ASC").
		Rows()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query export table")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read export columns")
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write bom")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write header")
	}

	values := make([]sql.RawBytes, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	record := make([]string, len(columns))
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan export row")
		}
		for i, value := range values {
			record[i] = string(value)
		}
		if err := writer.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write record")
		}
	}
	if err := rows.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "iterate export rows")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

func allowed(table string) bool {
	for _, candidate := range Tables {
		if candidate == table {
			return true
		}
	}
	return false
}
