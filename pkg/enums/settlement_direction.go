package enums

import "fmt"

// SettlementDirection distinguishes money the event owes (supplier payables)
// from money it returns (investor devolutions).
type SettlementDirection string

const (
	SettlementDirectionPayable    SettlementDirection = "payable"
	SettlementDirectionReceivable SettlementDirection = "receivable"
)

var validSettlementDirections = []SettlementDirection{
	SettlementDirectionPayable,
	SettlementDirectionReceivable,
}

// String implements fmt.Stringer.
func (s SettlementDirection) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettlementDirection.
func (s SettlementDirection) IsValid() bool {
	for _, candidate := range validSettlementDirections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSettlementDirection converts the raw string to SettlementDirection.
func ParseSettlementDirection(value string) (SettlementDirection, error) {
	for _, candidate := range validSettlementDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement direction %q", value)
}
