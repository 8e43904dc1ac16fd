package enums

import "fmt"

// PaymentSource records which pot of money a settlement was paid from.
type PaymentSource string

const (
	PaymentSourceCash     PaymentSource = "cash"
	PaymentSourceCard     PaymentSource = "card"
	PaymentSourceBank     PaymentSource = "bank"
	PaymentSourceTransfer PaymentSource = "transfer"
	PaymentSourceOther    PaymentSource = "other"
)

var validPaymentSources = []PaymentSource{
	PaymentSourceCash,
	PaymentSourceCard,
	PaymentSourceBank,
	PaymentSourceTransfer,
	PaymentSourceOther,
}

// String implements fmt.Stringer.
func (p PaymentSource) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentSource.
func (p PaymentSource) IsValid() bool {
	for _, candidate := range validPaymentSources {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentSource converts the raw string to PaymentSource.
func ParsePaymentSource(value string) (PaymentSource, error) {
	for _, candidate := range validPaymentSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment source %q", value)
}
