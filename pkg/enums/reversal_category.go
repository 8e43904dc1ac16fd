package enums

import "fmt"

// ReversalCategory identifies which closing figure of a cash session a
// reversal is charged against.
type ReversalCategory string

const (
	ReversalCategoryCash        ReversalCategory = "cash"
	ReversalCategoryCard        ReversalCategory = "card"
	ReversalCategoryWithdrawals ReversalCategory = "withdrawals"
)

var validReversalCategories = []ReversalCategory{
	ReversalCategoryCash,
	ReversalCategoryCard,
	ReversalCategoryWithdrawals,
}

// String implements fmt.Stringer.
func (r ReversalCategory) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReversalCategory.
func (r ReversalCategory) IsValid() bool {
	for _, candidate := range validReversalCategories {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReversalCategory converts the raw string to ReversalCategory.
func ParseReversalCategory(value string) (ReversalCategory, error) {
	for _, candidate := range validReversalCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reversal category %q", value)
}
