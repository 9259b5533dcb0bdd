package enums

import "fmt"

// FinanceType classifies a financial record as money in or money out.
type FinanceType string

const (
	FinanceIncome  FinanceType = "income"
	FinanceExpense FinanceType = "expense"
)

var validFinanceTypes = []FinanceType{FinanceIncome, FinanceExpense}

// String implements fmt.Stringer.
func (f FinanceType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FinanceType.
func (f FinanceType) IsValid() bool {
	for _, candidate := range validFinanceTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFinanceType converts raw input into a FinanceType.
func ParseFinanceType(value string) (FinanceType, error) {
	for _, candidate := range validFinanceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid finance type %q", value)
}
