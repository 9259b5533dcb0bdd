package enums

import "fmt"

// FinanceStatus tracks the settlement state of a financial record.
type FinanceStatus string

const (
	FinancePending FinanceStatus = "pending"
	FinancePaid    FinanceStatus = "paid"
	FinanceVoid    FinanceStatus = "void"
)

var validFinanceStatuses = []FinanceStatus{FinancePending, FinancePaid, FinanceVoid}

// String implements fmt.Stringer.
func (f FinanceStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FinanceStatus.
func (f FinanceStatus) IsValid() bool {
	for _, candidate := range validFinanceStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFinanceStatus converts raw input into a FinanceStatus.
func ParseFinanceStatus(value string) (FinanceStatus, error) {
	for _, candidate := range validFinanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid finance status %q", value)
}
