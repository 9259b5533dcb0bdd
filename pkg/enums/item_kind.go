package enums

import "fmt"

// ItemKind distinguishes billable parts from labor on a work order.
type ItemKind string

const (
	ItemKindPart    ItemKind = "part"
	ItemKindService ItemKind = "service"
)

var validItemKinds = []ItemKind{ItemKindPart, ItemKindService}

// String implements fmt.Stringer.
func (i ItemKind) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemKind.
func (i ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
