package enums

import (
	"fmt"
	"strings"
)

// CardSortField selects the primary key of a catalog ordering.
type CardSortField string

const (
	CardSortFieldName       CardSortField = "NAME"
	CardSortFieldCardNumber CardSortField = "CARD_NUMBER"
	CardSortFieldPrice      CardSortField = "PRICE"
	CardSortFieldRarity     CardSortField = "RARITY"
	CardSortFieldSet        CardSortField = "SET"
)

var validCardSortFields = []CardSortField{
	CardSortFieldName,
	CardSortFieldCardNumber,
	CardSortFieldPrice,
	CardSortFieldRarity,
	CardSortFieldSet,
}

// String implements fmt.Stringer.
func (f CardSortField) String() string {
	return string(f)
}

// IsValid reports whether the value is a known CardSortField.
func (f CardSortField) IsValid() bool {
	for _, candidate := range validCardSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseCardSortField converts raw input into a CardSortField. Matching ignores case.
func ParseCardSortField(value string) (CardSortField, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCardSortFields {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort field %q", value)
}

// SortOrder is the direction applied to the full comparator.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// String implements fmt.Stringer.
func (o SortOrder) String() string {
	return string(o)
}

// IsValid reports whether the value is a known SortOrder.
func (o SortOrder) IsValid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

// ParseSortOrder converts raw input into a SortOrder. Matching ignores case.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToUpper(strings.TrimSpace(value))) {
	case SortOrderAsc:
		return SortOrderAsc, nil
	case SortOrderDesc:
		return SortOrderDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
