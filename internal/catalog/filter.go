package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

// Filter narrows the catalog. Nil fields are not applied.
//
// Name, Set and Rarity test the card itself. MinPrice, MaxPrice, Condition and
// InStock are inventory predicates: a card passes only if a single one of its
// inventory rows satisfies all of them at once.
type Filter struct {
	Name      *string
	Set       *string
	Rarity    *string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Condition *enums.CardCondition
	InStock   *bool
}

// HasInventoryPredicate reports whether the existential inventory join applies.
func (f Filter) HasInventoryPredicate() bool {
	return f.MinPrice != nil || f.MaxPrice != nil || f.Condition != nil || f.InStock != nil
}

// Sort selects the ordering. A nil *Sort means the default catalog order.
type Sort struct {
	Field enums.CardSortField
	Order enums.SortOrder
}

// QueryInput bundles a catalog request.
type QueryInput struct {
	Filter Filter
	Sort   *Sort
	Page   pagination.Params
}

func (in QueryInput) normalize() (QueryInput, error) {
	out := in
	out.Filter.Name = trimmedOrNil(in.Filter.Name)
	out.Filter.Set = trimmedOrNil(in.Filter.Set)
	out.Filter.Rarity = trimmedOrNil(in.Filter.Rarity)

	if in.Filter.MinPrice != nil && in.Filter.MinPrice.IsNegative() {
		return QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "min_price must be >= 0")
	}
	if in.Filter.MaxPrice != nil && in.Filter.MaxPrice.IsNegative() {
		return QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "max_price must be >= 0")
	}
	if in.Filter.Condition != nil && !in.Filter.Condition.IsValid() {
		return QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid condition")
	}
	if in.Sort != nil {
		if !in.Sort.Field.IsValid() {
			return QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field")
		}
		if in.Sort.Order == "" {
			out.Sort = &Sort{Field: in.Sort.Field, Order: enums.SortOrderAsc}
		} else if !in.Sort.Order.IsValid() {
			return QueryInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort order")
		}
	}

	page, err := in.Page.Normalize()
	if err != nil {
		return QueryInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	out.Page = page
	return out, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// likePattern builds a case-folded substring pattern with LIKE wildcards escaped.
func likePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(value)) + "%"
}
