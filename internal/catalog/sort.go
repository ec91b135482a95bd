package catalog

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
)

var cardNumberPrefixRe = regexp.MustCompile(`^\s*(\d+)`)

// CardNumberPrefix extracts the leading integer of a card number such as
// "4/102". Missing or unparseable numbers yield 0.
func CardNumberPrefix(number *string) int {
	if number == nil {
		return 0
	}
	m := cardNumberPrefixRe.FindStringSubmatch(*number)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// MinPrice returns the cheapest inventory price of card. ok is false for a
// card without inventory rows.
func MinPrice(card *models.Card) (price decimal.Decimal, ok bool) {
	for i, row := range card.Inventory {
		if i == 0 || row.Price.LessThan(price) {
			price = row.Price
		}
	}
	return price, len(card.Inventory) > 0
}

// cardComparator orders cards. It is not safe for concurrent use because the
// collator keeps internal buffers; build one per query.
type cardComparator struct {
	sort     *Sort
	collator *collate.Collator
}

func newCardComparator(sort *Sort) *cardComparator {
	return &cardComparator{
		sort:     sort,
		collator: collate.New(language.English),
	}
}

// Compare returns a total order. DESC negates the complete comparison,
// tie-breakers included, so it is the exact reverse of ASC.
func (c *cardComparator) Compare(a, b *models.Card) int {
	result := c.primary(a, b)
	if result == 0 {
		result = c.defaultOrder(a, b)
	}
	if c.sort != nil && c.sort.Order == enums.SortOrderDesc {
		return -result
	}
	return result
}

func (c *cardComparator) primary(a, b *models.Card) int {
	if c.sort == nil {
		return 0
	}
	switch c.sort.Field {
	case enums.CardSortFieldName:
		return c.collator.CompareString(a.Name, b.Name)
	case enums.CardSortFieldRarity:
		return c.collator.CompareString(a.Rarity, b.Rarity)
	case enums.CardSortFieldCardNumber:
		return cmp.Compare(CardNumberPrefix(a.CardNumber), CardNumberPrefix(b.CardNumber))
	case enums.CardSortFieldPrice:
		return compareMinPrice(a, b)
	case enums.CardSortFieldSet:
		if r := cmp.Compare(SetRank(a.Set), SetRank(b.Set)); r != 0 {
			return r
		}
		return c.collator.CompareString(a.Set, b.Set)
	}
	return 0
}

// defaultOrder is set rank, then card number prefix, then name and id.
func (c *cardComparator) defaultOrder(a, b *models.Card) int {
	if r := cmp.Compare(SetRank(a.Set), SetRank(b.Set)); r != 0 {
		return r
	}
	if r := cmp.Compare(CardNumberPrefix(a.CardNumber), CardNumberPrefix(b.CardNumber)); r != 0 {
		return r
	}
	if r := c.collator.CompareString(a.Name, b.Name); r != 0 {
		return r
	}
	return cmp.Compare(a.ID, b.ID)
}

// compareMinPrice treats a card without inventory as priced at +infinity.
func compareMinPrice(a, b *models.Card) int {
	pa, okA := MinPrice(a)
	pb, okB := MinPrice(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return pa.Cmp(pb)
}

// SortCards orders cards in place.
func SortCards(cards []models.Card, sort *Sort) {
	c := newCardComparator(sort)
	slices.SortFunc(cards, func(a, b models.Card) int {
		return c.Compare(&a, &b)
	})
}

// sortInventory orders a card's rows from MINT down to POOR.
func sortInventory(rows []models.Inventory) {
	slices.SortFunc(rows, func(a, b models.Inventory) int {
		if r := cmp.Compare(a.Condition.Rank(), b.Condition.Rank()); r != 0 {
			return r
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
}
