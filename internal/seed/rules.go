package seed

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/pkg/enums"
)

const (
	RarityCommon   = "Common"
	RarityUncommon = "Uncommon"
	RarityRare     = "Rare"
)

var trainerKeywords = []string{
	"trainer", "professor", "breeder", "finder", "search", "maintenance",
	"pluspower", "potion", "switch", "center", "flute", "pokédex", "ball",
	"recall", "removal", "retrieval", "revive", "scoop", "devolution",
	"imposter", "lass", "computer", "defender", "double", "full", "gust",
	"heal", "item", "bill", "oak", "super", "doll", "gambler", "challenge",
	"digger", "goop", "nightly", "sleep", "the boss", "rockets",
}

var legendaryNames = map[string]struct{}{
	"mewtwo": {}, "mew": {}, "articuno": {}, "zapdos": {},
	"moltres": {}, "dratini": {}, "dragonite": {},
}

var basePrices = map[string]decimal.Decimal{
	RarityCommon:   decimal.RequireFromString("0.5"),
	RarityUncommon: decimal.RequireFromString("1.5"),
	RarityRare:     decimal.RequireFromString("5.0"),
}

var priceMultipliers = map[enums.CardCondition]decimal.Decimal{
	enums.CardConditionPoor:        decimal.RequireFromString("0.3"),
	enums.CardConditionPlayed:      decimal.RequireFromString("0.5"),
	enums.CardConditionLightPlayed: decimal.RequireFromString("0.7"),
	enums.CardConditionGood:        decimal.RequireFromString("0.8"),
	enums.CardConditionExcellent:   decimal.RequireFromString("0.9"),
	enums.CardConditionNearMint:    decimal.RequireFromString("1.0"),
	enums.CardConditionMint:        decimal.RequireFromString("1.2"),
}

var baseStock = map[string]int64{
	RarityCommon:   50,
	RarityUncommon: 25,
	RarityRare:     10,
}

var stockMultipliers = map[enums.CardCondition]decimal.Decimal{
	enums.CardConditionPoor:        decimal.RequireFromString("1.5"),
	enums.CardConditionPlayed:      decimal.RequireFromString("1.3"),
	enums.CardConditionLightPlayed: decimal.RequireFromString("1.2"),
	enums.CardConditionGood:        decimal.RequireFromString("1.1"),
	enums.CardConditionExcellent:   decimal.RequireFromString("1.0"),
	enums.CardConditionNearMint:    decimal.RequireFromString("0.8"),
	enums.CardConditionMint:        decimal.RequireFromString("0.5"),
}

// Rarity guesses a rarity from the card number and the file-name slug
// (for example "professor-oak"). Rules apply in order; the first match wins.
func Rarity(number int, slug string) string {
	if number > 50 {
		return RarityCommon
	}
	if strings.Contains(slug, "energy") {
		return RarityCommon
	}
	for _, keyword := range trainerKeywords {
		if strings.Contains(slug, keyword) {
			return RarityUncommon
		}
	}
	if _, ok := legendaryNames[slug]; ok {
		return RarityRare
	}
	if number <= 10 {
		return RarityRare
	}
	return RarityUncommon
}

// Price is base[rarity] x conditionMultiplier rounded to cents. Unknown
// rarities are priced from 1.00.
func Price(rarity string, condition enums.CardCondition) decimal.Decimal {
	base, ok := basePrices[rarity]
	if !ok {
		base = decimal.NewFromInt(1)
	}
	return base.Mul(priceMultipliers[condition]).Round(2)
}

// Stock is floor(baseStock[rarity] x conditionMultiplier). Unknown rarities
// start from 20 units.
func Stock(rarity string, condition enums.CardCondition) int {
	base, ok := baseStock[rarity]
	if !ok {
		base = 20
	}
	return int(decimal.NewFromInt(base).Mul(stockMultipliers[condition]).Floor().IntPart())
}
