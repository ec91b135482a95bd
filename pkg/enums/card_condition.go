package enums

import (
	"fmt"
	"strings"
)

// CardCondition is the grading label of a physical card, best first.
type CardCondition string

const (
	CardConditionMint        CardCondition = "MINT"
	CardConditionNearMint    CardCondition = "NEAR_MINT"
	CardConditionExcellent   CardCondition = "EXCELLENT"
	CardConditionGood        CardCondition = "GOOD"
	CardConditionLightPlayed CardCondition = "LIGHT_PLAYED"
	CardConditionPlayed      CardCondition = "PLAYED"
	CardConditionPoor        CardCondition = "POOR"
)

var validCardConditions = []CardCondition{
	CardConditionMint,
	CardConditionNearMint,
	CardConditionExcellent,
	CardConditionGood,
	CardConditionLightPlayed,
	CardConditionPlayed,
	CardConditionPoor,
}

var cardConditionLabels = map[CardCondition]string{
	CardConditionMint:        "Mint",
	CardConditionNearMint:    "Near Mint",
	CardConditionExcellent:   "Excellent",
	CardConditionGood:        "Good",
	CardConditionLightPlayed: "Light Played",
	CardConditionPlayed:      "Played",
	CardConditionPoor:        "Poor",
}

// CardConditions returns every condition from MINT down to POOR.
func CardConditions() []CardCondition {
	out := make([]CardCondition, len(validCardConditions))
	copy(out, validCardConditions)
	return out
}

// String implements fmt.Stringer.
func (c CardCondition) String() string {
	return string(c)
}

// Label is the human readable condition name shown next to cart items.
func (c CardCondition) Label() string {
	if label, ok := cardConditionLabels[c]; ok {
		return label
	}
	return string(c)
}

// Rank is the position in the grading scale, 0 being MINT. Unknown values rank last.
func (c CardCondition) Rank() int {
	for i, candidate := range validCardConditions {
		if candidate == c {
			return i
		}
	}
	return len(validCardConditions)
}

// IsValid reports whether the value is a known CardCondition.
func (c CardCondition) IsValid() bool {
	for _, candidate := range validCardConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCardCondition converts raw input into a CardCondition. Matching ignores case.
func ParseCardCondition(value string) (CardCondition, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validCardConditions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid card condition %q", value)
}
