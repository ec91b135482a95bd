package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var slugInvalidRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases value and collapses every run of other characters to "-".
func Slugify(value string) string {
	slug := slugInvalidRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "-")
	return strings.Trim(slug, "-")
}

// CardID builds the stable catalog id "<set>-<number>-<name>", for example
// "base-set-4-charizard". A zero number is left out.
func CardID(set string, number int, name string) string {
	if number <= 0 {
		return fmt.Sprintf("%s-%s", Slugify(set), Slugify(name))
	}
	return fmt.Sprintf("%s-%d-%s", Slugify(set), number, Slugify(name))
}
