package catalog

import "strings"

// SetInfo describes one printed expansion the shop carries.
type SetInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortCode   string `json:"short_code"`
	FolderName  string `json:"folder_name"`
	Description string `json:"description"`
	ReleaseYear int    `json:"release_year"`
	TotalCards  int    `json:"total_cards"`
}

// knownSets is ordered by release; the index is the default catalog rank.
var knownSets = []SetInfo{
	{
		ID:          "base-set",
		Name:        "Base Set",
		ShortCode:   "BS",
		FolderName:  "Base Set (BS)",
		Description: "The original trading card game set, home of Charizard, Blastoise and Venusaur.",
		ReleaseYear: 1999,
		TotalCards:  102,
	},
	{
		ID:          "jungle",
		Name:        "Jungle",
		ShortCode:   "JU",
		FolderName:  "Jungle (JU)",
		Description: "Jungle-dwelling creatures, including the first Eeveelutions.",
		ReleaseYear: 1999,
		TotalCards:  64,
	},
	{
		ID:          "fossil",
		Name:        "Fossil",
		ShortCode:   "FO",
		FolderName:  "Fossil (FO)",
		Description: "Prehistoric creatures revived from fossils and the legendary birds.",
		ReleaseYear: 1999,
		TotalCards:  62,
	},
	{
		ID:          "base-set-2",
		Name:        "Base Set 2",
		ShortCode:   "B2",
		FolderName:  "Base Set 2 (B2)",
		Description: "Reprint compilation of the best Base Set and Jungle cards.",
		ReleaseYear: 2000,
		TotalCards:  130,
	},
	{
		ID:          "team-rocket",
		Name:        "Team Rocket",
		ShortCode:   "RO",
		FolderName:  "Team Rocket (RO)",
		Description: "Dark variants and villainous trainers.",
		ReleaseYear: 2000,
		TotalCards:  83,
	},
}

// Sets returns the known sets in catalog order.
func Sets() []SetInfo {
	out := make([]SetInfo, len(knownSets))
	copy(out, knownSets)
	return out
}

// SetRank is the position of label in the default catalog order. Matching
// ignores case; unknown sets rank after every known one.
func SetRank(label string) int {
	for i, set := range knownSets {
		if strings.EqualFold(set.Name, label) {
			return i
		}
	}
	return len(knownSets)
}

// SetByFolder resolves an asset folder name such as "Jungle (JU)".
func SetByFolder(folder string) (SetInfo, bool) {
	for _, set := range knownSets {
		if set.FolderName == folder {
			return set, true
		}
	}
	return SetInfo{}, false
}
