package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
)

var fileNameRe = regexp.MustCompile(`^(\d+)-(.+)\.jpg$`)

// CardSeed is one card discovered in the asset tree plus its generated stock.
type CardSeed struct {
	ID          string
	Name        string
	Image       string
	Rarity      string
	Set         string
	CardNumber  string
	Description string
	Inventory   []InventorySeed
}

type InventorySeed struct {
	Condition enums.CardCondition
	Price     decimal.Decimal
	Quantity  int
}

// ScanResult lists the cards found and the files that did not look like cards.
type ScanResult struct {
	Cards          []CardSeed
	Skipped        []string
	MissingFolders []string
}

// Scan walks one folder per known set in fsys. Files are named
// "<number>-<name-slug>.jpg"; images are referenced under imagePrefix.
func Scan(fsys fs.FS, imagePrefix string) (*ScanResult, error) {
	result := &ScanResult{}
	seen := map[string]struct{}{}

	for _, set := range catalog.Sets() {
		entries, err := fs.ReadDir(fsys, set.FolderName)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				result.MissingFolders = append(result.MissingFolders, set.FolderName)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", set.FolderName, err)
		}

		files := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jpg") {
				continue
			}
			files = append(files, entry.Name())
		}
		sort.Strings(files)

		for _, file := range files {
			match := fileNameRe.FindStringSubmatch(file)
			if match == nil {
				result.Skipped = append(result.Skipped, path.Join(set.FolderName, file))
				continue
			}
			number, err := strconv.Atoi(match[1])
			if err != nil {
				result.Skipped = append(result.Skipped, path.Join(set.FolderName, file))
				continue
			}
			card := buildCard(set, file, number, match[2], len(files), imagePrefix)
			if _, dup := seen[card.ID]; dup {
				continue
			}
			seen[card.ID] = struct{}{}
			result.Cards = append(result.Cards, card)
		}
	}
	return result, nil
}

func buildCard(set catalog.SetInfo, file string, number int, slug string, filesInSet int, imagePrefix string) CardSeed {
	name := strings.ReplaceAll(slug, "-", " ")
	rarity := Rarity(number, slug)

	card := CardSeed{
		ID:          catalog.CardID(set.Name, number, slug),
		Name:        capitalize(name),
		Image:       path.Join("/", imagePrefix, set.FolderName, file),
		Rarity:      rarity,
		Set:         set.Name,
		CardNumber:  fmt.Sprintf("%d/%d", number, filesInSet),
		Description: fmt.Sprintf("%s %s from %s", rarity, name, set.Name),
	}
	for _, condition := range enums.CardConditions() {
		card.Inventory = append(card.Inventory, InventorySeed{
			Condition: condition,
			Price:     Price(rarity, condition),
			Quantity:  Stock(rarity, condition),
		})
	}
	return card
}

func capitalize(value string) string {
	if value == "" {
		return value
	}
	r := []rune(value)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
