// Package seed fills the catalog from a directory of card scans.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Summary counts the rows the seeder inserted. Existing rows are left untouched.
type Summary struct {
	CardsSeen         int
	CardsInserted     int
	InventoryInserted int
	Failed            int
}

// Seeder inserts scanned cards and their inventory variants.
type Seeder struct {
	db   txRunner
	logg *logger.Logger
}

func NewSeeder(db txRunner, logg *logger.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Seeder{db: db, logg: logg}, nil
}

// Seed writes each card in its own transaction and keeps going after a
// failure. The returned error joins every per-card failure.
func (s *Seeder) Seed(ctx context.Context, cards []CardSeed) (Summary, error) {
	summary := Summary{CardsSeen: len(cards)}
	var errs error
	for _, card := range cards {
		var cardInserted bool
		var rowsInserted int
		err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			cardInserted, rowsInserted, err = insertCard(ctx, tx, card)
			return err
		})
		cardCtx := s.logg.WithField(ctx, "card_id", card.ID)
		if err != nil {
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("seed %s: %w", card.ID, err))
			s.logg.Error(cardCtx, "seed card failed", err)
			continue
		}
		if cardInserted {
			summary.CardsInserted++
		}
		summary.InventoryInserted += rowsInserted
	}
	return summary, errs
}

func insertCard(ctx context.Context, tx *gorm.DB, seed CardSeed) (bool, int, error) {
	cardNumber := seed.CardNumber
	description := seed.Description
	card := &models.Card{
		ID:          seed.ID,
		Name:        seed.Name,
		Image:       seed.Image,
		Rarity:      seed.Rarity,
		Set:         seed.Set,
		CardNumber:  &cardNumber,
		Description: &description,
	}
	res := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(card)
	if res.Error != nil {
		return false, 0, res.Error
	}
	cardInserted := res.RowsAffected == 1

	inserted := 0
	for _, inv := range seed.Inventory {
		row := &models.Inventory{
			CardID:    seed.ID,
			Condition: inv.Condition,
			Price:     inv.Price,
			Quantity:  inv.Quantity,
		}
		res := tx.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "card_id"}, {Name: "condition"}},
				DoNothing: true,
			}).
			Omit(clause.Associations).
			Create(row)
		if res.Error != nil {
			return false, 0, res.Error
		}
		if res.RowsAffected == 1 {
			inserted++
		}
	}
	return cardInserted, inserted, nil
}
