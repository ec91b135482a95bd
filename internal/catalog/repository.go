package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
)

// Repository wires together all catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCards returns every card matching filter with its inventory attached.
// Rows come back unordered; callers sort in memory.
func (r *Repository) ListCards(ctx context.Context, filter Filter) ([]models.Card, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Card{})

	// SQLite LOWER() folds ASCII only, so card-level text predicates are
	// matched in Go there.
	foldInMemory := r.db.Dialector.Name() == "sqlite"

	if filter.Name != nil && !foldInMemory {
		q = q.Where(`LOWER(cards.name) LIKE ? ESCAPE '\'`, likePattern(*filter.Name))
	}
	if filter.Set != nil && !foldInMemory {
		q = q.Where("LOWER(cards.set_name) = ?", strings.ToLower(*filter.Set))
	}
	if filter.Rarity != nil && !foldInMemory {
		q = q.Where(`LOWER(cards.rarity) LIKE ? ESCAPE '\'`, likePattern(*filter.Rarity))
	}

	if filter.HasInventoryPredicate() {
		sub := db.Model(&models.Inventory{}).Select("1").Where("inventory.card_id = cards.id")
		if filter.Condition != nil {
			sub = sub.Where("inventory.condition = ?", *filter.Condition)
		}
		if filter.MinPrice != nil {
			sub = sub.Where("inventory.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			sub = sub.Where("inventory.price <= ?", *filter.MaxPrice)
		}
		if filter.InStock != nil && *filter.InStock {
			sub = sub.Where("inventory.quantity > 0")
		}
		q = q.Where("EXISTS (?)", sub)
	}

	var cards []models.Card
	if err := q.Preload("Inventory").Find(&cards).Error; err != nil {
		return nil, err
	}
	if foldInMemory {
		cards = filterCardText(cards, filter)
	}
	for i := range cards {
		sortInventory(cards[i].Inventory)
	}
	return cards, nil
}

func filterCardText(cards []models.Card, filter Filter) []models.Card {
	kept := cards[:0]
	for _, card := range cards {
		if filter.Name != nil && !strings.Contains(strings.ToLower(card.Name), strings.ToLower(*filter.Name)) {
			continue
		}
		if filter.Set != nil && strings.ToLower(card.Set) != strings.ToLower(*filter.Set) {
			continue
		}
		if filter.Rarity != nil && !strings.Contains(strings.ToLower(card.Rarity), strings.ToLower(*filter.Rarity)) {
			continue
		}
		kept = append(kept, card)
	}
	return kept
}

// FindCardByID loads a card with its inventory rows.
func (r *Repository) FindCardByID(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).Preload("Inventory").First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	sortInventory(card.Inventory)
	return &card, nil
}

// CardExists reports whether a card with id is stored.
func (r *Repository) CardExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Card{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListInventoryForCard returns the card's rows, cheapest first.
func (r *Repository) ListInventoryForCard(ctx context.Context, cardID string) ([]models.Inventory, error) {
	var rows []models.Inventory
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("price ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCard inserts a new card.
func (r *Repository) CreateCard(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(card).Error
}

// UpdateCard persists every column of card.
func (r *Repository) UpdateCard(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(card).Error
}

// DeleteCard removes a card row. Returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *Repository) DeleteCard(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Card{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountInventoryForCard counts the inventory rows owned by a card.
func (r *Repository) CountInventoryForCard(ctx context.Context, cardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Inventory{}).Where("card_id = ?", cardID).Count(&count).Error
	return count, err
}

// UpsertInventory writes the (card, condition) row, replacing price and quantity
// when it already exists, and returns the stored row.
func (r *Repository) UpsertInventory(ctx context.Context, row *models.Inventory) (*models.Inventory, error) {
	db := r.db.WithContext(ctx)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "card_id"}, {Name: "condition"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "quantity", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	var stored models.Inventory
	if err := db.Where("card_id = ? AND condition = ?", row.CardID, row.Condition).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindInventoryByID loads one inventory row with its card.
func (r *Repository) FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var row models.Inventory
	if err := r.db.WithContext(ctx).Preload("Card").First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteInventory removes one inventory row.
func (r *Repository) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Inventory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountOrderItemsForInventory counts order lines referencing an inventory row.
func (r *Repository) CountOrderItemsForInventory(ctx context.Context, inventoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("inventory_id = ?", inventoryID).Count(&count).Error
	return count, err
}
