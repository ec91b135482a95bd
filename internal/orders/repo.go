package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository binds an orders repository to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// LockInventory reads the requested rows in id order, holding row locks on
// Postgres until the surrounding transaction ends. Cards are attached for
// error messages and order snapshots.
func (r *repository) LockInventory(ctx context.Context, ids []uuid.UUID) ([]models.Inventory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC")
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.Inventory
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	cardIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		cardIDs = append(cardIDs, row.CardID)
	}
	var cards []models.Card
	if err := r.db.WithContext(ctx).Where("id IN ?", cardIDs).Find(&cards).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Card, len(cards))
	for i := range cards {
		byID[cards[i].ID] = &cards[i]
	}
	for i := range rows {
		rows[i].Card = byID[rows[i].CardID]
	}
	return rows, nil
}

// DecrementInventory subtracts qty when enough stock remains. It reports false
// when the guard rejected the write.
func (r *repository) DecrementInventory(ctx context.Context, inventoryID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE inventory
		SET quantity = quantity - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, inventoryID, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CreateOrder inserts the order and its items.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("User").Create(order).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.withDetail(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersForUser returns the user's orders newest first plus the total count.
func (r *repository) ListOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return r.page(base, params)
}

// ListOrders returns every order newest first with its owner attached.
func (r *repository) ListOrders(ctx context.Context, params pagination.Params) ([]models.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Order{})
	return r.page(base, params, "User")
}

func (r *repository) page(base *gorm.DB, params pagination.Params, preloads ...string) ([]models.Order, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query := r.withDetail(base.Session(&gorm.Session{}))
	for _, name := range preloads {
		query = query.Preload(name)
	}
	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) withDetail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("Items.Inventory").
		Preload("Items.Inventory.Card")
}
