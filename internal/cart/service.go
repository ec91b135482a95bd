package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/internal/orders"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

// Service applies reducer operations to the caller's stored cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, inventoryID uuid.UUID, qty int) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, inventoryID uuid.UUID, qty int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, inventoryID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	Checkout(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
}

type inventoryLookup interface {
	FindInventoryByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, lines []orders.LineInput) (*orders.OrderDTO, error)
}

// ServiceParams bundles the cart service dependencies.
type ServiceParams struct {
	Store     Store
	Inventory inventoryLookup
	Orders    orderPlacer
	Logger    *logger.Logger
}

type service struct {
	store     Store
	inventory inventoryLookup
	orders    orderPlacer
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory lookup required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:     params.Store,
		inventory: params.Inventory,
		orders:    params.Orders,
		logg:      params.Logger,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(cart), nil
}

// AddItem snapshots the inventory row's display fields into the cart. Stock
// is not checked here.
func (s *service) AddItem(ctx context.Context, userID, inventoryID uuid.UUID, qty int) (*CartDTO, error) {
	row, err := s.inventory.FindInventoryByID(ctx, inventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return s.mutate(ctx, userID, func(c *Cart) {
		c.Add(itemFromInventory(row), qty)
	})
}

func (s *service) SetQuantity(ctx context.Context, userID, inventoryID uuid.UUID, qty int) (*CartDTO, error) {
	return s.mutate(ctx, userID, func(c *Cart) {
		c.SetQuantity(inventoryID, qty)
	})
}

func (s *service) RemoveItem(ctx context.Context, userID, inventoryID uuid.UUID) (*CartDTO, error) {
	return s.mutate(ctx, userID, func(c *Cart) {
		c.Remove(inventoryID)
	})
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.store.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Checkout places an order for the cart contents. The cart survives a failed
// placement and is cleared once the order commits.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]orders.LineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, orders.LineInput{InventoryID: item.InventoryID, Quantity: item.Quantity})
	}
	order, err := s.orders.PlaceOrder(ctx, userID, lines)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
		s.logg.Error(ctx, "clear cart after checkout", err)
	}
	return order, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	cart, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) mutate(ctx context.Context, userID uuid.UUID, fn func(*Cart)) (*CartDTO, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(cart)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return NewCartDTO(cart), nil
}

func itemFromInventory(row *models.Inventory) Item {
	item := Item{
		InventoryID:    row.ID,
		CardID:         row.CardID,
		Condition:      row.Condition.String(),
		ConditionLabel: row.Condition.Label(),
		Price:          row.Price,
	}
	if row.Card != nil {
		item.Name = row.Card.Name
		item.Image = row.Card.Image
	}
	return item
}
