package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
	"github.com/angelmondragon/cardshop-backend/pkg/metrics"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

const maxPlaceAttempts = 3

// Service exposes order placement and order history.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, lines []LineInput) (*OrderDTO, error)
	GetOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListAllOrders(ctx context.Context, params pagination.Params) (*OrderList, error)
}

// ServiceParams configure the order service.
type ServiceParams struct {
	Repo    Repository
	DB      txRunner
	Logger  *logger.Logger
	Metrics *metrics.OrderMetrics
	Clock   func() time.Time
	Numbers func(time.Time) string
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
	clock   func() time.Time
	numbers func(time.Time) string
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{
		repo:    params.Repo,
		tx:      params.DB,
		logg:    params.Logger,
		metrics: params.Metrics,
		clock:   params.Clock,
		numbers: params.Numbers,
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.numbers == nil {
		svc.numbers = NewOrderNumber
	}
	return svc, nil
}

// PlaceOrder validates stock, freezes prices, writes the order and decrements
// inventory in one transaction. Nothing persists unless every line succeeds.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, lines []LineInput) (*OrderDTO, error) {
	order, err := s.placeOrder(ctx, userID, lines)
	if err != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		s.metrics.IncFailure(string(code))
		return nil, err
	}
	s.metrics.IncPlaced(len(order.Items))

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(ctx, "order placed")

	dto := NewOrderDTO(order)
	return &dto, nil
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, lines []LineInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		number := s.numbers(s.clock().UTC())
		var order *models.Order
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			placed, err := s.placeInTx(ctx, s.repo.WithTx(tx), userID, merged, number)
			if err != nil {
				return err
			}
			order = placed
			return nil
		})
		if err == nil {
			return order, nil
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if isOrderNumberCollision(err) {
			s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "order number collision; retrying")
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransactionFailed, err, "commit order")
	}
	return nil, pkgerrors.New(pkgerrors.CodeTransactionFailed, "could not allocate a unique order number")
}

func (s *service) placeInTx(ctx context.Context, repo Repository, userID uuid.UUID, lines []LineInput, number string) (*models.Order, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.InventoryID)
	}
	rows, err := repo.LockInventory(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.Inventory, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		row, ok := byID[line.InventoryID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found").
				WithDetails(map[string]any{"inventory_id": line.InventoryID})
		}
		if row.Quantity < line.Quantity {
			return nil, insufficientStock(row, line.Quantity, row.Quantity)
		}
		total = total.Add(row.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			InventoryID:     row.ID,
			Quantity:        line.Quantity,
			PriceAtPurchase: row.Price,
		})
	}

	order := &models.Order{
		UserID:      userID,
		OrderNumber: number,
		TotalAmount: total.Round(2),
		Items:       items,
	}
	if err := repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	for _, line := range lines {
		ok, err := repo.DecrementInventory(ctx, line.InventoryID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, insufficientStock(byID[line.InventoryID], line.Quantity, -1)
		}
	}

	for i := range order.Items {
		order.Items[i].Inventory = byID[order.Items[i].InventoryID]
	}
	return order, nil
}

// mergeLines sums quantities of repeated inventory ids, keeping first-seen order.
func mergeLines(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	merged := make([]LineInput, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for i, line := range lines {
		if line.InventoryID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory id is required").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]any{"index": i, "inventory_id": line.InventoryID})
		}
		if line.Quantity > MaxLineQuantity {
			return nil, quantityTooLarge(i, line.InventoryID)
		}
		if pos, ok := index[line.InventoryID]; ok {
			if merged[pos].Quantity > MaxLineQuantity-line.Quantity {
				return nil, quantityTooLarge(i, line.InventoryID)
			}
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[line.InventoryID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

func quantityTooLarge(index int, inventoryID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at most %d per item", MaxLineQuantity)).
		WithDetails(map[string]any{"index": index, "inventory_id": inventoryID})
}

// insufficientStock names the card and condition. available < 0 means the
// row was drained by a concurrent order after validation.
func insufficientStock(row *models.Inventory, requested, available int) error {
	name := row.CardID
	if row.Card != nil {
		name = row.Card.Name
	}
	details := map[string]any{
		"inventory_id": row.ID,
		"card_id":      row.CardID,
		"condition":    row.Condition.String(),
		"requested":    requested,
	}
	if available >= 0 {
		details["available"] = available
	}
	msg := fmt.Sprintf("insufficient stock for %s (%s)", name, row.Condition.Label())
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, msg).WithDetails(details)
}

func isOrderNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, "ux_orders_order_number") ||
		db.IsUniqueViolation(err, "orders.order_number")
}

func (s *service) GetOrdersForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	page, err := params.Normalize()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	rows, total, err := s.repo.ListOrdersForUser(ctx, userID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newOrderList(rows, total, page), nil
}

// GetOrder loads one of the caller's orders. Orders owned by someone else are
// reported as missing.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := NewOrderDTO(order)
	return &dto, nil
}

func (s *service) ListAllOrders(ctx context.Context, params pagination.Params) (*OrderList, error) {
	page, err := params.Normalize()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	rows, total, err := s.repo.ListOrders(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return newOrderList(rows, total, page), nil
}

func newOrderList(rows []models.Order, total int64, page pagination.Params) *OrderList {
	out := &OrderList{
		Orders: make([]OrderDTO, 0, len(rows)),
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i := range rows {
		out.Orders = append(out.Orders, NewOrderDTO(&rows[i]))
	}
	return out
}
