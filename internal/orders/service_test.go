package orders

import (
	"context"
	"math"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{5}$`)

func TestPlaceOrderCharizardNearMint(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "1900.00", order.TotalAmount)
	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "950.00", order.Items[0].PriceAtPurchase)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Charizard", order.Items[0].CardName)
	assert.Equal(t, "NEAR_MINT", order.Items[0].Condition)
	assert.Equal(t, 3, quantityOf(t, f.client, f.nearMint.ID))

	assert.Equal(t, float64(1), counterValue(t, f.registry, "orders_placed_total", ""))
}

func TestPlaceOrderPlayedOutOfStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{
		{InventoryID: f.played.ID, Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))
	assert.Contains(t, err.Error(), "Charizard")
	assert.Contains(t, err.Error(), "Played")

	assert.Zero(t, countRows(t, f.client, &models.Order{}))
	assert.Zero(t, countRows(t, f.client, &models.OrderItem{}))
	assert.Equal(t, float64(1), counterValue(t, f.registry, "orders_failed_total", "INSUFFICIENT_STOCK"))
}

func TestPlaceOrderIsAtomic(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 1},
		{InventoryID: f.played.ID, Quantity: 1},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))

	assert.Equal(t, 5, quantityOf(t, f.client, f.nearMint.ID))
	assert.Equal(t, 0, quantityOf(t, f.client, f.played.ID))
	assert.Zero(t, countRows(t, f.client, &models.Order{}))
	assert.Zero(t, countRows(t, f.client, &models.OrderItem{}))
}

func TestPlaceOrderUnknownInventory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 1},
		{InventoryID: uuid.New(), Quantity: 1},
	})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 5, quantityOf(t, f.client, f.nearMint.ID))
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 2},
		{InventoryID: f.nearMint.ID, Quantity: 4},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock), "merged quantity 6 exceeds stock 5")

	order, err := f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 2},
		{InventoryID: f.nearMint.ID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 5, order.TotalItems)
	assert.Equal(t, "4750.00", order.TotalAmount)
	assert.Equal(t, 0, quantityOf(t, f.client, f.nearMint.ID))
}

func TestPlaceOrderRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, uuid.Nil, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 1}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))

	_, err = f.svc.PlaceOrder(ctx, f.user.ID, nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 0}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{{Quantity: 1}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestPlaceOrderRejectsOversizedQuantities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string][]LineInput{
		"wrapping duplicates": {
			{InventoryID: f.nearMint.ID, Quantity: math.MaxInt},
			{InventoryID: f.nearMint.ID, Quantity: math.MaxInt},
			{InventoryID: f.nearMint.ID, Quantity: 4},
		},
		"single line over cap": {
			{InventoryID: f.nearMint.ID, Quantity: MaxLineQuantity + 1},
		},
		"merged lines over cap": {
			{InventoryID: f.nearMint.ID, Quantity: MaxLineQuantity},
			{InventoryID: f.nearMint.ID, Quantity: 1},
		},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.PlaceOrder(ctx, f.user.ID, lines)
			require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}

	assert.Zero(t, countRows(t, f.client, &models.Order{}))
	assert.Equal(t, 5, quantityOf(t, f.client, f.nearMint.ID))
}

// staleStockRepo reports more stock than the rows hold, as if another order
// drained them between the read and the decrement.
type staleStockRepo struct {
	Repository
}

func (r staleStockRepo) WithTx(tx *gorm.DB) Repository {
	return staleStockRepo{Repository: r.Repository.WithTx(tx)}
}

func (r staleStockRepo) LockInventory(ctx context.Context, ids []uuid.UUID) ([]models.Inventory, error) {
	rows, err := r.Repository.LockInventory(ctx, ids)
	for i := range rows {
		rows[i].Quantity += 10
	}
	return rows, err
}

func TestPlaceOrderRechecksStockOnDecrement(t *testing.T) {
	f := newFixture(t, func(p *ServiceParams) {
		p.Repo = staleStockRepo{Repository: p.Repo}
	})

	_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{
		{InventoryID: f.nearMint.ID, Quantity: 1},
		{InventoryID: f.played.ID, Quantity: 1},
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock), "got %v", err)
	assert.Contains(t, err.Error(), "Played")

	assert.Zero(t, countRows(t, f.client, &models.Order{}))
	assert.Zero(t, countRows(t, f.client, &models.OrderItem{}))
	assert.Equal(t, 5, quantityOf(t, f.client, f.nearMint.ID))
	assert.Equal(t, 0, quantityOf(t, f.client, f.played.ID))
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	f := newFixture(t)
	last := mustCreateInventory(t, f.client, "base-set-4-charizard", "MINT", "1200.00", 1)

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{{InventoryID: last.ID, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, buyers-1)
	for _, err := range failures {
		assert.True(t,
			pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) || pkgerrors.Is(err, pkgerrors.CodeTransactionFailed),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 0, quantityOf(t, f.client, last.ID))
	assert.Equal(t, int64(1), countRows(t, f.client, &models.Order{}))
}

func sequenceNumbers(numbers ...string) func(time.Time) string {
	var mu sync.Mutex
	i := 0
	return func(time.Time) string {
		mu.Lock()
		defer mu.Unlock()
		n := numbers[i]
		if i < len(numbers)-1 {
			i++
		}
		return n
	}
}

func TestPlaceOrderRetriesOrderNumberCollision(t *testing.T) {
	f := newFixture(t, func(p *ServiceParams) {
		p.Numbers = sequenceNumbers("ORD-1-TAKEN", "ORD-2-FRESH")
	})
	taken := &models.Order{UserID: f.user.ID, OrderNumber: "ORD-1-TAKEN", TotalAmount: decimal.Zero}
	require.NoError(t, f.client.DB().Create(taken).Error)

	order, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "ORD-2-FRESH", order.OrderNumber)
	assert.Equal(t, 4, quantityOf(t, f.client, f.nearMint.ID), "the failed attempt must not decrement stock")
}

func TestPlaceOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t, func(p *ServiceParams) {
		p.Numbers = sequenceNumbers("ORD-1-TAKEN")
	})
	taken := &models.Order{UserID: f.user.ID, OrderNumber: "ORD-1-TAKEN", TotalAmount: decimal.Zero}
	require.NoError(t, f.client.DB().Create(taken).Error)

	_, err := f.svc.PlaceOrder(context.Background(), f.user.ID, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 1}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeTransactionFailed))
	assert.Equal(t, 5, quantityOf(t, f.client, f.nearMint.ID))
	assert.Equal(t, int64(1), countRows(t, f.client, &models.Order{}))
}

func TestGetOrderChecksOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	placed, err := f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 1}})
	require.NoError(t, err)

	got, err := f.svc.GetOrder(ctx, f.user.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, got.OrderNumber)
	assert.Equal(t, "950.00", got.TotalAmount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Charizard", got.Items[0].CardName)

	stranger := mustCreateUser(t, f.client, "gary@pallet.town")
	_, err = f.svc.GetOrder(ctx, stranger.ID, placed.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.GetOrder(ctx, f.user.ID, uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestPriceChangesDoNotRewriteHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	placed, err := f.svc.PlaceOrder(ctx, f.user.ID, []LineInput{{InventoryID: f.nearMint.ID, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, f.client.DB().Model(&models.Inventory{}).
		Where("id = ?", f.nearMint.ID).
		Update("price", decimal.RequireFromString("999.99")).Error)

	got, err := f.svc.GetOrder(ctx, f.user.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "950.00", got.Items[0].PriceAtPurchase)
	assert.Equal(t, "950.00", got.TotalAmount)
}

func TestOrderListingsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := mustCreateUser(t, f.client, "misty@cerulean.gym")
	repo := NewRepository(f.client.DB())

	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, owner := range []*models.User{f.user, other, f.user, f.user} {
		order := &models.Order{
			UserID:      owner.ID,
			OrderNumber: NewOrderNumber(base.Add(time.Duration(i) * time.Hour)),
			TotalAmount: decimal.NewFromInt(int64(i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateOrder(ctx, order))
	}

	mine, err := f.svc.GetOrdersForUser(ctx, f.user.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mine.Total)
	require.Len(t, mine.Orders, 2)
	assert.Equal(t, "3.00", mine.Orders[0].TotalAmount)
	assert.Equal(t, "2.00", mine.Orders[1].TotalAmount)

	rest, err := f.svc.GetOrdersForUser(ctx, f.user.ID, pagination.Params{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Equal(t, "0.00", rest.Orders[0].TotalAmount)

	all, err := f.svc.ListAllOrders(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Total)
	require.Len(t, all.Orders, 4)
	require.NotNil(t, all.Orders[2].UserEmail)
	assert.Equal(t, "misty@cerulean.gym", *all.Orders[2].UserEmail)

	_, err = f.svc.GetOrdersForUser(ctx, f.user.ID, pagination.Params{Offset: -1})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestNewOrderNumberFormat(t *testing.T) {
	now := time.UnixMilli(1760000000000)
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		n := NewOrderNumber(now)
		assert.Regexp(t, orderNumberPattern, n)
		assert.Contains(t, n, "ORD-1760000000000-")
		seen[n] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
