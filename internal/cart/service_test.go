package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/cardshop-backend/internal/orders"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
)

type memoryBackend struct {
	docs map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{docs: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) SaveCart(_ context.Context, userID string, payload []byte, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.docs[userID] = append([]byte(nil), payload...)
	m.ttls[userID] = ttl
	return nil
}

func (m *memoryBackend) LoadCart(_ context.Context, userID string) ([]byte, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	payload, ok := m.docs[userID]
	return payload, ok, nil
}

func (m *memoryBackend) DeleteCart(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.docs, userID)
	return nil
}

type stubInventory struct {
	rows map[uuid.UUID]*models.Inventory
}

func (s *stubInventory) FindInventoryByID(_ context.Context, id uuid.UUID) (*models.Inventory, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

type stubPlacer struct {
	lines []orders.LineInput
	err   error
}

func (s *stubPlacer) PlaceOrder(_ context.Context, userID uuid.UUID, lines []orders.LineInput) (*orders.OrderDTO, error) {
	s.lines = lines
	if s.err != nil {
		return nil, s.err
	}
	return &orders.OrderDTO{ID: uuid.New(), UserID: userID, OrderNumber: "ORD-1-ABCDE"}, nil
}

type cartFixture struct {
	svc      Service
	backend  *memoryBackend
	placer   *stubPlacer
	nearMint *models.Inventory
	played   *models.Inventory
	user     uuid.UUID
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	card := &models.Card{ID: "base-set-4-charizard", Name: "Charizard", Image: "/card-assets/charizard.jpg"}
	nearMint := &models.Inventory{ID: uuid.New(), CardID: card.ID, Condition: enums.CardConditionNearMint, Price: decimal.RequireFromString("950.00"), Quantity: 5, Card: card}
	played := &models.Inventory{ID: uuid.New(), CardID: card.ID, Condition: enums.CardConditionPlayed, Price: decimal.RequireFromString("180.00"), Quantity: 0, Card: card}

	backend := newMemoryBackend()
	store, err := NewRedisStore(backend, 24*time.Hour)
	require.NoError(t, err)
	placer := &stubPlacer{}
	svc, err := NewService(ServiceParams{
		Store:     store,
		Inventory: &stubInventory{rows: map[uuid.UUID]*models.Inventory{nearMint.ID: nearMint, played.ID: played}},
		Orders:    placer,
		Logger:    logger.Nop(),
	})
	require.NoError(t, err)
	return &cartFixture{svc: svc, backend: backend, placer: placer, nearMint: nearMint, played: played, user: uuid.New()}
}

func TestCartServiceAddPersistsSnapshot(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	dto, err := f.svc.AddItem(ctx, f.user, f.nearMint.ID, 2)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "Charizard", dto.Items[0].Name)
	assert.Equal(t, "Near Mint", dto.Items[0].ConditionLabel)
	assert.Equal(t, "950.00", dto.Items[0].Price)
	assert.Equal(t, "1900.00", dto.TotalPrice)
	assert.Equal(t, 24*time.Hour, f.backend.ttls[f.user.String()])

	dto, err = f.svc.AddItem(ctx, f.user, f.played.ID, 1)
	require.NoError(t, err, "stock is advisory until checkout")
	assert.Equal(t, 3, dto.TotalItems)

	reloaded, err := f.svc.Get(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, dto, reloaded)
}

func TestCartServiceAddUnknownInventory(t *testing.T) {
	f := newCartFixture(t)
	_, err := f.svc.AddItem(context.Background(), f.user, uuid.New(), 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestCartServiceSetQuantityZeroRemoves(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddItem(ctx, f.user, f.nearMint.ID, 1)
	require.NoError(t, err)

	dto, err := f.svc.SetQuantity(ctx, f.user, f.nearMint.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.NotContains(t, f.backend.docs, f.user.String(), "empty carts are not stored")
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddItem(ctx, f.user, f.nearMint.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.user, f.played.ID, 1)
	require.NoError(t, err)

	dto, err := f.svc.RemoveItem(ctx, f.user, f.nearMint.ID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, f.played.ID, dto.Items[0].InventoryID)

	require.NoError(t, f.svc.Clear(ctx, f.user))
	dto, err = f.svc.Get(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.TotalPrice)
}

func TestCartCheckoutClearsOnlyOnSuccess(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, err := f.svc.AddItem(ctx, f.user, f.nearMint.ID, 2)
	require.NoError(t, err)

	f.placer.err = pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for Charizard (Near Mint)")
	_, err = f.svc.Checkout(ctx, f.user)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientStock))
	dto, err := f.svc.Get(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, dto.Items, 1, "failed checkout keeps the cart")

	f.placer.err = nil
	order, err := f.svc.Checkout(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1-ABCDE", order.OrderNumber)
	assert.Equal(t, []orders.LineInput{{InventoryID: f.nearMint.ID, Quantity: 2}}, f.placer.lines)

	dto, err = f.svc.Get(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
}

func TestCartCheckoutRejectsEmptyCart(t *testing.T) {
	f := newCartFixture(t)
	_, err := f.svc.Checkout(context.Background(), f.user)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Nil(t, f.placer.lines)
}

func TestCartServiceRequiresUser(t *testing.T) {
	f := newCartFixture(t)
	_, err := f.svc.Get(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
	assert.True(t, pkgerrors.Is(f.svc.Clear(context.Background(), uuid.Nil), pkgerrors.CodeUnauthorized))
}

func TestCartServiceSurfacesStoreFailures(t *testing.T) {
	f := newCartFixture(t)
	f.backend.err = errors.New("connection refused")
	_, err := f.svc.Get(context.Background(), f.user)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestNewRedisStoreValidatesArguments(t *testing.T) {
	_, err := NewRedisStore(nil, time.Hour)
	assert.Error(t, err)
	_, err = NewRedisStore(newMemoryBackend(), 0)
	assert.Error(t, err)
}
