package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	"github.com/angelmondragon/cardshop-backend/pkg/logger"
	"github.com/angelmondragon/cardshop-backend/pkg/metrics"
)

type fixture struct {
	client   *db.Client
	svc      Service
	registry *prometheus.Registry
	user     *models.User
	nearMint *models.Inventory
	played   *models.Inventory
}

func newFixture(t *testing.T, opts ...func(*ServiceParams)) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	reg := prometheus.NewRegistry()
	params := ServiceParams{
		Repo:    NewRepository(client.DB()),
		DB:      client,
		Logger:  logger.Nop(),
		Metrics: metrics.NewOrderMetrics(reg),
	}
	for _, opt := range opts {
		opt(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)

	f := &fixture{client: client, svc: svc, registry: reg}
	f.user = mustCreateUser(t, client, "ash@pallet.town")

	card := &models.Card{ID: "base-set-4-charizard", Name: "Charizard", Image: "/card-assets/charizard.jpg", Rarity: "Rare", Set: "Base Set"}
	require.NoError(t, client.DB().Create(card).Error)
	f.nearMint = mustCreateInventory(t, client, card.ID, enums.CardConditionNearMint, "950.00", 5)
	f.played = mustCreateInventory(t, client, card.ID, enums.CardConditionPlayed, "180.00", 0)
	return f
}

func mustCreateUser(t *testing.T, client *db.Client, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, client.DB().Create(user).Error)
	return user
}

func mustCreateInventory(t *testing.T, client *db.Client, cardID string, cond enums.CardCondition, price string, qty int) *models.Inventory {
	t.Helper()
	row := &models.Inventory{
		CardID:    cardID,
		Condition: cond,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
	require.NoError(t, client.DB().Create(row).Error)
	return row
}

func quantityOf(t *testing.T, client *db.Client, id uuid.UUID) int {
	t.Helper()
	var row models.Inventory
	require.NoError(t, client.DB().First(&row, "id = ?", id).Error)
	return row.Quantity
}

func countRows(t *testing.T, client *db.Client, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, client.DB().Model(model).Count(&n).Error)
	return n
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" {
				return m.GetCounter().GetValue()
			}
			for _, label := range m.GetLabel() {
				if label.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
