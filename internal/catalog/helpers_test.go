package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cardshop-backend/pkg/db"
	"github.com/angelmondragon/cardshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
)

type stock struct {
	condition enums.CardCondition
	price     string
	qty       int
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client)
	require.NoError(t, err)
	return svc, client
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func condPtr(c enums.CardCondition) *enums.CardCondition { return &c }

func mustCreateCard(t *testing.T, client *db.Client, id, name, set, rarity, number string, rows ...stock) *models.Card {
	t.Helper()
	card := &models.Card{
		ID:     id,
		Name:   name,
		Image:  "/card-assets/" + id + ".jpg",
		Rarity: rarity,
		Set:    set,
	}
	if number != "" {
		card.CardNumber = strPtr(number)
	}
	require.NoError(t, client.DB().Create(card).Error)
	for _, row := range rows {
		inv := models.Inventory{
			CardID:    id,
			Condition: row.condition,
			Price:     decimal.RequireFromString(row.price),
			Quantity:  row.qty,
		}
		require.NoError(t, client.DB().Create(&inv).Error)
		card.Inventory = append(card.Inventory, inv)
	}
	return card
}

func cardIDs(result *CardListResult) []string {
	ids := make([]string, 0, len(result.Cards))
	for _, c := range result.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func query(t *testing.T, svc Service, in QueryInput) *CardListResult {
	t.Helper()
	if in.Page.Limit == 0 {
		in.Page.Limit = 100
	}
	res, err := svc.QueryCards(context.Background(), in)
	require.NoError(t, err)
	return res
}
