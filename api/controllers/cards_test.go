package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cardshop-backend/internal/catalog"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

type stubCatalog struct {
	query       catalog.QueryInput
	created     catalog.CreateCardInput
	updated     catalog.UpdateCardInput
	upserted    catalog.UpsertInventoryInput
	deletedCard string
	deletedRow  uuid.UUID
	err         error
}

func (s *stubCatalog) QueryCards(_ context.Context, input catalog.QueryInput) (*catalog.CardListResult, error) {
	s.query = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.CardListResult{Cards: []catalog.CardDTO{}, Limit: input.Page.Limit, Offset: input.Page.Offset}, nil
}

func (s *stubCatalog) GetCard(_ context.Context, id string) (*catalog.CardDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.CardDTO{ID: id, Name: "Charizard"}, nil
}

func (s *stubCatalog) GetInventoryForCard(context.Context, string) ([]catalog.InventoryDTO, error) {
	return []catalog.InventoryDTO{}, nil
}

func (s *stubCatalog) ListSets() []catalog.SetInfo {
	return catalog.Sets()
}

func (s *stubCatalog) CreateCard(_ context.Context, input catalog.CreateCardInput) (*catalog.CardDTO, error) {
	s.created = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.CardDTO{ID: "base-set-4-charizard", Name: input.Name}, nil
}

func (s *stubCatalog) UpdateCard(_ context.Context, id string, input catalog.UpdateCardInput) (*catalog.CardDTO, error) {
	s.updated = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.CardDTO{ID: id}, nil
}

func (s *stubCatalog) DeleteCard(_ context.Context, id string) error {
	s.deletedCard = id
	return s.err
}

func (s *stubCatalog) UpsertInventory(_ context.Context, cardID string, input catalog.UpsertInventoryInput) (*catalog.InventoryDTO, error) {
	s.upserted = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.InventoryDTO{CardID: cardID, Condition: input.Condition.String(), Price: input.Price.StringFixed(2)}, nil
}

func (s *stubCatalog) DeleteInventory(_ context.Context, id uuid.UUID) error {
	s.deletedRow = id
	return s.err
}

func withParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCardListParsesFilters(t *testing.T) {
	svc := &stubCatalog{}
	target := "/api/v1/cards?name=%20char%20&set=Base+Set&rarity=&min_price=0&max_price=999.99&condition=near_mint&in_stock=true&sort=price&order=desc&limit=10&offset=20"
	rec := httptest.NewRecorder()

	CardList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	filter := svc.query.Filter
	require.NotNil(t, filter.Name)
	assert.Equal(t, "char", *filter.Name)
	require.NotNil(t, filter.Set)
	assert.Equal(t, "Base Set", *filter.Set)
	assert.Nil(t, filter.Rarity)
	require.NotNil(t, filter.MinPrice)
	assert.True(t, filter.MinPrice.IsZero())
	assert.Equal(t, "999.99", filter.MaxPrice.StringFixed(2))
	require.NotNil(t, filter.Condition)
	assert.Equal(t, enums.CardConditionNearMint, *filter.Condition)
	require.NotNil(t, filter.InStock)
	assert.True(t, *filter.InStock)
	require.NotNil(t, svc.query.Sort)
	assert.Equal(t, enums.CardSortFieldPrice, svc.query.Sort.Field)
	assert.Equal(t, enums.SortOrderDesc, svc.query.Sort.Order)
	assert.Equal(t, pagination.Params{Limit: 10, Offset: 20}, svc.query.Page)
}

func TestCardListDefaults(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()

	CardList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cards?order=desc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.query.Sort)
	assert.False(t, svc.query.Filter.HasInventoryPredicate())
	assert.Equal(t, pagination.Params{Limit: pagination.DefaultLimit}, svc.query.Page)
}

func TestCardListRejectsBadInput(t *testing.T) {
	cases := []string{
		"/api/v1/cards?condition=pristine",
		"/api/v1/cards?sort=popularity",
		"/api/v1/cards?sort=name&order=sideways",
		"/api/v1/cards?min_price=-1",
		"/api/v1/cards?in_stock=perhaps",
		"/api/v1/cards?offset=-5",
	}
	for _, target := range cases {
		rec := httptest.NewRecorder()
		CardList(&stubCatalog{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCardDetailNotFound(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeNotFound, "card not found")}
	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/cards/missing", nil), "cardId", "missing")
	rec := httptest.NewRecorder()

	CardDetail(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCardInventoryReturnsEmptyList(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/api/v1/cards/missing/inventory", nil), "cardId", "missing")
	rec := httptest.NewRecorder()

	CardInventory(&stubCatalog{}, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestSetList(t *testing.T) {
	rec := httptest.NewRecorder()
	SetList(&stubCatalog{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data []catalog.SetInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Data)
	assert.Equal(t, "Base Set", payload.Data[0].Name)
}

func TestCardListHidesInternalErrors(t *testing.T) {
	svc := &stubCatalog{err: errors.New("pq: relation cards does not exist")}
	rec := httptest.NewRecorder()

	CardList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cards", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}
