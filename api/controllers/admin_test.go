package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/cardshop-backend/internal/users"
	"github.com/angelmondragon/cardshop-backend/pkg/db/models"
	"github.com/angelmondragon/cardshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cardshop-backend/pkg/errors"
	"github.com/angelmondragon/cardshop-backend/pkg/pagination"
)

type stubUsers struct {
	page pagination.Params
	user *users.UserDTO
	err  error
}

func (s *stubUsers) GetUser(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user != nil {
		return s.user, nil
	}
	return &users.UserDTO{ID: id, Email: "ash@pallet.town", Role: "CUSTOMER"}, nil
}

func (s *stubUsers) ListUsers(_ context.Context, page pagination.Params) (*users.UserList, error) {
	s.page = page
	return &users.UserList{Users: []users.UserDTO{}, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *stubUsers) EnsureUser(context.Context, string, *string, enums.UserRole) (*models.User, error) {
	return nil, nil
}

func TestAdminCreateCard(t *testing.T) {
	svc := &stubCatalog{}
	body := `{"name":" Charizard ","image":"/card-assets/Base Set (BS)/4-charizard.jpg","rarity":"Rare","set":"Base Set","card_number":"4/102"}`
	rec := httptest.NewRecorder()

	AdminCreateCard(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/v1/cards", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Charizard", svc.created.Name)
	require.NotNil(t, svc.created.CardNumber)
	assert.Equal(t, "4/102", *svc.created.CardNumber)
}

func TestAdminCreateCardRequiresFields(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminCreateCard(&stubCatalog{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/v1/cards", strings.NewReader(`{"name":"Charizard"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUpdateCardPassesOnlySuppliedFields(t *testing.T) {
	svc := &stubCatalog{}
	req := withParam(httptest.NewRequest(http.MethodPatch, "/api/admin/v1/cards/base-set-4-charizard", strings.NewReader(`{"rarity":"Holo Rare"}`)), "cardId", "base-set-4-charizard")
	rec := httptest.NewRecorder()

	AdminUpdateCard(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.updated.Rarity)
	assert.Equal(t, "Holo Rare", *svc.updated.Rarity)
	assert.Nil(t, svc.updated.Name)
}

func TestAdminDeleteCardConflict(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.New(pkgerrors.CodeConflictOnDelete, "card still has inventory")}
	req := withParam(httptest.NewRequest(http.MethodDelete, "/api/admin/v1/cards/base-set-4-charizard", nil), "cardId", "base-set-4-charizard")
	rec := httptest.NewRecorder()

	AdminDeleteCard(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "base-set-4-charizard", svc.deletedCard)
}

func TestAdminUpsertInventory(t *testing.T) {
	svc := &stubCatalog{}
	req := withParam(httptest.NewRequest(http.MethodPut, "/api/admin/v1/cards/base-set-4-charizard/inventory", strings.NewReader(`{"condition":"near_mint","price":"950.005","quantity":5}`)), "cardId", "base-set-4-charizard")
	rec := httptest.NewRecorder()

	AdminUpsertInventory(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.CardConditionNearMint, svc.upserted.Condition)
	assert.Equal(t, "950.005", svc.upserted.Price.String())
	assert.Equal(t, 5, svc.upserted.Quantity)
}

func TestAdminUpsertInventoryRejectsUnknownCondition(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodPut, "/api/admin/v1/cards/x/inventory", strings.NewReader(`{"condition":"pristine","price":1,"quantity":1}`)), "cardId", "x")
	rec := httptest.NewRecorder()

	AdminUpsertInventory(&stubCatalog{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteInventory(t *testing.T) {
	svc := &stubCatalog{}
	id := uuid.New()
	req := withParam(httptest.NewRequest(http.MethodDelete, "/api/admin/v1/inventory/"+id.String(), nil), "inventoryId", id.String())
	rec := httptest.NewRecorder()

	AdminDeleteInventory(svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, svc.deletedRow)
}

func TestAdminUserList(t *testing.T) {
	svc := &stubUsers{}
	rec := httptest.NewRecorder()

	AdminUserList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/users?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Limit: 5}, svc.page)
}
