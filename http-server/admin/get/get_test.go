package get

import (
	"broker-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAdminMasterProvider struct {
	mock.Mock
}

func (m *MockAdminMasterProvider) GetAllItemPricesAdmin(ctx context.Context, priceList string) ([]*storage.ItemPriceAdmin, error) {
	args := m.Called(ctx, priceList)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.ItemPriceAdmin), args.Error(1)
}

func (m *MockAdminMasterProvider) GetAllPartiesAdmin(ctx context.Context) ([]*storage.Party, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Party), args.Error(1)
}

func TestGetItemPricesAdmin(t *testing.T) {
	p := new(MockAdminMasterProvider)
	p.On("GetAllItemPricesAdmin", mock.Anything, "Standard Buying").Return([]*storage.ItemPriceAdmin{
		{ID: 1, ItemCode: "TRANSPORT", PriceList: "Standard Buying", Rate: 4500},
	}, nil)

	rr := httptest.NewRecorder()
	GetItemPricesAdmin(slog.Default(), p).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/item-prices?price_list=Standard+Buying", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"price_list_rate":4500`)
}

func TestGetPartiesAdmin_Error(t *testing.T) {
	p := new(MockAdminMasterProvider)
	p.On("GetAllPartiesAdmin", mock.Anything).Return(nil, errors.New("timeout"))

	rr := httptest.NewRecorder()
	GetPartiesAdmin(slog.Default(), p).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/parties", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
