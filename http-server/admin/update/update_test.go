package update

import (
	"broker-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMasterUpdater struct {
	mock.Mock
}

func (m *MockMasterUpdater) UpsertItemPricesAdmin(ctx context.Context, prices []storage.ItemPriceAdmin) error {
	return m.Called(ctx, prices).Error(0)
}

func (m *MockMasterUpdater) UpdatePartiesAdmin(ctx context.Context, parties []storage.Party) error {
	return m.Called(ctx, parties).Error(0)
}

// Тест: транспортная ставка сохраняется в прайс-лист
func TestUpdateItemPricesAdmin_Success(t *testing.T) {
	u := new(MockMasterUpdater)
	u.On("UpsertItemPricesAdmin", mock.Anything, []storage.ItemPriceAdmin{
		{ItemCode: "TRANSPORT", PriceList: "Standard Buying", Rate: 4500},
	}).Return(nil)

	body := `[{"item_code": "TRANSPORT", "price_list": "Standard Buying", "price_list_rate": 4500}]`
	rr := httptest.NewRecorder()
	UpdateItemPricesAdmin(slog.Default(), u).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/api/admin/item-prices", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	u.AssertExpectations(t)
}

func TestUpdateItemPricesAdmin_Invalid(t *testing.T) {
	bodies := []string{
		`{`,
		`[{"item_code": "", "price_list": "Standard Buying", "price_list_rate": 1}]`,
		`[{"item_code": "TRANSPORT", "price_list": "Standard Buying", "price_list_rate": -1}]`,
	}

	for _, body := range bodies {
		u := new(MockMasterUpdater)
		rr := httptest.NewRecorder()
		UpdateItemPricesAdmin(slog.Default(), u).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		u.AssertNotCalled(t, "UpsertItemPricesAdmin", mock.Anything, mock.Anything)
	}
}

func TestUpdatePartiesAdmin(t *testing.T) {
	u := new(MockMasterUpdater)
	u.On("UpdatePartiesAdmin", mock.Anything, mock.Anything).Return(errors.New("deadlock")).Once()
	u.On("UpdatePartiesAdmin", mock.Anything, []storage.Party{{Name: "P-1", PartyName: "Ravi", IsParty: true}}).Return(nil).Once()

	body := `[{"name": "P-1", "party_name": "Ravi", "is_party": true}]`

	rr := httptest.NewRecorder()
	UpdatePartiesAdmin(slog.Default(), u).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	UpdatePartiesAdmin(slog.Default(), u).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)
}
