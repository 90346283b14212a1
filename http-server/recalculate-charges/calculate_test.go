package recalculate_charges

import (
	"broker-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChargesPreviewer struct {
	mock.Mock
}

func (m *MockChargesPreviewer) PreviewCharges(ctx context.Context, doc *storage.SupplierQuotation) (*storage.SupplierQuotation, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.SupplierQuotation), args.Error(1)
}

func TestCalculateCharges_Success(t *testing.T) {
	// 1. Мок возвращает пересчитанный документ
	calc := new(MockChargesPreviewer)
	calc.On("PreviewCharges", mock.Anything, mock.MatchedBy(func(doc *storage.SupplierQuotation) bool {
		return len(doc.Items) == 2 && doc.FreightPerUnit != nil && *doc.FreightPerUnit == 2
	})).Return(&storage.SupplierQuotation{
		TotalQty:         5,
		TotalFreightCost: 10,
		LabourTotalCost:  15,
		Total:            50,
		GrandTotal:       75,
	}, nil)

	// 2. Запрос
	body := `{
		"freight_per_unit": 2,
		"labour_per_unit": 3,
		"items": [{"item_code": "A", "qty": 3, "rate": 10}, {"item_code": "B", "qty": 2, "rate": 10}]
	}`
	rr := httptest.NewRecorder()
	CalculateCharges(slog.Default(), calc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/supplier-quotations/calculate-charges", strings.NewReader(body)))

	// 3. Проверки
	require.Equal(t, http.StatusOK, rr.Code)

	var resp Resp
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, 10.0, resp.Charges.TotalFreightCost)
	assert.Equal(t, 15.0, resp.Charges.LabourTotalCost)
	assert.Equal(t, 5.0, resp.TotalQty)
	assert.Equal(t, 75.0, resp.GrandTotal)

	calc.AssertExpectations(t)
}

func TestCalculateCharges_InvalidJSON(t *testing.T) {
	calc := new(MockChargesPreviewer)

	rr := httptest.NewRecorder()
	CalculateCharges(slog.Default(), calc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	calc.AssertNotCalled(t, "PreviewCharges", mock.Anything, mock.Anything)
}

func TestCalculateCharges_Error(t *testing.T) {
	calc := new(MockChargesPreviewer)
	calc.On("PreviewCharges", mock.Anything, mock.Anything).Return(nil, errors.New("context deadline exceeded"))

	rr := httptest.NewRecorder()
	CalculateCharges(slog.Default(), calc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
