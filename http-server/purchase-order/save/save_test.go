package save

import (
	"broker-app/internal/service/purchase"
	"broker-app/internal/storage"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPurchaseOrderWriter struct {
	mock.Mock
}

func (m *MockPurchaseOrderWriter) CreateDraft(ctx context.Context, quotationName string) (*storage.PurchaseOrder, error) {
	args := m.Called(ctx, quotationName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderWriter) Submit(ctx context.Context, name string) (*storage.PurchaseOrder, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PurchaseOrder), args.Error(1)
}

func newRouter(wr PurchaseOrderWriter) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/supplier-quotations/{name}/purchase-order", CreatePurchaseOrder(slog.Default(), wr))
	r.Post("/api/purchase-orders/{name}/submit", SubmitPurchaseOrder(slog.Default(), wr))
	return r
}

func do(h http.Handler, url string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, url, nil))
	return rr
}

func TestCreatePurchaseOrder(t *testing.T) {
	wr := new(MockPurchaseOrderWriter)
	wr.On("CreateDraft", mock.Anything, "SQ-1").
		Return(&storage.PurchaseOrder{Name: "PUR-ORD-2026-00004", SupplierQuotation: "SQ-1", Status: storage.POStatusDraft}, nil)

	rr := do(newRouter(wr), "/api/supplier-quotations/SQ-1/purchase-order")

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "PUR-ORD-2026-00004")
	wr.AssertExpectations(t)
}

func TestSubmitPurchaseOrder(t *testing.T) {
	wr := new(MockPurchaseOrderWriter)
	wr.On("Submit", mock.Anything, "PUR-ORD-2026-00004").
		Return(&storage.PurchaseOrder{Name: "PUR-ORD-2026-00004", DocStatus: 1}, nil)

	rr := do(newRouter(wr), "/api/purchase-orders/PUR-ORD-2026-00004/submit")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"docstatus":1`)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"already submitted", purchase.ErrAlreadySubmitted, http.StatusConflict},
		{"not approved", purchase.ErrQuotationNotApproved, http.StatusConflict},
		{"draft exists", storage.ErrAlreadyExists, http.StatusConflict},
		{"loading charges", purchase.ErrLoadingChargesRequired, http.StatusUnprocessableEntity},
		{"no material items", purchase.ErrNoMaterialItems, http.StatusUnprocessableEntity},
		{"other", fmt.Errorf("tx aborted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wr := new(MockPurchaseOrderWriter)
			wr.On("Submit", mock.Anything, "PO").Return(nil, fmt.Errorf("service.purchase.Submit: %w", tt.err))
			wr.On("CreateDraft", mock.Anything, "SQ").Return(nil, fmt.Errorf("service.purchase.CreateDraft: %w", tt.err))

			h := newRouter(wr)

			assert.Equal(t, tt.code, do(h, "/api/purchase-orders/PO/submit").Code)
			assert.Equal(t, tt.code, do(h, "/api/supplier-quotations/SQ/purchase-order").Code)
		})
	}
}
