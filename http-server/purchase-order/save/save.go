package save

import (
	"broker-app/internal/service/purchase"
	"broker-app/internal/storage"
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type PurchaseOrderWriter interface {
	CreateDraft(ctx context.Context, quotationName string) (*storage.PurchaseOrder, error)
	Submit(ctx context.Context, name string) (*storage.PurchaseOrder, error)
}

// CreatePurchaseOrder создаёт черновик заказа по утверждённой заявке.
func CreatePurchaseOrder(log *slog.Logger, writer PurchaseOrderWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.purchase-order.CreatePurchaseOrder"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		po, err := writer.CreateDraft(ctx, chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, log, op, err)
			return
		}

		log.Info("PO Inserted Successfully", slog.String("name", po.Name), slog.String("supplier_quotation", po.SupplierQuotation))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"success": true, "data": po})
	}
}

func SubmitPurchaseOrder(log *slog.Logger, writer PurchaseOrderWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.purchase-order.SubmitPurchaseOrder"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		po, err := writer.Submit(ctx, chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, log, op, err)
			return
		}

		log.Info("PO Submitted Successfully", slog.String("name", po.Name))

		render.JSON(w, r, map[string]any{"success": true, "data": po})
	}
}

func writeError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, purchase.ErrAlreadySubmitted),
		errors.Is(err, purchase.ErrQuotationNotApproved),
		errors.Is(err, storage.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, purchase.ErrLoadingChargesRequired),
		errors.Is(err, purchase.ErrNoMaterialItems):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error("purchase order operation failed", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
