package get

import (
	"broker-app/internal/service/purchase"
	"broker-app/internal/storage"
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type PurchaseOrderProvider interface {
	Get(ctx context.Context, name string) (*storage.PurchaseOrder, error)
	List(ctx context.Context, filter storage.PurchaseOrderFilter) (*purchase.ListResult, error)
}

func GetPurchaseOrders(log *slog.Logger, provider PurchaseOrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.purchase-order.GetPurchaseOrders"

		q := r.URL.Query()

		filter := storage.PurchaseOrderFilter{
			Supplier:          q.Get("supplier"),
			SupplierQuotation: q.Get("supplier_quotation"),
			Status:            q.Get("status"),
		}

		var err error
		if s := q.Get("start"); s != "" {
			if filter.Start, err = strconv.Atoi(s); err != nil {
				http.Error(w, "Некорректный параметр start", http.StatusBadRequest)
				return
			}
		}
		if s := q.Get("page_length"); s != "" {
			if filter.PageLength, err = strconv.Atoi(s); err != nil {
				http.Error(w, "Некорректный параметр page_length", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := provider.List(ctx, filter)
		if err != nil {
			log.Error("failed to list purchase orders", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"success":     true,
			"message":     "Purchase Orders fetched successfully",
			"data":        res.Data,
			"total_count": res.TotalCount,
			"start":       res.Start,
			"page_length": res.PageLength,
		})
	}
}

func GetPurchaseOrder(log *slog.Logger, provider PurchaseOrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.purchase-order.GetPurchaseOrder"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		po, err := provider.Get(ctx, chi.URLParam(r, "name"))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Purchase Order not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get purchase order", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"success": true, "data": po})
	}
}
