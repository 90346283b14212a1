package save

import (
	"broker-app/internal/service/purchase"
	"broker-app/internal/service/quotation"
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type QuotationCreator interface {
	Create(ctx context.Context, req quotation.CreateRequest) (*storage.SupplierQuotation, error)
}

func CreateSupplierQuotation(log *slog.Logger, creator QuotationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.CreateSupplierQuotation"

		var req quotation.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sq, err := creator.Create(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, quotation.ErrValidation):
				log.Warn("invalid supplier quotation", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, purchase.ErrLoadingChargesRequired):
				http.Error(w, "Loading Charges must be greater than 0 when Freight = Exclusive", http.StatusUnprocessableEntity)
			default:
				log.Error("Failed to create Supplier Quotation", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Failed to create Supplier Quotation", http.StatusInternalServerError)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Supplier Quotation created",
			"data": map[string]any{
				"name":        sq.Name,
				"grand_total": sq.GrandTotal,
				"status":      sq.WorkflowState,
			},
		})
	}
}
