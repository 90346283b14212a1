package recalculate_charges

import (
	"broker-app/internal/service/charges"
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type ChargesPreviewer interface {
	PreviewCharges(ctx context.Context, doc *storage.SupplierQuotation) (*storage.SupplierQuotation, error)
}

type Resp struct {
	Charges    charges.Outputs `json:"charges"`
	TotalQty   float64         `json:"total_qty"`
	Total      float64         `json:"total"`
	GrandTotal float64         `json:"grand_total"`
}

// CalculateCharges пересчитывает фрахт и работы по несохранённой заявке.
func CalculateCharges(log *slog.Logger, calc ChargesPreviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.charges.CalculateCharges"

		var doc storage.SupplierQuotation
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		res, err := calc.PreviewCharges(ctx, &doc)
		if err != nil {
			log.Error("Failed to calculate charges", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Resp{
			Charges: charges.Outputs{
				TotalFreightCost: res.TotalFreightCost,
				LabourTotalCost:  res.LabourTotalCost,
			},
			TotalQty:   res.TotalQty,
			Total:      res.Total,
			GrandTotal: res.GrandTotal,
		})
	}
}
