package save

import (
	"broker-app/internal/service/broker"
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type BrokerCreator interface {
	Create(ctx context.Context, req broker.CreateRequest) (*storage.Broker, error)
}

func CreateBroker(log *slog.Logger, svc BrokerCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.broker.CreateBroker"

		var req broker.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		b, err := svc.Create(ctx, req)
		if err != nil {
			if errors.Is(err, broker.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Create Broker API Error", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Broker created and submitted successfully",
			"data": map[string]any{
				"name":      b.Name,
				"docstatus": b.DocStatus,
			},
		})
	}
}
