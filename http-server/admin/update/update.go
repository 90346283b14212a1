package update

import (
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type MasterUpdater interface {
	UpsertItemPricesAdmin(ctx context.Context, prices []storage.ItemPriceAdmin) error
	UpdatePartiesAdmin(ctx context.Context, parties []storage.Party) error
}

func UpdateItemPricesAdmin(log *slog.Logger, updater MasterUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateItemPricesAdmin"

		var prices []storage.ItemPriceAdmin
		if err := json.NewDecoder(r.Body).Decode(&prices); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		for _, p := range prices {
			if p.ItemCode == "" || p.PriceList == "" || p.Rate < 0 {
				http.Error(w, "item_code, price_list и неотрицательная цена обязательны", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpsertItemPricesAdmin(ctx, prices); err != nil {
			log.Error("Ошибка обновления цен", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func UpdatePartiesAdmin(log *slog.Logger, updater MasterUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdatePartiesAdmin"

		var parties []storage.Party
		if err := json.NewDecoder(r.Body).Decode(&parties); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdatePartiesAdmin(ctx, parties); err != nil {
			log.Error("Ошибка обновления контрагентов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
