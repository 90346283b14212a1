package get

import (
	"broker-app/internal/storage"
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type AdminMasterProvider interface {
	GetAllItemPricesAdmin(ctx context.Context, priceList string) ([]*storage.ItemPriceAdmin, error)
	GetAllPartiesAdmin(ctx context.Context) ([]*storage.Party, error)
}

func GetItemPricesAdmin(log *slog.Logger, provider AdminMasterProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetItemPricesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		prices, err := provider.GetAllItemPricesAdmin(ctx, r.URL.Query().Get("price_list"))
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("ошибка получения прайс-листа")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, prices)
	}
}

func GetPartiesAdmin(log *slog.Logger, provider AdminMasterProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetPartiesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		parties, err := provider.GetAllPartiesAdmin(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("ошибка получения контрагентов")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, parties)
	}
}
