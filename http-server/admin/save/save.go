package save

import (
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type MasterCreator interface {
	CreatePartyAdmin(ctx context.Context, p storage.Party) error
	CreateItemAdmin(ctx context.Context, item storage.ItemAdmin) error
}

func SavePartyAdmin(log *slog.Logger, creator MasterCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SavePartyAdmin"

		var party storage.Party
		if err := json.NewDecoder(r.Body).Decode(&party); err != nil || party.Name == "" {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if party.PartyName == "" {
			party.PartyName = party.Name
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := creator.CreatePartyAdmin(ctx, party); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				http.Error(w, "Контрагент уже существует", http.StatusConflict)
				return
			}
			log.Error("Ошибка добавления контрагента", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

// SaveItemAdmin заводит товар; для транспортного заказа нужен товар группы Services.
func SaveItemAdmin(log *slog.Logger, creator MasterCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveItemAdmin"

		item := storage.ItemAdmin{StockUOM: "Nos", IsPurchaseItem: true}
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ItemCode == "" || item.ItemGroup == "" {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if item.ItemName == "" {
			item.ItemName = item.ItemCode
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := creator.CreateItemAdmin(ctx, item); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				http.Error(w, "Товар уже существует", http.StatusConflict)
				return
			}
			log.Error("Ошибка добавления товара", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}
