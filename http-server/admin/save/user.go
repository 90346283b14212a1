package save

import (
	"broker-app/internal/service/account"
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type UserCreator interface {
	CreateUser(ctx context.Context, req account.CreateUserRequest) (*storage.User, error)
}

// SaveUserAdmin заводит пользователя мобильного приложения.
func SaveUserAdmin(log *slog.Logger, creator UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveUserAdmin"

		var req account.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		u, err := creator.CreateUser(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrValidation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrAlreadyExists):
				http.Error(w, "Пользователь уже существует", http.StatusConflict)
			default:
				log.Error("Ошибка добавления пользователя", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			}
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, u)
	}
}
