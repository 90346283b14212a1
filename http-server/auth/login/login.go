package login

import (
	"broker-app/internal/service/account"
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type LoginService interface {
	Login(ctx context.Context, req account.LoginRequest) (*account.Credentials, error)
}

// Login выдаёт api_key/api_secret по email и паролю.
func Login(log *slog.Logger, svc LoginService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		var req account.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		creds, err := svc.Login(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, account.ErrValidation):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, account.ErrInvalidCredentials):
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, map[string]any{
					"success": false,
					"message": "Invalid login credentials",
				})
			default:
				log.Error("Login API Error", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]any{
			"success": true,
			"message": "Login successful",
			"data":    creds,
		})
	}
}
