package auth

import (
	"broker-app/internal/service/account"
	"broker-app/internal/storage"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

type Authenticator interface {
	Authenticate(ctx context.Context, apiKey, apiSecret string) (*storage.User, error)
}

// TokenAuth пропускает запросы с заголовком "Authorization: token <api_key>:<api_secret>".
func TokenAuth(log *slog.Logger, a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, secret, ok := parseToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := a.Authenticate(r.Context(), key, secret)
			if err != nil {
				if errors.Is(err, account.ErrInvalidCredentials) {
					log.Warn("token auth failed", slog.String("api_key", key), slog.String("remote", r.RemoteAddr))
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				log.Error("token auth error", slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}

			log.Debug("request authenticated", slog.String("user", u.Name), slog.String("path", r.URL.Path))

			next.ServeHTTP(w, r)
		})
	}
}

func parseToken(header string) (key, secret string, ok bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "token") {
		return "", "", false
	}

	key, secret, found = strings.Cut(strings.TrimSpace(token), ":")
	if !found || key == "" || secret == "" {
		return "", "", false
	}

	return key, secret, true
}
