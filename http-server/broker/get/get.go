package get

import (
	"broker-app/internal/service/broker"
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type BrokerLister interface {
	List(ctx context.Context, page, pageSize int) (*broker.Page, error)
}

func GetBrokers(log *slog.Logger, svc BrokerLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.broker.GetBrokers"

		page, err := atoiDefault(r.URL.Query().Get("page"), 1)
		if err != nil {
			http.Error(w, "Некорректный параметр page", http.StatusBadRequest)
			return
		}
		pageSize, err := atoiDefault(r.URL.Query().Get("page_size"), 10)
		if err != nil {
			http.Error(w, "Некорректный параметр page_size", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := svc.List(ctx, page, pageSize)
		if err != nil {
			log.Error("Get Broker List API Error", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"success":     true,
			"message":     "Brokers fetched successfully",
			"data":        res.Data,
			"total_count": res.TotalCount,
			"page":        res.Page,
			"page_size":   res.PageSize,
		})
	}
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
