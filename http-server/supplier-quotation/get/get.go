package get

import (
	"broker-app/internal/service/quotation"
	"broker-app/internal/storage"
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type QuotationProvider interface {
	Get(ctx context.Context, name string) (*storage.SupplierQuotation, error)
	List(ctx context.Context, filter storage.QuotationFilter) (*quotation.ListResult, error)
	PartyLookup(ctx context.Context, name string) ([]storage.Party, error)
}

func GetSupplierQuotations(log *slog.Logger, provider QuotationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.GetSupplierQuotations"

		q := r.URL.Query()

		start, err := intParam(q.Get("start"), 0)
		if err != nil {
			http.Error(w, "Некорректный параметр start", http.StatusBadRequest)
			return
		}
		pageLength, err := intParam(q.Get("page_length"), 20)
		if err != nil {
			http.Error(w, "Некорректный параметр page_length", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := provider.List(ctx, storage.QuotationFilter{
			Supplier:      q.Get("supplier"),
			WorkflowState: q.Get("workflow_state"),
			Start:         start,
			PageLength:    pageLength,
		})
		if err != nil {
			log.Error("failed to list supplier quotations", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"success":     true,
			"data":        res.Data,
			"total_count": res.TotalCount,
			"start":       res.Start,
			"page_length": res.PageLength,
		})
	}
}

func GetSupplierQuotation(log *slog.Logger, provider QuotationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.GetSupplierQuotation"

		name := chi.URLParam(r, "name")
		if name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sq, err := provider.Get(ctx, name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Supplier Quotation not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get supplier quotation", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"success": true, "data": sq})
	}
}

// GetPartyLookup отдаёт варианты для поля party_name.
func GetPartyLookup(log *slog.Logger, provider QuotationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.GetPartyLookup"

		name := chi.URLParam(r, "name")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		parties, err := provider.PartyLookup(ctx, name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Supplier Quotation not found", http.StatusNotFound)
				return
			}
			log.Error("failed to lookup parties", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{"success": true, "data": parties})
	}
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
