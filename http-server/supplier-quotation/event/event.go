package event

import (
	"broker-app/internal/form"
	"broker-app/internal/service/quotation"
	"broker-app/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"time"
)

type FormEventApplier interface {
	ApplyEvent(ctx context.Context, name string, ev quotation.Event) (*storage.SupplierQuotation, error)
}

// ApplyFormEvent принимает изменение поля формы и возвращает пересчитанный документ.
func ApplyFormEvent(log *slog.Logger, applier FormEventApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.ApplyFormEvent"

		name := chi.URLParam(r, "name")

		var ev quotation.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sq, err := applier.ApplyEvent(ctx, name, ev)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "Supplier Quotation not found", http.StatusNotFound)
			case errors.Is(err, quotation.ErrNotEditable):
				http.Error(w, "Supplier Quotation is not editable", http.StatusConflict)
			case errors.Is(err, quotation.ErrValidation),
				errors.Is(err, form.ErrUnknownField),
				errors.Is(err, form.ErrInvalidValue),
				errors.Is(err, form.ErrNoSuchItem):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				log.Error("failed to apply form event", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]any{"success": true, "data": sq})
	}
}
