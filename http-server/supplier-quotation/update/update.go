package update

import (
	"broker-app/internal/service/purchase"
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

type WorkflowUpdater interface {
	UpdateWorkflowState(ctx context.Context, name string, state string) (*storage.SupplierQuotation, error)
}

func UpdateWorkflowState(log *slog.Logger, updater WorkflowUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.supplier-quotation.UpdateWorkflowState"

		name := chi.URLParam(r, "name")

		var req struct {
			WorkflowState string `json:"workflow_state"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WorkflowState == "" {
			http.Error(w, "Некорректный JSON", http.StatusBadRequest)
			return
		}

		log.Info("workflow triggered", slog.String("name", name), slog.String("workflow_state", req.WorkflowState))

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		sq, err := updater.UpdateWorkflowState(ctx, name, req.WorkflowState)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "Supplier Quotation not found", http.StatusNotFound)
			case errors.Is(err, quotation.ErrInvalidTransition), errors.Is(err, storage.ErrAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, purchase.ErrLoadingChargesRequired),
				errors.Is(err, purchase.ErrNoServiceItem),
				errors.Is(err, purchase.ErrMissingFreightRate),
				errors.Is(err, purchase.ErrNoMaterialItems):
				log.Warn("purchase order creation rejected", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				log.Error("Failed to update workflow state", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, map[string]any{"success": true, "data": sq})
	}
}
