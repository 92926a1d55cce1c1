package deletereminder

import (
	"errors"
	"net/http"
	"strconv"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	service "thursday/internal/core/services/delete_reminder"
	"thursday/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	rawReminderID := chi.URLParam(r, "reminderID")
	reminderID, err := strconv.ParseInt(rawReminderID, 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid reminder ID", http.StatusBadRequest)
		return
	}

	_, err = h.service.Run(r.Context(), service.Input{ReminderID: reminder.ID(reminderID)})
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderDoesNotExist):
			response.RenderError(rw, err.Error(), http.StatusNotFound)
		case errors.Is(err, reminder.ErrStoreUnavailable):
			response.RenderStoreUnavailable(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, Result{ID: reminderID, Deleted: true}, http.StatusOK)
}
