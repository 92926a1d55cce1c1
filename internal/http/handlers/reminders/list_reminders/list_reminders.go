package listreminders

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	service "thursday/internal/core/services/list_reminders"
	"thursday/internal/http/handlers/response"
)

type Handler struct {
	service  services.Service[service.Input, service.Result]
	all      bool
	maxLimit uint
}

// New serves pending reminders, or every reminder when all is set. maxLimit
// caps the limit query parameter of the latter.
func New(
	service services.Service[service.Input, service.Result],
	all bool,
	maxLimit uint,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if maxLimit == 0 {
		panic(e.NewInvalidArgumentError("maxLimit", "must be positive"))
	}
	return &Handler{service: service, all: all, maxLimit: maxLimit}
}

type Result struct {
	Reminders []response.Reminder `json:"reminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := service.Input{All: h.all}
	if h.all {
		limit, err := h.parseLimit(r.URL.Query().Get("limit"))
		if err != nil {
			response.RenderError(rw, "invalid limit query parameter", http.StatusBadRequest)
			return
		}
		input.Limit = limit
	}

	result, err := h.service.Run(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrStoreUnavailable):
			response.RenderStoreUnavailable(rw)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	response.Render(rw, Result{Reminders: response.FromDomainReminders(result.Reminders)}, http.StatusOK)
}

func (h *Handler) parseLimit(raw string) (limit c.Optional[uint], err error) {
	if raw == "" {
		return limit, nil
	}
	l, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return limit, err
	}
	if l == 0 || uint(l) > h.maxLimit {
		return limit, fmt.Errorf("limit must be between 1 and %v", h.maxLimit)
	}
	limit.IsPresent = true
	limit.Value = uint(l)
	return limit, nil
}
