package createreminderfrommessage

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/reminder"
	"thursday/internal/core/services"
	service "thursday/internal/core/services/create_reminder_from_message"
	"thursday/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
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

type Input struct {
	Text           string  `json:"text"`
	ConversationID *string `json:"conversation_id"`
}

type Result struct {
	Detected bool               `json:"detected"`
	Intent   *response.Intent   `json:"intent,omitempty"`
	Reminder *response.Reminder `json:"reminder,omitempty"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Text, validation.Required, validation.Length(0, 4096)),
		validation.Field(&i.ConversationID, validation.Length(0, 128)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{
		Text:           input.Text,
		ConversationID: c.FromPointer(input.ConversationID),
	})
	if err != nil {
		switch {
		case errors.Is(err, reminder.ErrReminderMessageEmpty), errors.Is(err, reminder.ErrReminderTriggerNotSet):
			response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		default:
			response.RenderInternalError(rw)
		}
		return
	}

	res := Result{Detected: result.Intent.IsPresent}
	if result.Intent.IsPresent {
		res.Intent = &response.Intent{}
		res.Intent.FromDomainType(result.Intent.Value)
	}
	if result.Reminder.IsPresent {
		res.Reminder = &response.Reminder{}
		res.Reminder.FromDomainType(result.Reminder.Value)
	}
	status := http.StatusOK
	if res.Reminder != nil {
		status = http.StatusCreated
	}
	response.Render(rw, res, status)
}
