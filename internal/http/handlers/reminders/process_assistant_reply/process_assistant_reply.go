package processassistantreply

import (
	"encoding/json"
	"io"
	"net/http"
	c "thursday/internal/core/domain/common"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/services"
	service "thursday/internal/core/services/process_assistant_reply"
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
	Reply          string  `json:"reply"`
	ConversationID *string `json:"conversation_id"`
}

type SkippedTag struct {
	Raw            string `json:"raw"`
	TimeExpression string `json:"time_expression"`
	Message        string `json:"message"`
}

type Result struct {
	Text      string              `json:"text"`
	Reminders []response.Reminder `json:"reminders"`
	Skipped   []SkippedTag        `json:"skipped"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Reply, validation.Length(0, 32768)),
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
		Reply:          input.Reply,
		ConversationID: c.FromPointer(input.ConversationID),
	})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	skipped := make([]SkippedTag, 0, len(result.Skipped))
	for _, tag := range result.Skipped {
		skipped = append(skipped, SkippedTag{
			Raw:            tag.Raw,
			TimeExpression: tag.TimeExpression,
			Message:        tag.Message,
		})
	}
	response.Render(rw, Result{
		Text:      result.Text,
		Reminders: response.FromDomainReminders(result.Reminders),
		Skipped:   skipped,
	}, http.StatusOK)
}
