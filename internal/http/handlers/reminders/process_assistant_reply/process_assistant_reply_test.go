package processassistantreply

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	c "thursday/internal/core/domain/common"
	"thursday/internal/core/domain/reminder"
	service "thursday/internal/core/services/process_assistant_reply"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	result service.Result
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	s.input = &input
	return s.result, s.err
}

func TestProcessAssistantReplyHandler(t *testing.T) {
	now := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	stub := &stubService{result: service.Result{
		Text: "Sure!  Anything else?",
		Reminders: []reminder.Reminder{
			{ID: 1, Message: "drink water", TriggerAt: now.Add(30 * time.Minute), CreatedAt: now},
		},
		Skipped: []reminder.Tag{
			{Raw: "[REMIND: someday | dance]", TimeExpression: "someday", Message: "dance"},
		},
	}}
	req := httptest.NewRequest(
		http.MethodPost,
		"/v1/reminders/reply",
		strings.NewReader(`{"reply": "Sure! [REMIND: in 30 minutes | drink water] Anything else?", "conversation_id": "c9"}`),
	)
	rr := httptest.NewRecorder()

	New(stub).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, c.NewOptional("c9", true), stub.input.ConversationID)
	var body Result
	assert.Nil(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Sure!  Anything else?", body.Text)
	assert.Len(t, body.Reminders, 1)
	assert.Equal(t, "drink water", body.Reminders[0].Message)
	assert.Equal(t, []SkippedTag{{Raw: "[REMIND: someday | dance]", TimeExpression: "someday", Message: "dance"}}, body.Skipped)
}

func TestProcessAssistantReplyHandlerErrors(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		err            error
		expectedStatus int
	}{
		{id: "invalid-json", body: `[]`, expectedStatus: http.StatusBadRequest},
		{id: "service-error", body: `{"reply": "hi"}`, err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/reminders/reply", strings.NewReader(testcase.body))

			New(&stubService{err: testcase.err}).ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
		})
	}
}
