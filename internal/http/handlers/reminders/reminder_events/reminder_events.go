package reminderevents

import (
	"net/http"
	e "thursday/internal/core/domain/errors"
	"thursday/internal/core/domain/logging"
	"thursday/internal/implementations/notifier"

	"github.com/r3labs/sse/v2"
)

// Handler subscribes a browser to the reminders stream fed by the web
// notification channel.
type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
}

func New(
	log logging.Logger,
	sseServer *sse.Server,
) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	if !sseServer.StreamExists(notifier.RemindersStream) {
		sseServer.CreateStream(notifier.RemindersStream)
	}
	return &Handler{log: log, sseServer: sseServer}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	query.Set("stream", notifier.RemindersStream)
	r.URL.RawQuery = query.Encode()

	h.log.Info(r.Context(), "Subscribed to reminder events.", logging.Entry("remoteAddr", r.RemoteAddr))
	h.sseServer.ServeHTTP(rw, r)
	h.log.Info(r.Context(), "Unsubscribed from reminder events.", logging.Entry("remoteAddr", r.RemoteAddr))
}
