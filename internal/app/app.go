package app

import (
	"net/http"
	"thursday/internal/app/deps"
	"thursday/internal/app/services"
	"thursday/internal/http/handlers/health"
	createreminderfrommessage "thursday/internal/http/handlers/reminders/create_reminder_from_message"
	deletereminder "thursday/internal/http/handlers/reminders/delete_reminder"
	listreminders "thursday/internal/http/handlers/reminders/list_reminders"
	processassistantreply "thursday/internal/http/handlers/reminders/process_assistant_reply"
	reminderevents "thursday/internal/http/handlers/reminders/reminder_events"
	"thursday/internal/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const maxListLimit = 1000

// InitHttpServer builds the management surface. sched is nil when the
// process does not run the poll loop.
func InitHttpServer(deps *deps.Deps, s *services.Services, sched *scheduler.Scheduler) *http.Server {
	reminderRouter := chi.NewRouter()
	reminderRouter.Method(http.MethodGet, "/", listreminders.New(s.ListReminders, false, maxListLimit))
	reminderRouter.Method(http.MethodGet, "/all", listreminders.New(s.ListReminders, true, maxListLimit))
	reminderRouter.Method(http.MethodDelete, "/{reminderID:[0-9]+}", deletereminder.New(s.DeleteReminder))
	reminderRouter.Method(http.MethodPost, "/detect", createreminderfrommessage.New(s.CreateReminderFromMessage))
	reminderRouter.Method(http.MethodPost, "/reply", processassistantreply.New(s.ProcessAssistantReply))
	reminderRouter.Method(http.MethodGet, "/events", reminderevents.New(deps.Logger, deps.SseServer))

	var schedulerStatus health.SchedulerStatus
	if sched != nil {
		schedulerStatus = sched
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/v1/reminders", reminderRouter)
	router.Method(http.MethodGet, "/health", health.New(deps.Logger, deps.StorePinger, schedulerStatus))
	router.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.HTTPAddress,
	}
}
