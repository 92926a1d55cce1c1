package services

import (
	"thursday/internal/app/deps"
	"thursday/internal/core/services"
	createreminder "thursday/internal/core/services/create_reminder"
	createreminderfrommessage "thursday/internal/core/services/create_reminder_from_message"
	deletereminder "thursday/internal/core/services/delete_reminder"
	fireduereminders "thursday/internal/core/services/fire_due_reminders"
	leaseguard "thursday/internal/core/services/lease_guard"
	listreminders "thursday/internal/core/services/list_reminders"
	processassistantreply "thursday/internal/core/services/process_assistant_reply"
)

type Services struct {
	CreateReminder            services.Service[createreminder.Input, createreminder.Result]
	CreateReminderFromMessage services.Service[createreminderfrommessage.Input, createreminderfrommessage.Result]
	ProcessAssistantReply     services.Service[processassistantreply.Input, processassistantreply.Result]
	ListReminders             services.Service[listreminders.Input, listreminders.Result]
	DeleteReminder            services.Service[deletereminder.Input, deletereminder.Result]
	FireDueReminders          services.Service[fireduereminders.Input, fireduereminders.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.CreateReminder = createreminder.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.Notifier,
		deps.Metrics,
		deps.Now,
	)
	s.CreateReminderFromMessage = createreminderfrommessage.New(
		deps.Logger,
		deps.IntentDetector,
		deps.Now,
		s.CreateReminder,
	)
	s.ProcessAssistantReply = processassistantreply.New(
		deps.Logger,
		deps.TagExtractor,
		deps.TimeExpressionParser,
		deps.Now,
		s.CreateReminder,
	)
	s.ListReminders = listreminders.New(
		deps.Logger,
		deps.ReminderRepository,
		deps.Config.ReminderListAllLimit,
	)
	s.DeleteReminder = deletereminder.New(
		deps.Logger,
		deps.ReminderRepository,
	)
	s.FireDueReminders = leaseguard.WithLease(
		deps.Logger,
		deps.SchedulerLease,
		fireduereminders.New(
			deps.Logger,
			deps.ReminderRepository,
			deps.Notifier,
			deps.Metrics,
			deps.SchedulerLease,
			deps.Now,
			deps.Config.DiscordUserID,
			deps.Config.ReminderFireTimeout,
		),
	)

	return s
}
