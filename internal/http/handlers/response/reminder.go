package response

import "thursday/internal/core/domain/reminder"

type Reminder struct {
	ID             int64   `json:"id"`
	Message        string  `json:"message"`
	TriggerAt      int64   `json:"trigger_at"`
	CreatedAt      int64   `json:"created_at"`
	Fired          bool    `json:"fired"`
	State          string  `json:"state"`
	ConversationID *string `json:"conversation_id"`
}

func (r *Reminder) FromDomainType(dr reminder.Reminder) {
	r.ID = int64(dr.ID)
	r.Message = dr.Message
	r.TriggerAt = dr.TriggerAt.Unix()
	r.CreatedAt = dr.CreatedAt.Unix()
	r.Fired = dr.Fired
	r.State = dr.State().String()
	r.ConversationID = dr.ConversationID.Pointer()
}

func FromDomainReminders(reminders []reminder.Reminder) []Reminder {
	result := make([]Reminder, 0, len(reminders))
	for _, dr := range reminders {
		r := Reminder{}
		r.FromDomainType(dr)
		result = append(result, r)
	}
	return result
}

type Intent struct {
	TimeExpression string `json:"time_expression"`
	Message        string `json:"message"`
	TriggerAt      int64  `json:"trigger_at"`
}

func (i *Intent) FromDomainType(di reminder.Intent) {
	i.TimeExpression = di.TimeExpression
	i.Message = di.Message
	i.TriggerAt = di.TriggerAt.Unix()
}
