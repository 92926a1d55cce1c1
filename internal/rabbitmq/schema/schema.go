package schema

import (
	"encoding/json"
	"time"
)

// Notification is the body of a message published to the notification
// queue.
type Notification struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) Unmarshal(data []byte) error {
	return json.Unmarshal(data, n)
}
