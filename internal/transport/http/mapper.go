package http

import (
	"github.com/samber/lo"

	"github.com/heetpatel0310/Chat-Clone-App/internal/store"
)

// MessagePayload is the API representation of a chat message.
type MessagePayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func toMessagePayloads(messages []store.Message) []MessagePayload {
	return lo.Map(messages, func(m store.Message, _ int) MessagePayload {
		return MessagePayload{
			ID:       m.ID,
			Username: m.Username,
			Message:  m.Text,
		}
	})
}
