package events

import (
	"time"
)

const ChatMessageReceivedType = "CHAT_MESSAGE_RECEIVED"

// TurnPayload is one prior turn included in a relayed message event.
type TurnPayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewChatMessageReceived describes an incoming user message: the raw text,
// the full prior turn sequence and the fixed system prompt, exactly what the
// downstream event processor needs to reconstruct the exchange.
func NewChatMessageReceived(sessionId, accountId, message, systemPrompt string, history []TurnPayload) Event {
	return BaseEvent{
		Type: ChatMessageReceivedType,
		Data: map[string]interface{}{
			"session_id":    sessionId,
			"account_id":    accountId,
			"message":       message,
			"history":       history,
			"system_prompt": systemPrompt,
		},
		OccurredAt: time.Now(),
	}
}
