package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChatMessageReceived(t *testing.T) {
	history := []TurnPayload{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}

	event := NewChatMessageReceived("sess-public-id", "acct-id", "how are you", "system prompt", history)

	assert.Equal(t, ChatMessageReceivedType, event.EventType())
	assert.False(t, event.Timestamp().IsZero())

	payload := event.Payload()
	assert.Equal(t, "sess-public-id", payload["session_id"])
	assert.Equal(t, "acct-id", payload["account_id"])
	assert.Equal(t, "how are you", payload["message"])
	assert.Equal(t, "system prompt", payload["system_prompt"])
	assert.Equal(t, history, payload["history"])
}
