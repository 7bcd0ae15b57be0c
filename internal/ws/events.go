package ws

// Event types pushed to connected clients. Push is advisory: the durable
// store is the source of truth and clients re-poll after (re)connect.
const (
	EventHello                     = "hello"
	EventMessageReceived           = "message-received"
	EventConversationStatusChanged = "conversation-status-changed"
	EventMessageRead               = "message-read"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
