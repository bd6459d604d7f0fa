package types

// WSMessage is a frame on the IPC websocket.
//
//	client → server  {"type":"invoke","id":"1","command":"set_log_level","args":{"level":"debug"}}
//	server → client  {"type":"result","id":"1","result":{"success":true}}
//	client → server  {"type":"ping"}
//	server → client  {"type":"pong"}
type WSMessage struct {
	Type    string                 `json:"type"`
	ID      string                 `json:"id,omitempty"`
	Command string                 `json:"command,omitempty"`
	Args    map[string]interface{} `json:"args,omitempty"`
	Result  *Result                `json:"result,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Message types
const (
	MessageInvoke = "invoke"
	MessageResult = "result"
	MessagePing   = "ping"
	MessagePong   = "pong"
	MessageLog    = "log"
	MessageError  = "error"
)
