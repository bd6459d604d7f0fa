// Package ws implements the IPC websocket between the shell and its UI.
//
// The Hub fans log frames out to every connected client and is the
// transport behind the UI log sink. Each connection also accepts command
// invocations:
//
//	→ {"type":"invoke","id":"7","command":"set_log_level","args":{"level":"debug"}}
//	← {"type":"result","id":"7","result":{"success":true}}
//	→ {"type":"ping"}
//	← {"type":"pong"}
//
// Frames are encoded with sonic. A client that cannot keep up loses log
// frames rather than slowing the logger down.
package ws
