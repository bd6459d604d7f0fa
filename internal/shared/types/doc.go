// Package types provides data structures shared by the shell, the command
// layer and the IPC transports.
//
// Core Types:
//   - CommandDef, Parameter: command metadata listed to the UI
//   - Result: standard command result
//   - Position, Size, WindowSnapshot: window geometry and state
//   - WSMessage: IPC websocket frames
package types
