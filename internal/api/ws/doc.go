// Package ws streams the desktop to browser clients over WebSocket.
//
// The desktop's events are published to a Hub, which fans them out to every
// connected socket without blocking the window manager.
//
// Message Types (Client → Server), GET /ws:
//   - open: open an app by appId
//   - focus, minimize, close: act on windowId
//   - move: commit a window position
//   - start_menu: toggle the start menu
//   - ping: keep-alive
//
// Message Types (Server → Client), GET /ws:
//   - system: welcome
//   - snapshot: full desktop on connect
//   - cue: a sound cue to play
//   - state: the desktop state after a change
//   - content: the new view of a window's content
//   - ack: the result of a client operation
//   - error: the client frame was rejected
//
// GET /windows/:id/chat follows one chat window. Clients send
// {"type":"send","text":...}; the server pushes {"type":"view"} after every
// transcript change and {"type":"closed"} when the window goes away.
package ws
