// Package desktop composes the desktop shell: the application catalog, the
// window manager and the live content mounted in windows.
//
// Terminal windows get a shell session over their own file tree; chat,
// image and video windows get generation panels bound to the shared
// collaborator. Everything else is static content. Cues, state changes and
// content changes are reported as Events so a presentation layer (websocket
// hub or terminal UI) can redraw.
package desktop
