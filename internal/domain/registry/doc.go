// Package registry holds the application catalog.
//
// Each application is registered once at startup with a stable id, a title,
// an icon, a default window size and a content kind. Content kinds map to
// factories that build the content mounted inside a window, so new
// applications register here without touching the window manager.
package registry
