// Package ai holds the contract with the remote generation service and the
// window content built on it: the chat, image and video panels.
//
// Every panel allows one request in flight (ErrBusy otherwise). Work runs
// on a context tied to the hosting window, so closing the window cancels
// the call and any late result is discarded. Chat replies stream into an
// Accumulator; video generation is polled by a Poller with no timeout.
package ai
