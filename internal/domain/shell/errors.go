package shell

import "errors"

var (
	// ErrBusy is returned while a web query is pending.
	ErrBusy       = errors.New("terminal is busy")
	ErrClosed     = errors.New("terminal session closed")
	ErrEditing    = errors.New("editor is open")
	ErrNotEditing = errors.New("no file is being edited")
)
