package vfs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("no such file or directory")
	ErrIsDirectory  = errors.New("is a directory")
	ErrNotDirectory = errors.New("not a directory")
	ErrExists       = errors.New("file exists")
	ErrPermission   = errors.New("permission denied")
	ErrInvalidPath  = errors.New("invalid path")
)

// Operation names carried by PathError.
const (
	OpList  = "ls"
	OpCd    = "cd"
	OpRead  = "cat"
	OpMkdir = "mkdir"
	OpRm    = "rm"
	OpWrite = "write"
	OpFind  = "find"
)

// PathError records a failed tree operation. Path is the path as the caller
// typed it, not the resolved one, so messages echo user input.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error renders the message a shell user would see for this failure.
func (e *PathError) Error() string {
	switch e.Op {
	case OpList:
		if errors.Is(e.Err, ErrNotDirectory) {
			return fmt.Sprintf("ls: cannot access '%s': Not a directory", e.Path)
		}
		return fmt.Sprintf("ls: cannot access '%s': No such file or directory", e.Path)
	case OpCd:
		if errors.Is(e.Err, ErrNotDirectory) {
			return fmt.Sprintf("cd: not a directory: %s", e.Path)
		}
		return fmt.Sprintf("cd: no such file or directory: %s", e.Path)
	case OpRead:
		if errors.Is(e.Err, ErrIsDirectory) {
			return fmt.Sprintf("cat: %s: Is a directory", e.Path)
		}
		return fmt.Sprintf("cat: %s: No such file or directory", e.Path)
	case OpMkdir:
		if errors.Is(e.Err, ErrExists) {
			return fmt.Sprintf("mkdir: cannot create directory ‘%s’: File exists", e.Path)
		}
		return fmt.Sprintf("mkdir: cannot create directory ‘%s’: No such file or directory", e.Path)
	case OpRm:
		switch {
		case errors.Is(e.Err, ErrPermission):
			return fmt.Sprintf("rm: cannot remove '%s': Permission denied", e.Path)
		case errors.Is(e.Err, ErrIsDirectory):
			return fmt.Sprintf("rm: cannot remove '%s': is a directory", e.Path)
		}
		return fmt.Sprintf("rm: cannot remove '%s': No such file or directory", e.Path)
	case OpWrite:
		if errors.Is(e.Err, ErrIsDirectory) {
			return fmt.Sprintf("Error: Cannot write to '%s'. It is a directory.", e.Path)
		}
		return fmt.Sprintf("Error: Cannot create file in '%s'. Invalid path.", e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

func pathErr(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}
