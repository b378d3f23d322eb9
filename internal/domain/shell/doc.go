// Package shell is the command interpreter behind the terminal window.
//
// A Session owns the working directory, scrollback, command history and the
// nano editor for one terminal. Builtins (ls, cd, pwd, cat, mkdir, rm, find,
// nano, whoami, date, echo, clear) are looked up in a table and report
// failures as error lines. "parth getfromweb" is the only command that
// suspends; while it runs Submit returns ErrBusy.
package shell
