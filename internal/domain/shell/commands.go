package shell

import (
	"errors"
	"strings"

	"github.com/parthos/desktop/backend/internal/domain/vfs"
	"github.com/parthos/desktop/backend/internal/shared/paths"
)

// DateLayout renders "date" output, e.g. "Mon Oct 19 2026 14:03:07 GMT+0000 (UTC)".
const DateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// result is what a builtin asks the session to apply.
type result struct {
	lines []Line
	clear bool
	cwd   string
	edit  *Editor
	// query, when set, is forwarded to the web searcher.
	query string
}

func (r result) failed() bool {
	for _, l := range r.lines {
		if l.Kind == LineError {
			return true
		}
	}
	return false
}

func say(content string) result {
	if content == "" {
		return result{}
	}
	return result{lines: []Line{output(content)}}
}

func fail(content string) result {
	return result{lines: []Line{failure(content)}}
}

func failErr(err error) result {
	return fail(err.Error())
}

// builtin runs with the session locked. It may read s but must not mutate
// it; changes go through the result.
type builtin func(s *Session, args []string) result

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"parth":  cmdParth,
		"ls":     cmdLs,
		"cd":     cmdCd,
		"pwd":    cmdPwd,
		"cat":    cmdCat,
		"mkdir":  cmdMkdir,
		"rm":     cmdRm,
		"find":   cmdFind,
		"nano":   cmdNano,
		"whoami": cmdWhoami,
		"date":   cmdDate,
		"echo":   cmdEcho,
		"clear":  cmdClear,
	}
}

// Commands lists the builtin names.
func Commands() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func cmdParth(_ *Session, args []string) result {
	switch arg(args, 0) {
	case "--help":
		return say(HelpMessage)
	case "getfromweb":
		prompt := strings.ReplaceAll(strings.Join(args[1:], " "), `"`, "")
		if strings.TrimSpace(prompt) == "" {
			return fail(`Usage: parth getfromweb "<your question>"`)
		}
		return result{query: prompt}
	}
	return fail("parth: command not found: " + arg(args, 0) + ". Try 'parth --help'")
}

func cmdLs(s *Session, args []string) result {
	target := arg(args, 0)
	if target == "" {
		target = "."
	}
	entries, err := s.tree.List(target, s.cwd)
	if err != nil {
		return failErr(err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.String()
	}
	return say(strings.Join(names, "  "))
}

func cmdCd(s *Session, args []string) result {
	target := arg(args, 0)
	if target == "" {
		target = paths.HomeSign
	}
	cwd, err := s.tree.ChangeDirectory(target, s.cwd)
	if err != nil {
		return failErr(err)
	}
	return result{cwd: cwd}
}

func cmdPwd(s *Session, _ []string) result {
	return say(s.cwd)
}

func cmdCat(s *Session, args []string) result {
	if arg(args, 0) == "" {
		return fail("cat: missing file operand")
	}
	content, err := s.tree.ReadFile(args[0], s.cwd)
	if err != nil {
		return failErr(err)
	}
	return say(content)
}

func cmdMkdir(s *Session, args []string) result {
	if arg(args, 0) == "" {
		return fail("mkdir: missing operand")
	}
	if err := s.tree.MakeDirectory(args[0], s.cwd); err != nil {
		return failErr(err)
	}
	return result{}
}

// cmdRm accepts -r only as the first argument.
func cmdRm(s *Session, args []string) result {
	recursive := arg(args, 0) == "-r"
	target := arg(args, 0)
	if recursive {
		target = arg(args, 1)
	}
	if target == "" {
		return fail("rm: missing operand")
	}
	if err := s.tree.Remove(target, s.cwd, recursive); err != nil {
		return failErr(err)
	}
	return result{}
}

func cmdFind(s *Session, args []string) result {
	matches, err := s.tree.Find(arg(args, 0), ".", s.cwd)
	if err != nil {
		return failErr(err)
	}
	return say(strings.Join(matches, "\n"))
}

func cmdNano(s *Session, args []string) result {
	target := arg(args, 0)
	if target == "" {
		return fail("nano: missing file operand")
	}
	content, err := s.tree.ReadFile(target, s.cwd)
	switch {
	case errors.Is(err, vfs.ErrIsDirectory):
		return fail("nano: " + target + ": Is a directory")
	case errors.Is(err, vfs.ErrNotFound):
		content = ""
	case err != nil:
		return failErr(err)
	}
	return result{edit: &Editor{
		Path:     target,
		Content:  content,
		resolved: vfs.Resolve(target, s.cwd),
	}}
}

func cmdWhoami(_ *Session, _ []string) result {
	return say(paths.User)
}

func cmdDate(s *Session, _ []string) result {
	return say(s.clock().Format(DateLayout))
}

func cmdEcho(_ *Session, args []string) result {
	return say(strings.Join(args, " "))
}

func cmdClear(_ *Session, _ []string) result {
	return result{clear: true}
}
