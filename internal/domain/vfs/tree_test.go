package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const home = "/home/parth"

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

func TestDefaultLayout(t *testing.T) {
	tree := NewDefault()

	entries, err := tree.List(".", home)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Projects/", "Documents/", "welcome.txt"}, names(entries))

	content, err := tree.ReadFile("welcome.txt", home)
	require.NoError(t, err)
	assert.Contains(t, content, "parth --help")

	entries, err = tree.List("Projects", home)
	require.NoError(t, err)
	assert.Equal(t, []string{"exovate.txt", "autoscaling-demo.txt"}, names(entries))
}

func TestGetNode(t *testing.T) {
	tree := NewDefault()

	root, ok := tree.GetNode("/")
	require.True(t, ok)
	assert.True(t, root.IsDir())
	assert.Equal(t, []string{"home"}, root.Children)

	_, ok = tree.GetNode("/home/parth/welcome.txt/x")
	assert.False(t, ok, "traversing through a file must fail")

	_, ok = tree.GetNode("/nope")
	assert.False(t, ok)
}

func TestChangeDirectory(t *testing.T) {
	tree := NewDefault()

	cwd, err := tree.ChangeDirectory("Projects", home)
	require.NoError(t, err)
	assert.Equal(t, "/home/parth/Projects", cwd)

	cwd, err = tree.ChangeDirectory("..", cwd)
	require.NoError(t, err)
	assert.Equal(t, home, cwd)

	cwd, err = tree.ChangeDirectory("~", "/")
	require.NoError(t, err)
	assert.Equal(t, home, cwd)

	cwd, err = tree.ChangeDirectory("missing", home)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, home, cwd)
	assert.EqualError(t, err, "cd: no such file or directory: missing")

	_, err = tree.ChangeDirectory("welcome.txt", home)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestReadFileErrors(t *testing.T) {
	tree := NewDefault()

	_, err := tree.ReadFile("Projects", home)
	assert.ErrorIs(t, err, ErrIsDirectory)
	assert.EqualError(t, err, "cat: Projects: Is a directory")

	_, err = tree.ReadFile("notes.txt", home)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "cat: notes.txt: No such file or directory")

	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, OpRead, pe.Op)
	assert.Equal(t, "notes.txt", pe.Path)
}

func TestWriteThenRead(t *testing.T) {
	contents := []string{"", "hello", "line1\nline2\n", "unicode ✓"}

	for _, content := range contents {
		t.Run(content, func(t *testing.T) {
			tree := NewDefault()
			require.NoError(t, tree.WriteFile("notes.txt", home, content))

			got, err := tree.ReadFile("/home/parth/notes.txt", "/")
			require.NoError(t, err)
			assert.Equal(t, content, got)
		})
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	tree := NewDefault()

	require.NoError(t, tree.WriteFile("welcome.txt", home, "replaced"))
	got, err := tree.ReadFile("welcome.txt", home)
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)

	entries, err := tree.List(".", home)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriteFileErrors(t *testing.T) {
	tree := NewDefault()

	err := tree.WriteFile("Projects", home, "x")
	assert.ErrorIs(t, err, ErrIsDirectory)
	assert.EqualError(t, err, "Error: Cannot write to 'Projects'. It is a directory.")

	err = tree.WriteFile("nowhere/file.txt", home, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.EqualError(t, err, "Error: Cannot create file in 'nowhere/file.txt'. Invalid path.")

	err = tree.WriteFile("welcome.txt/inner", home, "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestMakeDirectoryTwice(t *testing.T) {
	tree := NewDefault()

	require.NoError(t, tree.MakeDirectory("foo", home))
	before := tree.Len()
	version := tree.Version()

	err := tree.MakeDirectory("foo", home)
	assert.ErrorIs(t, err, ErrExists)
	assert.EqualError(t, err, "mkdir: cannot create directory ‘foo’: File exists")
	assert.Equal(t, before, tree.Len())
	assert.Equal(t, version, tree.Version())

	entries, err := tree.List(".", home)
	require.NoError(t, err)
	count := 0
	for _, e := range entries {
		if e.Name == "foo" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMakeDirectoryMissingParent(t *testing.T) {
	tree := NewDefault()

	err := tree.MakeDirectory("a/b", home)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "mkdir: cannot create directory ‘a/b’: No such file or directory")

	err = tree.MakeDirectory("/", home)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	t.Run("protected paths", func(t *testing.T) {
		tree := NewDefault()
		for _, p := range []string{"/", "/home", "/home/parth", ".", ".."} {
			err := tree.Remove(p, home, true)
			assert.ErrorIs(t, err, ErrPermission, p)
		}
		assert.EqualError(t, tree.Remove("/", home, false), "rm: cannot remove '/': Permission denied")
	})

	t.Run("missing target", func(t *testing.T) {
		tree := NewDefault()
		err := tree.Remove("ghost", home, false)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "rm: cannot remove 'ghost': No such file or directory")
	})

	t.Run("non-empty directory needs recursive", func(t *testing.T) {
		tree := NewDefault()
		before := tree.Version()

		err := tree.Remove("Projects", home, false)
		assert.ErrorIs(t, err, ErrIsDirectory)
		assert.EqualError(t, err, "rm: cannot remove 'Projects': is a directory")
		assert.Equal(t, before, tree.Version())

		_, ok := tree.GetNode("/home/parth/Projects/exovate.txt")
		assert.True(t, ok)

		require.NoError(t, tree.Remove("Projects", home, true))
		_, ok = tree.GetNode("/home/parth/Projects")
		assert.False(t, ok)
		_, err = tree.ReadFile("Projects/exovate.txt", home)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty directory without recursive", func(t *testing.T) {
		tree := NewDefault()
		require.NoError(t, tree.MakeDirectory("empty", home))
		require.NoError(t, tree.Remove("empty", home, false))
	})

	t.Run("subtree nodes are freed", func(t *testing.T) {
		tree := NewDefault()
		before := tree.Len()
		require.NoError(t, tree.Remove("Projects", home, true))
		assert.Equal(t, before-3, tree.Len())
	})
}

func TestNearestDir(t *testing.T) {
	tree := NewDefault()
	require.NoError(t, tree.MakeDirectory("Projects/demo", home))

	assert.Equal(t, "/home/parth/Projects/demo", tree.NearestDir("/home/parth/Projects/demo"))
	require.NoError(t, tree.Remove("/home/parth/Projects", home, true))
	assert.Equal(t, home, tree.NearestDir("/home/parth/Projects/demo"))
	assert.Equal(t, home, tree.NearestDir("/home/parth/welcome.txt/x"))
	assert.Equal(t, "/", tree.NearestDir("/nowhere"))
	assert.Equal(t, "/", tree.NearestDir("/"))
}

func TestRemovedIDsAreNotReused(t *testing.T) {
	tree := NewDefault()

	require.NoError(t, tree.WriteFile("a.txt", home, "a"))
	first, _ := tree.GetNode("/home/parth/a.txt")
	require.NoError(t, tree.Remove("a.txt", home, false))
	require.NoError(t, tree.WriteFile("a.txt", home, "b"))
	second, _ := tree.GetNode("/home/parth/a.txt")

	assert.NotEqual(t, first.ID, second.ID)
}

func TestVersionSignalsChange(t *testing.T) {
	tree := NewDefault()
	v := tree.Version()

	_, _ = tree.List(".", home)
	_, _ = tree.ReadFile("welcome.txt", home)
	assert.Equal(t, v, tree.Version(), "reads must not bump the version")

	require.NoError(t, tree.WriteFile("welcome.txt", home, "x"))
	assert.Greater(t, tree.Version(), v)
}

func TestListErrors(t *testing.T) {
	tree := NewDefault()

	_, err := tree.List("nope", home)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "ls: cannot access 'nope': No such file or directory")

	_, err = tree.List("welcome.txt", home)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestFind(t *testing.T) {
	tree := NewDefault()

	all, err := tree.Find("", ".", home)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/home/parth/Projects",
		"/home/parth/Projects/exovate.txt",
		"/home/parth/Projects/autoscaling-demo.txt",
		"/home/parth/Documents",
		"/home/parth/Documents/resume-summary.txt",
		"/home/parth/welcome.txt",
	}, all)

	txt, err := tree.Find("**/*.txt", "/", home)
	require.NoError(t, err)
	assert.Len(t, txt, 4)

	top, err := tree.Find("*.txt", ".", home)
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/parth/welcome.txt"}, top)

	_, err = tree.Find("[", ".", home)
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = tree.Find("*", "welcome.txt", home)
	assert.ErrorIs(t, err, ErrNotDirectory)
}
