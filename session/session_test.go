package session

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rstms/dfat"
	"github.com/rstms/dfat/fat"
)

// newTestDisk builds TESTDISK:
//
//	/docs/
//	/docs/guide/
//	/docs/guide/intro.txt
//	/readme.txt
func newTestDisk(t *testing.T) *fat.FileSystem {
	t.Helper()
	disk, err := dfat.CreateFileDisk(afero.NewMemMapFs(), "test.img", dfat.DefaultBlockSize, 64)
	require.Nil(t, err)
	t.Cleanup(func() { disk.Close() })
	require.Nil(t, fat.Format(disk, "TESTDISK"))
	fs, err := fat.New(disk)
	require.Nil(t, err)

	docs, err := fs.MakeDirectory(fs.Root(), "docs")
	require.Nil(t, err)
	guide, err := fs.MakeDirectory(docs.Block, "guide")
	require.Nil(t, err)
	_, err = fs.WriteFile(guide.Block, "intro.txt", []byte("welcome"))
	require.Nil(t, err)
	_, err = fs.WriteFile(fs.Root(), "readme.txt", []byte("hello docs"))
	require.Nil(t, err)
	return fs
}

func TestBrowse(t *testing.T) {
	fs := newTestDisk(t)
	require.Equal(t, "TESTDISK", fs.Label())

	s := New(fs)
	require.Equal(t, "/", s.Pwd())

	listings, err := s.List()
	require.Nil(t, err)
	require.Len(t, listings, 2)
	require.Equal(t, "docs", listings[0].Name)
	require.Equal(t, dfat.KindDirectory, listings[0].Kind)
	require.Equal(t, "readme.txt", listings[1].Name)
	require.Equal(t, dfat.KindFile, listings[1].Kind)
	require.Equal(t, uint32(10), listings[1].Size)

	require.Nil(t, s.ChangeDirectory("docs"))
	require.Equal(t, "/docs", s.Pwd())

	data, err := s.ReadFile("/readme.txt")
	require.Nil(t, err)
	require.Equal(t, "hello docs", string(data))

	err = s.ChangeDirectory("missing")
	require.True(t, errors.Is(err, dfat.ErrNotFound))
	require.Equal(t, "/docs", s.Pwd())
}

func TestChangeDirectory(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)

	type testCase struct {
		path   string
		wanted string
	}
	for _, tc := range []testCase{
		{"docs/guide", "/docs/guide"},
		{"..", "/docs"},
		{"..", "/"},
		{"..", "/"},
		{"/docs/guide", "/docs/guide"},
		{"../../docs", "/docs"},
		{".", "/docs"},
		{"./guide/", "/docs/guide"},
		{"/", "/"},
	} {
		require.Nil(t, s.ChangeDirectory(tc.path), tc.path)
		require.Equal(t, tc.wanted, s.Pwd(), tc.path)
	}
}

func TestChangeDirectoryErrors(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)
	require.Nil(t, s.ChangeDirectory("docs"))

	err := s.ChangeDirectory("/readme.txt")
	require.True(t, errors.Is(err, dfat.ErrNotADirectory))
	require.Equal(t, "/docs", s.Pwd())

	err = s.ChangeDirectory("/readme.txt/x")
	require.True(t, errors.Is(err, dfat.ErrNotADirectory))

	err = s.ChangeDirectory("Guide")
	require.True(t, errors.Is(err, dfat.ErrNotFound))
	require.Equal(t, []string{"docs"}, s.Path())
}

func TestChangeDirectoryDotDotChecksPath(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)

	type testCase struct {
		path      string
		wantedErr error
	}
	for _, tc := range []testCase{
		{"missing/..", dfat.ErrNotFound},
		{"/readme.txt/..", dfat.ErrNotADirectory},
		{"readme.txt/..", dfat.ErrNotADirectory},
		{"docs/missing/../guide", dfat.ErrNotFound},
		{"docs/guide/intro.txt/../..", dfat.ErrNotADirectory},
	} {
		err := s.ChangeDirectory(tc.path)
		require.True(t, errors.Is(err, tc.wantedErr), "%s: %v", tc.path, err)
		require.Equal(t, "/", s.Pwd(), tc.path)

		_, err = s.ReadFile(tc.path)
		require.True(t, errors.Is(err, tc.wantedErr), "%s: %v", tc.path, err)
	}

	require.Nil(t, s.ChangeDirectory("docs/guide/../guide/.."))
	require.Equal(t, "/docs", s.Pwd())
}

func TestComponents(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)
	require.Nil(t, s.ChangeDirectory("docs"))

	type testCase struct {
		path   string
		wanted []string
	}
	for _, tc := range []testCase{
		{"", []string{"docs"}},
		{".", []string{"docs"}},
		{"guide", []string{"docs", "guide"}},
		{"/", nil},
		{"..", []string{}},
		{"../../..", []string{}},
		{"/docs/./guide/", []string{"docs", "guide"}},
		{"missing", []string{"docs", "missing"}},
	} {
		components, err := s.Components(tc.path)
		require.Nil(t, err, tc.path)
		require.Equal(t, tc.wanted, components, tc.path)
	}
}

func TestReadFile(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)

	data, err := s.ReadFile("docs/guide/intro.txt")
	require.Nil(t, err)
	require.Equal(t, "welcome", string(data))

	require.Nil(t, s.ChangeDirectory("docs/guide"))
	data, err = s.ReadFile("intro.txt")
	require.Nil(t, err)
	require.Equal(t, "welcome", string(data))

	data, err = s.ReadFile("../../readme.txt")
	require.Nil(t, err)
	require.Equal(t, "hello docs", string(data))

	_, err = s.ReadFile("/docs")
	require.True(t, errors.Is(err, dfat.ErrNotAFile))

	_, err = s.ReadFile("missing.txt")
	require.True(t, errors.Is(err, dfat.ErrNotFound))
}

func TestSessionsAreIndependent(t *testing.T) {
	fs := newTestDisk(t)
	a := New(fs)
	b := New(fs)

	require.Nil(t, a.ChangeDirectory("docs/guide"))
	require.Equal(t, "/docs/guide", a.Pwd())
	require.Equal(t, "/", b.Pwd())

	listings, err := b.List()
	require.Nil(t, err)
	require.Len(t, listings, 2)

	listings, err = a.List()
	require.Nil(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, "intro.txt", listings[0].Name)
}

func TestPathIsACopy(t *testing.T) {
	fs := newTestDisk(t)
	s := New(fs)
	require.Nil(t, s.ChangeDirectory("docs"))
	path := s.Path()
	path[0] = "changed"
	require.Equal(t, "/docs", s.Pwd())
}
