package session

import (
	"fmt"
	"strings"

	"github.com/rstms/dfat"
)

// Session tracks the current directory of one browser over a loaded file
// system. The directory is kept as a path from the root and re-resolved on
// every use; directory blocks have no parent pointer, so `..` is applied to
// the path rather than followed on disk.
type Session struct {
	fs   dfat.FileSystem
	path []string
}

// New returns a session positioned at the root of fs.
func New(fs dfat.FileSystem) *Session {
	return &Session{fs: fs}
}

// Path returns a copy of the current path components.
func (s *Session) Path() []string {
	return append([]string(nil), s.path...)
}

// Pwd formats the current path as `/` or `/a/b`.
func (s *Session) Pwd() string {
	return "/" + strings.Join(s.path, "/")
}

// Components converts p into absolute components. Paths starting with `/`
// are absolute, everything else is relative to the current directory. `.`
// is skipped. Before `..` removes a component, the path built so far is
// resolved from the root and must be a directory; `..` at the root stays at
// the root.
func (s *Session) Components(p string) ([]string, error) {
	var components []string
	if !strings.HasPrefix(p, "/") {
		components = s.Path()
	}
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
		case "..":
			if len(components) == 0 {
				continue
			}
			listing, err := s.fs.Resolve(s.fs.Root(), components)
			if err != nil {
				return nil, err
			}
			if !listing.IsDir() {
				return nil, fmt.Errorf(
					"`%s` is not a directory: %w",
					"/"+strings.Join(components, "/"),
					dfat.ErrNotADirectory,
				)
			}
			components = components[:len(components)-1]
		default:
			components = append(components, part)
		}
	}
	return components, nil
}

// Resolve returns the listing for p.
func (s *Session) Resolve(p string) (dfat.Listing, error) {
	components, err := s.Components(p)
	if err != nil {
		return dfat.Listing{}, err
	}
	return s.fs.Resolve(s.fs.Root(), components)
}

// ChangeDirectory moves the session to p, which must resolve to a
// directory. The current path is unchanged on error.
func (s *Session) ChangeDirectory(p string) error {
	components, err := s.Components(p)
	if err != nil {
		return err
	}
	listing, err := s.fs.Resolve(s.fs.Root(), components)
	if err != nil {
		return err
	}
	if !listing.IsDir() {
		return fmt.Errorf("changing directory to `%s`: %w", p, dfat.ErrNotADirectory)
	}
	s.path = components
	return nil
}

// List returns the used listings of the current directory in slot order.
func (s *Session) List() ([]dfat.Listing, error) {
	listing, err := s.fs.Resolve(s.fs.Root(), s.path)
	if err != nil {
		return nil, err
	}
	return s.fs.Entries(listing.Block)
}

// ReadFile returns the content of the file at p.
func (s *Session) ReadFile(p string) ([]byte, error) {
	listing, err := s.Resolve(p)
	if err != nil {
		return nil, err
	}
	if !listing.IsFile() {
		return nil, fmt.Errorf("reading `%s`: %w", p, dfat.ErrNotAFile)
	}
	return s.fs.ReadFile(listing)
}
