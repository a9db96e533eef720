package fat

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/rstms/dfat"
)

// SplitPath breaks a slash separated path into its name components. Empty
// components (leading, trailing or doubled slashes) are dropped.
func SplitPath(p string) []string {
	parts := strings.Split(p, "/")
	components := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			components = append(components, part)
		}
	}
	return components
}

// SelfListing is the listing a directory block would have if something
// pointed at it. The root has no listing of its own.
func SelfListing(dir dfat.BlockID) dfat.Listing {
	return dfat.Listing{Kind: dfat.KindDirectory, Block: dir}
}

// lookup scans the slots of dir for a used listing named name. It returns the
// slot index along with the listing.
func lookup(listings []dfat.Listing, name string) (int, bool) {
	for i := range listings {
		if !listings[i].IsUnused() && listings[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Resolve walks components starting at the directory block anchor. Every
// component but the last must name a directory. The last component's listing
// is returned whatever its kind.
func (fs *FileSystem) Resolve(anchor dfat.BlockID, components []string) (dfat.Listing, error) {
	current := SelfListing(anchor)
	for i, name := range components {
		if !current.IsDir() {
			return dfat.Listing{}, fmt.Errorf(
				"resolving `%s`: `%s` is a %s: %w",
				strings.Join(components, "/"),
				strings.Join(components[:i], "/"),
				strings.ToLower(current.Kind.String()),
				dfat.ErrNotADirectory,
			)
		}
		listings, err := fs.readDirectory(current.Block)
		if err != nil {
			return dfat.Listing{}, fmt.Errorf(
				"resolving `%s`: %w",
				strings.Join(components, "/"),
				err,
			)
		}
		slot, ok := lookup(listings, name)
		if !ok {
			log.WithField("name", name).
				WithField("block", current.Block).
				Debug("component not found")
			return dfat.Listing{}, fmt.Errorf(
				"resolving `%s`: `%s`: %w",
				strings.Join(components, "/"),
				strings.Join(components[:i+1], "/"),
				dfat.ErrNotFound,
			)
		}
		current = listings[slot]
	}
	return current, nil
}

// Entries returns the used listings of the directory block dir in slot
// order.
func (fs *FileSystem) Entries(dir dfat.BlockID) ([]dfat.Listing, error) {
	listings, err := fs.readDirectory(dir)
	if err != nil {
		return nil, err
	}
	result := make([]dfat.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.IsUnused() {
			result = append(result, l)
		}
	}
	return result, nil
}
