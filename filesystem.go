package dfat

import "fmt"

const (
	// DefaultBlockSize is the block size of the reference layout.
	DefaultBlockSize = 512

	// ListingSize is the encoded size of one directory listing.
	ListingSize = 32

	// NameSize is the capacity of a listing's name field.
	NameSize = 24

	// EntrySize is the encoded size of one allocation table entry.
	EntrySize = 2

	MinBlockSize = 2 * ListingSize
	MaxBlockSize = EntrySize * (1 << 16)
)

// Fixed block roles. The root directory is not referenced by any listing;
// it always lives immediately after the single table block.
const (
	LabelBlock   BlockID = 0
	TableBlockID BlockID = 1
	RootBlock    BlockID = 2
)

// ValidateBlockSize checks that size can hold whole listings and that every
// table index fits in a BlockID.
func ValidateBlockSize(size int) error {
	if size < MinBlockSize || size > MaxBlockSize || size%ListingSize != 0 {
		return fmt.Errorf(
			"block size `%d` must be a multiple of %d between %d and %d: %w",
			size,
			ListingSize,
			MinBlockSize,
			MaxBlockSize,
			ErrMalformedRecord,
		)
	}
	return nil
}

// A FileSystem provides read access to a loaded dFAT volume.
type FileSystem interface {
	// Label returns the volume name read at load time.
	Label() string

	// Root returns the block of the root directory.
	Root() BlockID

	// BlockSize returns the block size of the underlying device.
	BlockSize() int

	// Resolve walks components from the directory at anchor and returns the
	// listing of the last component.
	Resolve(anchor BlockID, components []string) (Listing, error)

	// Entries returns the used slots of the directory at dir, in slot order.
	Entries(dir BlockID) ([]Listing, error)

	// ReadFile returns the exact content of a file listing.
	ReadFile(listing Listing) ([]byte, error)
}
