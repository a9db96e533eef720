package dfat

import "fmt"

// BlockID identifies a block by its zero-based position on the device.
type BlockID uint16

// Kind is the type tag of a directory listing.
type Kind uint16

const (
	KindUnused    Kind = 0x0000
	KindDirectory Kind = 0x0002
	KindFile      Kind = 0x0003
)

func (k Kind) String() string {
	switch k {
	case KindUnused:
		return "Unused"
	case KindDirectory:
		return "Directory"
	case KindFile:
		return "File"
	default:
		return fmt.Sprintf("Kind(0x%04x)", uint16(k))
	}
}

func (k Kind) Validate() error {
	switch k {
	case KindUnused, KindDirectory, KindFile:
		return nil
	}
	return fmt.Errorf("validating listing kind `0x%04x`: %w", uint16(k), ErrMalformedRecord)
}

// Listing is a single slot of a directory block. Block is the first block of
// the referenced item and Size is the byte length of a file (zero for
// directories).
type Listing struct {
	Kind  Kind
	Block BlockID
	Size  uint32
	Name  string
}

func (l Listing) IsDir() bool {
	return l.Kind == KindDirectory
}

func (l Listing) IsFile() bool {
	return l.Kind == KindFile
}

func (l Listing) IsUnused() bool {
	return l.Kind == KindUnused
}
