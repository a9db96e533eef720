package fat

import (
	"fmt"

	"github.com/rstms/dfat"
)

// RecordKind selects how a raw block is interpreted. Blocks carry no tag of
// their own; the caller knows the shape from the table and the traversal.
type RecordKind int

const (
	RecordLabel RecordKind = iota
	RecordTable
	RecordDirectory
	RecordChunk
)

func (k RecordKind) String() string {
	switch k {
	case RecordLabel:
		return "Label"
	case RecordTable:
		return "Table"
	case RecordDirectory:
		return "Directory"
	case RecordChunk:
		return "Chunk"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// Block is one of the four record shapes a block may hold.
type Block interface {
	isBlock()
}

type Label string
type Table []Entry
type DirectoryBlock []dfat.Listing
type Chunk []byte

func (Label) isBlock()          {}
func (Table) isBlock()          {}
func (DirectoryBlock) isBlock() {}
func (Chunk) isBlock()          {}

var (
	_ Block = Label("")
	_ Block = (Table)(nil)
	_ Block = (DirectoryBlock)(nil)
	_ Block = (Chunk)(nil)
)

// Decode interprets raw as the requested record shape.
func Decode(raw []byte, kind RecordKind) (Block, error) {
	switch kind {
	case RecordLabel:
		label, err := DecodeLabel(raw)
		if err != nil {
			return nil, err
		}
		return Label(label), nil
	case RecordTable:
		entries, err := DecodeTable(raw)
		if err != nil {
			return nil, err
		}
		return Table(entries), nil
	case RecordDirectory:
		listings, err := DecodeDirectory(raw)
		if err != nil {
			return nil, err
		}
		return DirectoryBlock(listings), nil
	case RecordChunk:
		if err := checkBlock(raw, len(raw)); err != nil {
			return nil, err
		}
		chunk := make(Chunk, len(raw))
		copy(chunk, raw)
		return chunk, nil
	default:
		return nil, fmt.Errorf("decoding %s: %w", kind, dfat.ErrMalformedRecord)
	}
}

// Encode returns a fresh, zero padded block holding b.
func Encode(b Block, blockSize int) ([]byte, error) {
	if err := dfat.ValidateBlockSize(blockSize); err != nil {
		return nil, err
	}
	raw := make([]byte, blockSize)
	var err error
	switch b := b.(type) {
	case Label:
		err = EncodeLabel(string(b), raw)
	case Table:
		err = EncodeTable(b, raw)
	case DirectoryBlock:
		err = EncodeDirectory(b, raw)
	case Chunk:
		if len(b) > blockSize {
			err = fmt.Errorf(
				"encoding chunk of `%d` bytes into `%d` byte block: %w",
				len(b),
				blockSize,
				dfat.ErrMalformedRecord,
			)
		}
		copy(raw, b)
	default:
		err = fmt.Errorf("encoding %T: %w", b, dfat.ErrMalformedRecord)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
