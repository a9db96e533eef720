package fat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/rstms/dfat"
)

// All multi-byte fields are little endian.

func putU16(b []byte, start int, u uint16) {
	binary.LittleEndian.PutUint16(b[start:start+2], u)
}

func getU16(b []byte, start int) uint16 {
	return binary.LittleEndian.Uint16(b[start : start+2])
}

func putU32(b []byte, start int, u uint32) {
	binary.LittleEndian.PutUint32(b[start:start+4], u)
}

func getU32(b []byte, start int) uint32 {
	return binary.LittleEndian.Uint32(b[start : start+4])
}

const (
	listingKindStart = 0
	listingKindSize  = 2
	listingKindEnd   = listingKindStart + listingKindSize

	listingBlockStart = listingKindEnd
	listingBlockSize  = 2
	listingBlockEnd   = listingBlockStart + listingBlockSize

	listingSizeStart = listingBlockEnd
	listingSizeSize  = 4
	listingSizeEnd   = listingSizeStart + listingSizeSize

	listingNameStart = listingSizeEnd
	listingNameSize  = dfat.NameSize
	listingNameEnd   = listingNameStart + listingNameSize
)

// compile time check that the field layout fills a listing exactly
var _ [dfat.ListingSize - listingNameEnd]struct{}
var _ [listingNameEnd - dfat.ListingSize]struct{}

// ValidateName checks a name for use in a new listing. Names are
// case-sensitive and never truncated.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", dfat.ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("reserved name `%s`: %w", name, dfat.ErrInvalidName)
	case len(name) > dfat.NameSize:
		return fmt.Errorf(
			"name `%s` longer than %d bytes: %w",
			name,
			dfat.NameSize,
			dfat.ErrInvalidName,
		)
	case strings.ContainsAny(name, "/\x00"):
		return fmt.Errorf("name `%q` contains `/` or NUL: %w", name, dfat.ErrInvalidName)
	}
	return nil
}

// EncodeListing writes l into p. The name is zero padded.
func EncodeListing(l *dfat.Listing, p *[dfat.ListingSize]byte) error {
	if err := l.Kind.Validate(); err != nil {
		return fmt.Errorf("encoding listing `%s`: %w", l.Name, err)
	}
	if len(l.Name) > dfat.NameSize || strings.IndexByte(l.Name, 0) >= 0 {
		return fmt.Errorf(
			"encoding listing `%q`: name does not fit %d byte field: %w",
			l.Name,
			dfat.NameSize,
			dfat.ErrMalformedRecord,
		)
	}

	b := p[:]
	putU16(b, listingKindStart, uint16(l.Kind))
	putU16(b, listingBlockStart, uint16(l.Block))
	putU32(b, listingSizeStart, l.Size)
	name := b[listingNameStart:listingNameEnd]
	for i := range name {
		name[i] = 0
	}
	copy(name, l.Name)
	return nil
}

// DecodeListing reads a listing from p. The pointee is only modified when no
// error is returned.
func DecodeListing(l *dfat.Listing, p *[dfat.ListingSize]byte) error {
	b := p[:]
	kind := dfat.Kind(getU16(b, listingKindStart))
	if err := kind.Validate(); err != nil {
		return fmt.Errorf("decoding listing: %w", err)
	}

	name := b[listingNameStart:listingNameEnd]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if kind != dfat.KindUnused && len(name) == 0 {
		return fmt.Errorf(
			"decoding %s listing with empty name: %w",
			kind,
			dfat.ErrMalformedRecord,
		)
	}

	l.Kind = kind
	l.Block = dfat.BlockID(getU16(b, listingBlockStart))
	l.Size = getU32(b, listingSizeStart)
	l.Name = string(name)
	return nil
}

func checkBlock(raw []byte, blockSize int) error {
	if err := dfat.ValidateBlockSize(blockSize); err != nil {
		return err
	}
	if len(raw) != blockSize {
		return fmt.Errorf(
			"record of `%d` bytes for block size `%d`: %w",
			len(raw),
			blockSize,
			dfat.ErrMalformedRecord,
		)
	}
	return nil
}

// ListingsPerBlock returns the number of directory slots in one block.
func ListingsPerBlock(blockSize int) int {
	return blockSize / dfat.ListingSize
}

// EncodeDirectory writes listings into raw in slot order and zeroes the
// remaining slots.
func EncodeDirectory(listings []dfat.Listing, raw []byte) error {
	if err := checkBlock(raw, len(raw)); err != nil {
		return err
	}
	slots := ListingsPerBlock(len(raw))
	if len(listings) > slots {
		return fmt.Errorf(
			"encoding `%d` listings into `%d` slots: %w",
			len(listings),
			slots,
			dfat.ErrMalformedRecord,
		)
	}
	for i := range raw {
		raw[i] = 0
	}
	for i := range listings {
		start := i * dfat.ListingSize
		if err := EncodeListing(
			&listings[i],
			(*[dfat.ListingSize]byte)(raw[start:start+dfat.ListingSize]),
		); err != nil {
			return fmt.Errorf("encoding directory slot `%d`: %w", i, err)
		}
	}
	return nil
}

// DecodeDirectory returns every slot of a directory block, used or not.
func DecodeDirectory(raw []byte) ([]dfat.Listing, error) {
	if err := checkBlock(raw, len(raw)); err != nil {
		return nil, err
	}
	listings := make([]dfat.Listing, ListingsPerBlock(len(raw)))
	for i := range listings {
		start := i * dfat.ListingSize
		if err := DecodeListing(
			&listings[i],
			(*[dfat.ListingSize]byte)(raw[start:start+dfat.ListingSize]),
		); err != nil {
			return nil, fmt.Errorf("decoding directory slot `%d`: %w", i, err)
		}
	}
	return listings, nil
}

// EncodeLabel writes a NUL terminated label. A label that fills the whole
// block is stored without a terminator.
func EncodeLabel(label string, raw []byte) error {
	if err := checkBlock(raw, len(raw)); err != nil {
		return err
	}
	if len(label) > len(raw) || strings.IndexByte(label, 0) >= 0 {
		return fmt.Errorf(
			"encoding label of `%d` bytes into `%d` byte block: %w",
			len(label),
			len(raw),
			dfat.ErrMalformedRecord,
		)
	}
	for i := range raw {
		raw[i] = 0
	}
	copy(raw, label)
	return nil
}

func DecodeLabel(raw []byte) (string, error) {
	if err := checkBlock(raw, len(raw)); err != nil {
		return "", err
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		return string(raw[:i]), nil
	}
	return string(raw), nil
}

// EncodeTable writes one entry per addressable block. Entries past the end of
// the slice are written as InUse so they are never handed out.
func EncodeTable(entries []Entry, raw []byte) error {
	if err := checkBlock(raw, len(raw)); err != nil {
		return err
	}
	capacity := TableCapacity(len(raw))
	if len(entries) > capacity {
		return fmt.Errorf(
			"encoding `%d` table entries into capacity `%d`: %w",
			len(entries),
			capacity,
			dfat.ErrMalformedRecord,
		)
	}
	for i := 0; i < capacity; i++ {
		entry := InUse
		if i < len(entries) {
			entry = entries[i]
			if err := entry.Validate(); err != nil {
				return fmt.Errorf("encoding table entry `%d`: %w", i, err)
			}
		}
		putU16(raw, i*dfat.EntrySize, uint16(entry))
	}
	return nil
}

func DecodeTable(raw []byte) ([]Entry, error) {
	if err := checkBlock(raw, len(raw)); err != nil {
		return nil, err
	}
	entries := make([]Entry, TableCapacity(len(raw)))
	for i := range entries {
		entry := Entry(getU16(raw, i*dfat.EntrySize))
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("decoding table entry `%d`: %w", i, err)
		}
		entries[i] = entry
	}
	return entries, nil
}
