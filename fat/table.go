package fat

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rstms/dfat"
)

// Entry is the allocation state of one block.
type Entry uint16

const (
	DiskLabel  Entry = 0x0000
	TableBlock Entry = 0x0001
	InUse      Entry = 0xfefe
	Free       Entry = 0xffff
)

func (e Entry) String() string {
	switch e {
	case DiskLabel:
		return "DiskLabel"
	case TableBlock:
		return "TableBlock"
	case InUse:
		return "InUse"
	case Free:
		return "Free"
	default:
		return fmt.Sprintf("Entry(0x%04x)", uint16(e))
	}
}

func (e Entry) Validate() error {
	switch e {
	case DiskLabel, TableBlock, InUse, Free:
		return nil
	}
	return fmt.Errorf("validating table entry `0x%04x`: %w", uint16(e), dfat.ErrMalformedRecord)
}

// TableCapacity is the number of blocks a single table block can describe.
func TableCapacity(blockSize int) int {
	return blockSize / dfat.EntrySize
}

// FAT is the in-memory allocation table. It is read once at load time and
// only written back by Flush.
type FAT struct {
	entries   []Entry
	blockSize int
}

// NewFAT returns a table for a freshly formatted device of blocks blocks.
func NewFAT(blockSize, blocks int) (*FAT, error) {
	if err := dfat.ValidateBlockSize(blockSize); err != nil {
		return nil, err
	}
	if blocks > TableCapacity(blockSize) {
		return nil, fmt.Errorf(
			"device of `%d` blocks exceeds table capacity `%d`: %w",
			blocks,
			TableCapacity(blockSize),
			dfat.ErrOutOfRange,
		)
	}
	if blocks <= int(dfat.RootBlock) {
		return nil, fmt.Errorf(
			"device of `%d` blocks has no room for a root directory: %w",
			blocks,
			dfat.ErrDiskFull,
		)
	}
	entries := make([]Entry, blocks)
	for i := range entries {
		entries[i] = Free
	}
	entries[dfat.LabelBlock] = DiskLabel
	entries[dfat.TableBlockID] = TableBlock
	entries[dfat.RootBlock] = InUse
	return &FAT{entries: entries, blockSize: blockSize}, nil
}

// LoadFAT reads and validates the table block of device.
func LoadFAT(device dfat.BlockDevice) (*FAT, error) {
	blockSize := device.BlockSize()
	raw := make([]byte, blockSize)
	if err := device.ReadBlock(int(dfat.TableBlockID), raw); err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}
	entries, err := DecodeTable(raw)
	if err != nil {
		return nil, fmt.Errorf("loading table: %v: %w", err, dfat.ErrLoad)
	}

	// blocks past the end of the device are never addressable
	if count := device.BlockCount(); count < len(entries) {
		entries = entries[:count]
	}
	if len(entries) <= int(dfat.RootBlock) {
		return nil, fmt.Errorf(
			"loading table: device of `%d` blocks is too small: %w",
			len(entries),
			dfat.ErrLoad,
		)
	}

	if err := validateRoles(entries); err != nil {
		return nil, fmt.Errorf("loading table: %w", err)
	}

	fat := &FAT{entries: entries, blockSize: blockSize}
	log.WithField("blocks", fat.Count()).
		WithField("free", fat.FreeCount()).
		Debug("loaded allocation table")
	return fat, nil
}

func validateRoles(entries []Entry) error {
	if entries[dfat.LabelBlock] != DiskLabel {
		return fmt.Errorf(
			"block `%d` is `%s`, wanted `%s`: %w",
			dfat.LabelBlock,
			entries[dfat.LabelBlock],
			DiskLabel,
			dfat.ErrLoad,
		)
	}
	if entries[dfat.TableBlockID] != TableBlock {
		return fmt.Errorf(
			"block `%d` is `%s`, wanted `%s`: %w",
			dfat.TableBlockID,
			entries[dfat.TableBlockID],
			TableBlock,
			dfat.ErrLoad,
		)
	}
	if entries[dfat.RootBlock] != InUse {
		return fmt.Errorf(
			"root block `%d` is `%s`: %w",
			dfat.RootBlock,
			entries[dfat.RootBlock],
			dfat.ErrLoad,
		)
	}
	for i := int(dfat.RootBlock) + 1; i < len(entries); i++ {
		if entries[i] == DiskLabel || entries[i] == TableBlock {
			return fmt.Errorf(
				"block `%d` claims reserved role `%s`: %w",
				i,
				entries[i],
				dfat.ErrLoad,
			)
		}
	}
	return nil
}

// Count is the number of addressable blocks.
func (f *FAT) Count() int { return len(f.entries) }

// Capacity is the number of entries the table block can hold.
func (f *FAT) Capacity() int { return TableCapacity(f.blockSize) }

func (f *FAT) FreeCount() int {
	var n int
	for _, e := range f.entries {
		if e == Free {
			n++
		}
	}
	return n
}

func (f *FAT) checkRange(start dfat.BlockID, count int) error {
	if count < 0 || int(start)+count > len(f.entries) {
		return fmt.Errorf(
			"blocks `%d..%d` outside table of `%d` blocks: %w",
			start,
			int(start)+count-1,
			len(f.entries),
			dfat.ErrOutOfRange,
		)
	}
	return nil
}

// Classify returns the allocation entry of block id.
func (f *FAT) Classify(id dfat.BlockID) (Entry, error) {
	if err := f.checkRange(id, 1); err != nil {
		return 0, err
	}
	return f.entries[id], nil
}

// FindContiguousFree returns the lowest block starting a run of count free
// blocks.
func (f *FAT) FindContiguousFree(count int) (dfat.BlockID, error) {
	if count <= 0 {
		return 0, fmt.Errorf("finding run of `%d` blocks: %w", count, dfat.ErrOutOfRange)
	}
	run := 0
	for i, e := range f.entries {
		if e != Free {
			run = 0
			continue
		}
		run++
		if run == count {
			return dfat.BlockID(i - count + 1), nil
		}
	}
	return 0, fmt.Errorf(
		"finding run of `%d` free blocks: %w",
		count,
		dfat.ErrDiskFull,
	)
}

// MarkRange sets count entries from start to entry, which must be InUse or
// Free. Reserved blocks cannot be remarked. Nothing is written to the device.
func (f *FAT) MarkRange(start dfat.BlockID, count int, entry Entry) error {
	if entry != InUse && entry != Free {
		return fmt.Errorf("marking blocks: `%s` is not InUse or Free", entry)
	}
	if err := f.checkRange(start, count); err != nil {
		return err
	}
	if count > 0 && start <= dfat.RootBlock {
		return fmt.Errorf("marking reserved block `%d` as `%s`", start, entry)
	}
	for i := int(start); i < int(start)+count; i++ {
		f.entries[i] = entry
	}
	return nil
}

// CheckRun returns ErrCorruptAllocation unless every block in the run is
// InUse.
func (f *FAT) CheckRun(start dfat.BlockID, count int) error {
	if err := f.checkRange(start, count); err != nil {
		return fmt.Errorf("%v: %w", err, dfat.ErrCorruptAllocation)
	}
	for i := int(start); i < int(start)+count; i++ {
		if f.entries[i] != InUse {
			return fmt.Errorf(
				"block `%d` is `%s`: %w",
				i,
				f.entries[i],
				dfat.ErrCorruptAllocation,
			)
		}
	}
	return nil
}

// Entries returns a copy of the table.
func (f *FAT) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Flush writes the table to its block on device.
func (f *FAT) Flush(device dfat.BlockDevice) error {
	raw := make([]byte, f.blockSize)
	if err := EncodeTable(f.entries, raw); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	if err := device.WriteBlock(int(dfat.TableBlockID), raw); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}
