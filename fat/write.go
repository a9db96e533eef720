package fat

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rstms/dfat"
)

// prepareSlot reads dir, checks that name is valid and unused, and returns
// the listings with the index of the first unused slot.
func (fs *FileSystem) prepareSlot(dir dfat.BlockID, name string) ([]dfat.Listing, int, error) {
	if err := ValidateName(name); err != nil {
		return nil, 0, err
	}
	listings, err := fs.readDirectory(dir)
	if err != nil {
		return nil, 0, err
	}
	if _, ok := lookup(listings, name); ok {
		return nil, 0, fmt.Errorf("`%s`: %w", name, dfat.ErrExists)
	}
	for i := range listings {
		if listings[i].IsUnused() {
			return listings, i, nil
		}
	}
	return nil, 0, fmt.Errorf(
		"directory block `%d` has no unused slot for `%s`: %w",
		dir,
		name,
		dfat.ErrDirectoryFull,
	)
}

// MakeDirectory creates an empty directory named name inside dir.
func (fs *FileSystem) MakeDirectory(dir dfat.BlockID, name string) (dfat.Listing, error) {
	listings, slot, err := fs.prepareSlot(dir, name)
	if err != nil {
		return dfat.Listing{}, fmt.Errorf("making directory: %w", err)
	}

	block, err := fs.fat.FindContiguousFree(1)
	if err != nil {
		return dfat.Listing{}, fmt.Errorf("making directory `%s`: %w", name, err)
	}
	if err := fs.writeDirectory(block, nil); err != nil {
		return dfat.Listing{}, fmt.Errorf("making directory `%s`: %w", name, err)
	}
	if err := fs.fat.MarkRange(block, 1, InUse); err != nil {
		return dfat.Listing{}, fmt.Errorf("making directory `%s`: %w", name, err)
	}

	listing := dfat.Listing{Kind: dfat.KindDirectory, Block: block, Name: name}
	if err := fs.commit(dir, listings, slot, listing); err != nil {
		fs.release(block, 1)
		return dfat.Listing{}, fmt.Errorf("making directory `%s`: %w", name, err)
	}
	return listing, nil
}

// WriteFile creates a file named name inside dir holding data. The content
// is stored in one contiguous run of blocks.
func (fs *FileSystem) WriteFile(dir dfat.BlockID, name string, data []byte) (dfat.Listing, error) {
	if uint64(len(data)) > uint64(^uint32(0)) {
		return dfat.Listing{}, fmt.Errorf(
			"writing `%s`: `%d` bytes exceeds the size field: %w",
			name,
			len(data),
			dfat.ErrDiskFull,
		)
	}
	listings, slot, err := fs.prepareSlot(dir, name)
	if err != nil {
		return dfat.Listing{}, fmt.Errorf("writing file: %w", err)
	}

	blockSize := fs.BlockSize()
	size := uint32(len(data))
	count := ChunkCount(size, blockSize)
	listing := dfat.Listing{Kind: dfat.KindFile, Size: size, Name: name}

	if count > 0 {
		start, err := fs.fat.FindContiguousFree(count)
		if err != nil {
			return dfat.Listing{}, fmt.Errorf("writing `%s`: %w", name, err)
		}
		raw := make([]byte, blockSize)
		for i := 0; i < count; i++ {
			for j := range raw {
				raw[j] = 0
			}
			copy(raw, data[i*blockSize:])
			if err := fs.device.WriteBlock(int(start)+i, raw); err != nil {
				return dfat.Listing{}, fmt.Errorf("writing `%s`: %w", name, err)
			}
		}
		if err := fs.fat.MarkRange(start, count, InUse); err != nil {
			return dfat.Listing{}, fmt.Errorf("writing `%s`: %w", name, err)
		}
		listing.Block = start
	}

	if err := fs.commit(dir, listings, slot, listing); err != nil {
		fs.release(listing.Block, count)
		return dfat.Listing{}, fmt.Errorf("writing `%s`: %w", name, err)
	}
	log.WithField("name", name).
		WithField("block", listing.Block).
		WithField("size", size).
		Debug("wrote file")
	return listing, nil
}

// commit stores listing in slot, then writes the directory block and the
// table.
func (fs *FileSystem) commit(dir dfat.BlockID, listings []dfat.Listing, slot int, listing dfat.Listing) error {
	listings[slot] = listing
	if err := fs.writeDirectory(dir, listings); err != nil {
		return err
	}
	return fs.fat.Flush(fs.device)
}

// release returns a run marked InUse by a failed operation to the free pool
// in memory.
func (fs *FileSystem) release(start dfat.BlockID, count int) {
	if count == 0 {
		return
	}
	if err := fs.fat.MarkRange(start, count, Free); err != nil {
		log.WithError(err).
			WithField("block", start).
			WithField("count", count).
			Warn("release failed")
	}
}

// Remove deletes the listing named name from dir and frees its blocks.
// Directories must be empty.
func (fs *FileSystem) Remove(dir dfat.BlockID, name string) error {
	listings, err := fs.readDirectory(dir)
	if err != nil {
		return fmt.Errorf("removing `%s`: %w", name, err)
	}
	slot, ok := lookup(listings, name)
	if !ok {
		return fmt.Errorf("removing `%s`: %w", name, dfat.ErrNotFound)
	}
	target := listings[slot]

	var count int
	switch target.Kind {
	case dfat.KindDirectory:
		children, err := fs.Entries(target.Block)
		if err != nil {
			return fmt.Errorf("removing `%s`: %w", name, err)
		}
		if len(children) > 0 {
			return fmt.Errorf("removing `%s`: %w", name, dfat.ErrNotEmpty)
		}
		count = 1
	case dfat.KindFile:
		count = ChunkCount(target.Size, fs.BlockSize())
	}

	if count > 0 {
		if err := fs.fat.CheckRun(target.Block, count); err != nil {
			return fmt.Errorf("removing `%s`: %w", name, err)
		}
		if err := fs.fat.MarkRange(target.Block, count, Free); err != nil {
			return fmt.Errorf("removing `%s`: %w", name, err)
		}
	}
	if err := fs.commit(dir, listings, slot, dfat.Listing{}); err != nil {
		if count > 0 {
			fs.fat.MarkRange(target.Block, count, InUse)
		}
		return fmt.Errorf("removing `%s`: %w", name, err)
	}
	return nil
}
