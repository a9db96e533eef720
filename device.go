package dfat

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Stats counts block level device operations.
type Stats struct {
	Reads  int
	Writes int
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"===== Disk usage statistics =====\n"+
			" Total block reads:  %d\n"+
			" Total block writes: %d\n"+
			"=================================\n",
		s.Reads,
		s.Writes,
	)
}

// BlockDevice reads and writes fixed size blocks addressed from zero.
type BlockDevice interface {
	BlockSize() int
	BlockCount() int
	ReadBlock(n int, dst []byte) error
	WriteBlock(n int, src []byte) error
	Stats() Stats
	Close() error
}

// FileDisk is a BlockDevice backed by a file.
type FileDisk struct {
	file      afero.File
	blockSize int
	blocks    int
	stats     Stats
}

// ensure FileDisk implements BlockDevice
var _ BlockDevice = (*FileDisk)(nil)

// NewFileDisk wraps an open file. The number of blocks is taken from the file
// size; a trailing partial block is not addressable.
func NewFileDisk(file afero.File, blockSize int) (*FileDisk, error) {
	if err := ValidateBlockSize(blockSize); err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat `%s`: %v: %w", file.Name(), err, ErrIO)
	}
	return &FileDisk{
		file:      file,
		blockSize: blockSize,
		blocks:    int(info.Size() / int64(blockSize)),
	}, nil
}

// OpenFileDisk opens an existing image file for reading and writing.
func OpenFileDisk(fs afero.Fs, name string, blockSize int) (*FileDisk, error) {
	file, err := fs.OpenFile(name, os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening disk `%s`: %v: %w", name, err, ErrIO)
	}
	disk, err := NewFileDisk(file, blockSize)
	if err != nil {
		file.Close()
		return nil, err
	}
	return disk, nil
}

// CreateFileDisk creates (or truncates) an image file holding blocks zeroed
// blocks.
func CreateFileDisk(fs afero.Fs, name string, blockSize, blocks int) (*FileDisk, error) {
	if err := ValidateBlockSize(blockSize); err != nil {
		return nil, err
	}
	file, err := fs.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("creating disk `%s`: %v: %w", name, err, ErrIO)
	}
	if err := file.Truncate(int64(blockSize) * int64(blocks)); err != nil {
		file.Close()
		return nil, fmt.Errorf("sizing disk `%s`: %v: %w", name, err, ErrIO)
	}
	return NewFileDisk(file, blockSize)
}

func (d *FileDisk) BlockSize() int { return d.blockSize }

func (d *FileDisk) BlockCount() int { return d.blocks }

func (d *FileDisk) Stats() Stats { return d.stats }

func (d *FileDisk) check(n int, buf []byte) error {
	if d.file == nil {
		return fmt.Errorf("disk is closed: %w", ErrIO)
	}
	if n < 0 || n >= d.blocks {
		return fmt.Errorf(
			"block `%d` outside disk of `%d` blocks: %w",
			n,
			d.blocks,
			ErrIO,
		)
	}
	if len(buf) != d.blockSize {
		return fmt.Errorf(
			"buffer of `%d` bytes for block size `%d`: %w",
			len(buf),
			d.blockSize,
			ErrIO,
		)
	}
	return nil
}

func (d *FileDisk) ReadBlock(n int, dst []byte) error {
	if err := d.check(n, dst); err != nil {
		return err
	}
	d.stats.Reads++
	if _, err := d.file.ReadAt(dst, int64(n)*int64(d.blockSize)); err != nil {
		return fmt.Errorf("reading block `%d`: %v: %w", n, err, ErrIO)
	}
	return nil
}

func (d *FileDisk) WriteBlock(n int, src []byte) error {
	if err := d.check(n, src); err != nil {
		return err
	}
	d.stats.Writes++
	if _, err := d.file.WriteAt(src, int64(n)*int64(d.blockSize)); err != nil {
		return fmt.Errorf("writing block `%d`: %v: %w", n, err, ErrIO)
	}
	return nil
}

// Close syncs and closes the backing file. Closing twice is a no-op.
func (d *FileDisk) Close() error {
	if d.file == nil {
		return nil
	}
	file := d.file
	d.file = nil
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("syncing disk: %v: %w", err, ErrIO)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing disk: %v: %w", err, ErrIO)
	}
	return nil
}
