package fat

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rstms/dfat"
)

// FileSystem is the implementation of dfat.FileSystem for a dFAT volume. The
// label and table are read once by New; directories and file chunks are
// read from the device on every access.
type FileSystem struct {
	device dfat.BlockDevice
	fat    *FAT
	label  string
	root   dfat.BlockID
}

// ensure FileSystem implements dfat.FileSystem
var _ dfat.FileSystem = (*FileSystem)(nil)

// New loads a previously formatted dFAT volume. Device errors are reported as
// dfat.ErrIO and inconsistent reserved blocks as dfat.ErrLoad.
func New(device dfat.BlockDevice) (*FileSystem, error) {
	raw := make([]byte, device.BlockSize())
	if err := device.ReadBlock(int(dfat.LabelBlock), raw); err != nil {
		return nil, fmt.Errorf("loading label: %w", err)
	}
	label, err := DecodeLabel(raw)
	if err != nil {
		return nil, fmt.Errorf("loading label: %v: %w", err, dfat.ErrLoad)
	}

	fat, err := LoadFAT(device)
	if err != nil {
		return nil, err
	}

	fs := &FileSystem{
		device: device,
		fat:    fat,
		label:  label,
		root:   dfat.RootBlock,
	}

	// the root must at least decode as a directory
	if _, err := fs.readDirectory(fs.root); err != nil {
		return nil, fmt.Errorf("loading root directory: %v: %w", err, dfat.ErrLoad)
	}

	log.WithField("label", label).
		WithField("blockSize", device.BlockSize()).
		Debug("loaded file system")
	return fs, nil
}

func (fs *FileSystem) Label() string { return fs.label }

func (fs *FileSystem) Root() dfat.BlockID { return fs.root }

func (fs *FileSystem) BlockSize() int { return fs.device.BlockSize() }

// FAT returns the in-memory allocation table.
func (fs *FileSystem) FAT() *FAT { return fs.fat }

func (fs *FileSystem) Device() dfat.BlockDevice { return fs.device }

// readDirectory validates that dir is an allocated block and decodes it.
func (fs *FileSystem) readDirectory(dir dfat.BlockID) ([]dfat.Listing, error) {
	if err := fs.fat.CheckRun(dir, 1); err != nil {
		return nil, fmt.Errorf("reading directory block `%d`: %w", dir, err)
	}
	raw := make([]byte, fs.BlockSize())
	if err := fs.device.ReadBlock(int(dir), raw); err != nil {
		return nil, fmt.Errorf("reading directory block `%d`: %w", dir, err)
	}
	listings, err := DecodeDirectory(raw)
	if err != nil {
		return nil, fmt.Errorf("reading directory block `%d`: %w", dir, err)
	}
	return listings, nil
}

func (fs *FileSystem) writeDirectory(dir dfat.BlockID, listings []dfat.Listing) error {
	raw := make([]byte, fs.BlockSize())
	if err := EncodeDirectory(listings, raw); err != nil {
		return fmt.Errorf("writing directory block `%d`: %w", dir, err)
	}
	if err := fs.device.WriteBlock(int(dir), raw); err != nil {
		return fmt.Errorf("writing directory block `%d`: %w", dir, err)
	}
	return nil
}
