package fat

import (
	"fmt"

	"github.com/rstms/dfat"
)

// ChunkCount is the number of blocks a file of size bytes occupies.
func ChunkCount(size uint32, blockSize int) int {
	b := uint32(blockSize)
	if size%b == 0 {
		return int(size / b)
	}
	return int(size/b) + 1
}

// ReadFile returns the content of a file listing. The run of blocks implied
// by the size is checked against the table before anything is read.
func (fs *FileSystem) ReadFile(listing dfat.Listing) ([]byte, error) {
	if !listing.IsFile() {
		return nil, fmt.Errorf(
			"reading `%s`: %s listing: %w",
			listing.Name,
			listing.Kind,
			dfat.ErrNotAFile,
		)
	}

	blockSize := fs.BlockSize()
	count := ChunkCount(listing.Size, blockSize)
	if count == 0 {
		return []byte{}, nil
	}
	if err := fs.fat.CheckRun(listing.Block, count); err != nil {
		return nil, fmt.Errorf("reading `%s`: %w", listing.Name, err)
	}

	data := make([]byte, count*blockSize)
	for i := 0; i < count; i++ {
		if err := fs.device.ReadBlock(
			int(listing.Block)+i,
			data[i*blockSize:(i+1)*blockSize],
		); err != nil {
			return nil, fmt.Errorf("reading `%s`: %w", listing.Name, err)
		}
	}
	return data[:listing.Size], nil
}
