package fat

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/rstms/dfat"
)

const testBlockSize = dfat.DefaultBlockSize

func newDisk(t *testing.T, blocks int) *dfat.FileDisk {
	t.Helper()
	disk, err := dfat.CreateFileDisk(afero.NewMemMapFs(), "test.img", testBlockSize, blocks)
	require.Nil(t, err)
	t.Cleanup(func() { disk.Close() })
	return disk
}

func newFileSystem(t *testing.T, label string, blocks int) *FileSystem {
	t.Helper()
	disk := newDisk(t, blocks)
	require.Nil(t, Format(disk, label))
	fs, err := New(disk)
	require.Nil(t, err)
	return fs
}

func pattern(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	return data
}
