package dfat

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFileDiskReadWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	disk, err := CreateFileDisk(fs, "disk.img", DefaultBlockSize, 8)
	require.Nil(t, err)
	defer disk.Close()

	require.Equal(t, DefaultBlockSize, disk.BlockSize())
	require.Equal(t, 8, disk.BlockCount())

	src := bytes.Repeat([]byte{'A'}, DefaultBlockSize)
	require.Nil(t, disk.WriteBlock(3, src))

	dst := make([]byte, DefaultBlockSize)
	require.Nil(t, disk.ReadBlock(3, dst))
	require.Equal(t, src, dst)

	require.Nil(t, disk.ReadBlock(0, dst))
	require.Equal(t, make([]byte, DefaultBlockSize), dst)

	require.Equal(t, Stats{Reads: 2, Writes: 1}, disk.Stats())
}

func TestFileDiskOutOfExtent(t *testing.T) {
	fs := afero.NewMemMapFs()
	disk, err := CreateFileDisk(fs, "disk.img", DefaultBlockSize, 4)
	require.Nil(t, err)
	defer disk.Close()

	buf := make([]byte, DefaultBlockSize)
	err = disk.ReadBlock(4, buf)
	require.True(t, errors.Is(err, ErrIO))
	err = disk.WriteBlock(-1, buf)
	require.True(t, errors.Is(err, ErrIO))
	err = disk.ReadBlock(0, buf[:10])
	require.True(t, errors.Is(err, ErrIO))

	// rejected requests never reach the file
	require.Equal(t, Stats{}, disk.Stats())
}

func TestFileDiskReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	disk, err := CreateFileDisk(fs, "disk.img", DefaultBlockSize, 4)
	require.Nil(t, err)
	require.Nil(t, disk.WriteBlock(1, bytes.Repeat([]byte("dfat"), DefaultBlockSize/4)))
	require.Nil(t, disk.Close())
	require.Nil(t, disk.Close())

	err = disk.ReadBlock(1, make([]byte, DefaultBlockSize))
	require.True(t, errors.Is(err, ErrIO))

	disk, err = OpenFileDisk(fs, "disk.img", DefaultBlockSize)
	require.Nil(t, err)
	defer disk.Close()
	buf := make([]byte, DefaultBlockSize)
	require.Nil(t, disk.ReadBlock(1, buf))
	require.Equal(t, []byte("dfatdfat"), buf[:8])
}

func TestOpenFileDiskMissing(t *testing.T) {
	_, err := OpenFileDisk(afero.NewMemMapFs(), "missing.img", DefaultBlockSize)
	require.True(t, errors.Is(err, ErrIO))
}

func TestValidateBlockSize(t *testing.T) {
	for _, size := range []int{64, 512, 1024, 4096, MaxBlockSize} {
		require.Nil(t, ValidateBlockSize(size), "size %d", size)
	}
	for _, size := range []int{0, 32, 100, 513, MaxBlockSize + ListingSize} {
		require.True(t, errors.Is(ValidateBlockSize(size), ErrMalformedRecord), "size %d", size)
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{Reads: 12, Writes: 3}.String()
	require.Contains(t, s, "Total block reads:  12")
	require.Contains(t, s, "Total block writes: 3")
}
