package image

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/rstms/dfat"
	"github.com/rstms/dfat/fat"
)

type FileRecord struct {
	Name  string
	Dir   bool
	Block dfat.BlockID
	Size  uint32
}

// Image is a dFAT volume stored in a file on a host file system.
type Image struct {
	Filename string
	host     afero.Fs
	disk     *dfat.FileDisk
	fs       *fat.FileSystem
}

func OpenImage(host afero.Fs, filename string, blockSize int) (*Image, error) {
	i := Image{Filename: filename, host: host}
	var err error
	i.disk, err = dfat.OpenFileDisk(host, filename, blockSize)
	if err != nil {
		return nil, Fatal(err)
	}
	i.fs, err = fat.New(i.disk)
	if err != nil {
		i.disk.Close()
		return nil, Fatal(err)
	}
	return &i, nil
}

// CreateImage creates (or truncates) filename and formats it with an empty
// volume of blocks blocks.
func CreateImage(host afero.Fs, filename, label string, blocks, blockSize int) (*Image, error) {
	i := Image{Filename: filename, host: host}
	if limit := fat.TableCapacity(blockSize); blocks > limit {
		return nil, Fatalf("%d blocks exceeds the %d addressable with block size %d", blocks, limit, blockSize)
	}
	var err error
	i.disk, err = dfat.CreateFileDisk(host, filename, blockSize, blocks)
	if err != nil {
		return nil, Fatal(err)
	}
	err = fat.Format(i.disk, label)
	if err != nil {
		i.disk.Close()
		return nil, Fatal(err)
	}
	i.fs, err = fat.New(i.disk)
	if err != nil {
		i.disk.Close()
		return nil, Fatal(err)
	}
	log.WithField("image", filename).
		WithField("label", label).
		WithField("blocks", blocks).
		Debug("created image")
	return &i, nil
}

func (i *Image) Close() error {
	if i.disk != nil {
		err := i.disk.Close()
		i.disk = nil
		if err != nil {
			return Fatal(err)
		}
	}
	return nil
}

func (i *Image) FileSystem() *fat.FileSystem {
	return i.fs
}

func (i *Image) Label() string {
	return i.fs.Label()
}

func (i *Image) Stats() dfat.Stats {
	return i.fs.Device().Stats()
}

// Free returns the number of unallocated blocks.
func (i *Image) Free() int {
	return i.fs.FAT().FreeCount()
}

// DumpBlock returns a hex dump of block n as stored on the device.
func (i *Image) DumpBlock(n int) (string, error) {
	raw := make([]byte, i.disk.BlockSize())
	err := i.disk.ReadBlock(n, raw)
	if err != nil {
		return "", Fatal(err)
	}
	return HexDump(raw), nil
}

func (i *Image) ScanFiles() ([]FileRecord, error) {
	records, err := walk(i.fs, "/", i.fs.Root())
	if err != nil {
		return []FileRecord{}, Fatal(err)
	}
	return records, nil
}

func walk(fs *fat.FileSystem, dirPath string, dir dfat.BlockID) ([]FileRecord, error) {
	records := []FileRecord{}
	entries, err := fs.Entries(dir)
	if err != nil {
		return []FileRecord{}, err
	}
	for _, entry := range entries {
		record := FileRecord{
			Name:  path.Join(dirPath, entry.Name),
			Dir:   entry.IsDir(),
			Block: entry.Block,
			Size:  entry.Size,
		}
		records = append(records, record)
		if entry.IsDir() {
			subRecords, err := walk(fs, record.Name, entry.Block)
			if err != nil {
				return []FileRecord{}, err
			}
			records = append(records, subRecords...)
		}
	}
	return records, nil
}

// searchDir returns the directory at name, or false if there is none.
func (i *Image) searchDir(name string) (dfat.Listing, bool, error) {
	components := fat.SplitPath(name)
	log.WithField("components", components).Debug("searching directory")
	listing, err := i.fs.Resolve(i.fs.Root(), components)
	if err != nil {
		if errors.Is(err, dfat.ErrNotFound) || errors.Is(err, dfat.ErrNotADirectory) {
			return dfat.Listing{}, false, nil
		}
		return dfat.Listing{}, false, Fatal(err)
	}
	if !listing.IsDir() {
		return dfat.Listing{}, false, nil
	}
	return listing, true, nil
}

func (i *Image) getDir(name string) (dfat.Listing, error) {
	dir, ok, err := i.searchDir(name)
	if err != nil {
		return dfat.Listing{}, Fatal(err)
	}
	if !ok {
		return dfat.Listing{}, Fatalf("directory not found: %s", name)
	}
	return dir, nil
}

func (i *Image) IsDir(name string) (bool, error) {
	_, ok, err := i.searchDir(name)
	if err != nil {
		return false, Fatal(err)
	}
	return ok, nil
}

// split separates pathname into its parent directory and final name.
func split(pathname string) (string, string) {
	dir, name := path.Split(strings.TrimRight(pathname, "/"))
	return dir, name
}

func (i *Image) Mkdir(pathname string) error {
	exists, err := i.IsDir(pathname)
	if err != nil {
		return Fatal(err)
	}
	if exists {
		return Fatalf("directory exists: %s", pathname)
	}
	dir, name := split(pathname)
	parent, err := i.getDir(dir)
	if err != nil {
		return Fatal(err)
	}
	_, err = i.fs.MakeDirectory(parent.Block, name)
	if err != nil {
		return Fatal(err)
	}
	return nil
}

func (i *Image) WriteFile(pathname string, data []byte) error {
	dir, name := split(pathname)
	parent, err := i.getDir(dir)
	if err != nil {
		return Fatal(err)
	}
	_, err = i.fs.WriteFile(parent.Block, name, data)
	if err != nil {
		return Fatal(err)
	}
	return nil
}

// AddFile copies the host file srcPathname into the image at dstPathname.
func (i *Image) AddFile(dstPathname, srcPathname string) error {
	data, err := afero.ReadFile(i.host, srcPathname)
	if err != nil {
		return Fatal(err)
	}
	err = i.WriteFile(dstPathname, data)
	if err != nil {
		return Fatal(err)
	}
	return nil
}

func (i *Image) ReadFile(filename string) ([]byte, error) {
	listing, err := i.fs.Resolve(i.fs.Root(), fat.SplitPath(filename))
	if err != nil {
		return []byte{}, Fatal(err)
	}
	data, err := i.fs.ReadFile(listing)
	if err != nil {
		return []byte{}, Fatal(err)
	}
	return data, nil
}

func (i *Image) Remove(pathname string) error {
	dir, name := split(pathname)
	parent, err := i.getDir(dir)
	if err != nil {
		return Fatal(err)
	}
	err = i.fs.Remove(parent.Block, name)
	if err != nil {
		return Fatal(err)
	}
	return nil
}

// Import writes every directory and file below the host directory dirname
// into the image root.
func (i *Image) Import(dirname string) error {
	err := afero.Walk(i.host, dirname, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return Fatal(err)
		}
		if p == dirname {
			return nil
		}
		rel, err := filepath.Rel(dirname, p)
		if err != nil {
			return Fatal(err)
		}
		dst := filepath.ToSlash(rel)
		log.WithField("dir", info.IsDir()).
			WithField("dst", dst).
			WithField("src", p).
			Debug("importing")
		if info.IsDir() {
			err := i.Mkdir(dst)
			if err != nil {
				return Fatal(err)
			}
		} else {
			err := i.AddFile(dst, p)
			if err != nil {
				return Fatal(err)
			}
		}
		return nil
	})
	if err != nil {
		return Fatal(err)
	}
	return nil
}
