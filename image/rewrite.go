/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package image

import (
	"github.com/spf13/afero"
)

// RewriteImage copies every directory and file of srcFile into a freshly
// formatted dstFile with the same label and block size. Files are written in
// scan order, so the result has no free gaps between allocated runs. A
// blocks value of zero keeps the source size.
func RewriteImage(host afero.Fs, dstFile, srcFile string, blockSize, blocks int) error {
	src, err := OpenImage(host, srcFile, blockSize)
	if err != nil {
		return Fatal(err)
	}
	defer src.Close()

	records, err := src.ScanFiles()
	if err != nil {
		return Fatal(err)
	}
	if blocks == 0 {
		blocks = src.FileSystem().FAT().Count()
	}

	dst, err := CreateImage(host, dstFile, src.Label(), blocks, blockSize)
	if err != nil {
		return Fatal(err)
	}
	defer dst.Close()

	for _, record := range records {
		if record.Dir {
			err := dst.Mkdir(record.Name)
			if err != nil {
				return Fatal(err)
			}
			continue
		}
		data, err := src.ReadFile(record.Name)
		if err != nil {
			return Fatal(err)
		}
		err = dst.WriteFile(record.Name, data)
		if err != nil {
			return Fatal(err)
		}
	}
	return nil
}
