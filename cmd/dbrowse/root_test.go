package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/rstms/dfat/image"
)

func TestImageArg(t *testing.T) {
	viper.Set("image", "configured.img")
	defer viper.Set("image", "disk.img")
	require.Equal(t, "configured.img", imageArg(nil))
	require.Equal(t, "given.img", imageArg([]string{"given.img"}))
}

func TestBrowseImage(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.img")
	img, err := image.CreateImage(afero.NewOsFs(), filename, "TESTDISK", 32, 512)
	require.Nil(t, err)
	require.Nil(t, img.Mkdir("docs"))
	require.Nil(t, img.WriteFile("readme.txt", []byte("hello docs")))
	require.Nil(t, img.Close())

	var out bytes.Buffer
	rootCmd.SetArgs([]string{filename})
	rootCmd.SetIn(strings.NewReader("cd docs\npwd\nread /readme.txt\nexit\n"))
	rootCmd.SetOut(&out)
	require.Nil(t, rootCmd.Execute())

	text := out.String()
	require.Contains(t, text, "Disk label: TESTDISK")
	require.Contains(t, text, "/docs\n")
	require.Contains(t, text, "hello docs\n")
	require.Contains(t, text, "===== Disk usage statistics =====")
}

func TestBrowseMissingImage(t *testing.T) {
	rootCmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.img")})
	err := rootCmd.Execute()
	require.NotNil(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "failed to load file system"))
}

func TestDumpCommand(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.img")
	img, err := image.CreateImage(afero.NewOsFs(), filename, "TESTDISK", 16, 512)
	require.Nil(t, err)
	require.Nil(t, img.Close())

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"dump", filename, "0"})
	rootCmd.SetOut(&out)
	require.Nil(t, rootCmd.Execute())
	require.Contains(t, out.String(), "|TESTDISK........|")

	rootCmd.SetArgs([]string{"dump", filename, "block"})
	require.NotNil(t, rootCmd.Execute())
}

func TestImportRequiresHostDir(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "test.img")
	img, err := image.CreateImage(afero.NewOsFs(), filename, "TESTDISK", 16, 512)
	require.Nil(t, err)
	require.Nil(t, img.Close())

	rootCmd.SetArgs([]string{"import", filename, filepath.Join(dir, "missing")})
	err = rootCmd.Execute()
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "is not a directory")
}
