/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rstms/dfat/image"
)

var importCmd = &cobra.Command{
	Use:   "import IMAGE DIR",
	Short: "copy a host directory tree into an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !image.IsHostDir(args[1]) {
			return fmt.Errorf("%s is not a directory", args[1])
		}
		img, err := image.OpenImage(afero.NewOsFs(), args[0], viper.GetInt("block_size"))
		if err != nil {
			return err
		}
		defer img.Close()
		if err := img.Import(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d free blocks\n", args[0], img.Free())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
