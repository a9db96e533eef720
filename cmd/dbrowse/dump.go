/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rstms/dfat/image"
)

var dumpCmd = &cobra.Command{
	Use:   "dump IMAGE BLOCK",
	Short: "hex dump one block of an image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid block number: %s", args[1])
		}
		img, err := image.OpenImage(afero.NewOsFs(), args[0], viper.GetInt("block_size"))
		if err != nil {
			return err
		}
		defer img.Close()
		dump, err := img.DumpBlock(block)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), dump)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
