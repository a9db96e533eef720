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

var scanCmd = &cobra.Command{
	Use:   "scan [IMAGE]",
	Short: "list every directory and file in an image",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := image.OpenImage(afero.NewOsFs(), imageArg(args), viper.GetInt("block_size"))
		if err != nil {
			return err
		}
		defer img.Close()
		records, err := img.ScanFiles()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "label: %s\n", img.Label())
		for _, record := range records {
			if record.Dir {
				fmt.Fprintf(out, "d %5d %10s %s\n", record.Block, "-", record.Name)
			} else {
				fmt.Fprintf(out, "f %5d %10d %s\n", record.Block, record.Size, record.Name)
			}
		}
		fmt.Fprintf(out, "free blocks: %d\n", img.Free())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
