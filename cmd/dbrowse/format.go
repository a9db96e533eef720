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

var formatCmd = &cobra.Command{
	Use:   "format [IMAGE]",
	Short: "create an empty dFAT disk image",
	Long: `
Create IMAGE (or the configured image) holding an empty dFAT volume with
the configured label and block count. An existing file is only replaced
when --force is given.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := imageArg(args)
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		if image.IsFile(filename) && !force {
			return fmt.Errorf("%s exists; use --force to overwrite", filename)
		}
		img, err := image.CreateImage(
			afero.NewOsFs(),
			filename,
			viper.GetString("label"),
			viper.GetInt("blocks"),
			viper.GetInt("block_size"),
		)
		if err != nil {
			return err
		}
		defer img.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: label %s, %d free blocks\n", filename, img.Label(), img.Free())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
	formatCmd.Flags().String("label", "DFAT", "volume label")
	formatCmd.Flags().Int("blocks", 256, "image size in blocks")
	formatCmd.Flags().Bool("force", false, "overwrite an existing image")
	viper.BindPFlag("label", formatCmd.Flags().Lookup("label"))
	viper.BindPFlag("blocks", formatCmd.Flags().Lookup("blocks"))
}
