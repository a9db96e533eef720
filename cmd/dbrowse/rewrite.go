/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rstms/dfat/image"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite DST SRC",
	Short: "copy an image into a new, compacted image",
	Long: `
Copy every directory and file of SRC into a freshly formatted DST with the
same label. Files are reallocated in order, so free space left behind by
removed files is merged into one run.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		blocks, err := cmd.Flags().GetInt("blocks")
		if err != nil {
			return err
		}
		return image.RewriteImage(afero.NewOsFs(), args[0], args[1], viper.GetInt("block_size"), blocks)
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().Int("blocks", 0, "destination size in blocks (default: source size)")
}
