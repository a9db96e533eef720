/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rstms/dfat/image"
	"github.com/rstms/dfat/session"
	"github.com/rstms/dfat/shell"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dbrowse [IMAGE]",
	Short: "browse a dFAT disk image",
	Long: `
Open a dFAT disk image and start an interactive browser supporting the
dir, cd, read, pwd, help and exit commands. The image defaults to the
configured 'image' setting (disk.img).
`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := imageArg(args)
		img, err := image.OpenImage(afero.NewOsFs(), filename, viper.GetInt("block_size"))
		if err != nil {
			return fmt.Errorf("failed to load file system: %v", err)
		}
		defer img.Close()
		sh := shell.New(session.New(img.FileSystem()), img.Label(), img.Stats, cmd.OutOrStdout())
		return sh.Run(cmd.InOrStdin())
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
	rootCmd.PersistentFlags().Int("block-size", 512, "device block size in bytes")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.BindPFlag("block_size", rootCmd.PersistentFlags().Lookup("block-size"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func imageArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return viper.GetString("image")
}

func initLogging() {
	log.SetOutput(os.Stderr)
	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
