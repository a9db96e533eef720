/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// initConfig reads the config file and DBROWSE_* environment variables.
func initConfig() {
	viper.SetDefault("image", "disk.img")
	viper.SetDefault("block_size", 512)
	viper.SetDefault("label", "DFAT")
	viper.SetDefault("blocks", 256)
	viper.SetDefault("debug", false)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dbrowse"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("dbrowse")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("dbrowse")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	initLogging()
	if err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	} else if cfgFile != "" {
		log.WithError(err).Fatal("reading config file")
	}
}
