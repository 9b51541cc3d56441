package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:     "fx-returns",
		Short:   "Daily FX return series for USD invested in foreign overnight markets",
		Version: "v1.0.0",
	}
	debug      bool
	configFile string
)

func Execute(ctx context.Context) error {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")
	cobra.OnInitialize()

	rootCmd.AddCommand(run(ctx))

	return rootCmd.Execute()
}

func readInConfig() error {
	absolutePath, _ := filepath.Abs(configFile)

	viper.SetConfigFile(absolutePath)
	viper.SetEnvPrefix("FX_RETURNS")
	viper.AutomaticEnv()

	return viper.ReadInConfig()
}
