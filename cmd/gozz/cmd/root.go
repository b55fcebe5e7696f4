package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/openrig/gozz/pkg/config"
	"github.com/openrig/gozz/pkg/library"
)

var (
	configPath string
	libraryDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gozz",
	Short: "gozz - compressed skeletal animation toolkit",
	Long: `gozz inspects compressed animation clip archives and manages a
local clip library for game asset pipelines.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&libraryDir, "library", "L", "", "Clip library directory (overrides config)")
}

// openLibrary opens the clip library from the --library flag, falling back
// to the configured directory.
func openLibrary() (*library.Library, error) {
	dir := libraryDir
	if dir == "" {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return nil, err
		}
		dir = cfg.LibraryDir
	}
	return library.Open(dir)
}
