package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import clip archives into the library",
	Long: `Import validates each clip archive by fully decoding it and stores
it in the library under the clip's own name.

Example:
  gozz import walk.ozz run.ozz`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := openLibrary()
		if err != nil {
			return err
		}
		defer lib.Close()

		for _, path := range args {
			info, err := lib.ImportFile(path)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s): %d tracks, %gs\n",
				info.Name, info.ID, info.NumTracks, info.Duration)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
