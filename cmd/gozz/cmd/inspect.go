package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrig/gozz/pkg/animation"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the contents of a clip archive",
	Long: `Inspect decodes the animation clip archive at the given path and
prints its name, duration and key statistics.

Example:
  gozz inspect walk.ozz`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		clip, err := animation.LoadAnimation(args[0])
		if err != nil {
			return err
		}
		printClip(cmd, clip)
		return nil
	},
}

func printClip(cmd *cobra.Command, clip *animation.Animation) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:         %s\n", clip.Name())
	fmt.Fprintf(out, "Duration:     %gs\n", clip.Duration())
	fmt.Fprintf(out, "Tracks:       %d (aligned %d, soa %d)\n",
		clip.NumTracks(), clip.NumAlignedTracks(), clip.NumSoaTracks())
	fmt.Fprintf(out, "Translations: %d keys\n", len(clip.Translations()))
	fmt.Fprintf(out, "Rotations:    %d keys\n", len(clip.Rotations()))
	fmt.Fprintf(out, "Scales:       %d keys\n", len(clip.Scales()))
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
