package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var playFlags streamFlags
var minimal bool

var playCmd = &cobra.Command{
	Use:   "play <files>",
	Short: "Play raw ADPCM stream(s)",
	Long:  "Provide one or more raw streams to play. They are all decoded with the same stream flags.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var allFiles []string
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				logger.Warn("Skipping", "file", arg, "err", err)
				continue
			}
			if info.IsDir() {
				logger.Warn("Skipping directory", "file", arg)
				continue
			}
			allFiles = append(allFiles, arg)
		}
		if len(allFiles) == 0 {
			return errors.New("no streams to play")
		}

		if minimal {
			return startMinimalPlayer(&playFlags, allFiles)
		}
		if err := startTUI(&playFlags, allFiles); err != nil {
			return fmt.Errorf("player: %w", err)
		}
		return nil
	},
}

func init() {
	playFlags.register(playCmd)
	playCmd.Flags().BoolVar(&minimal, "minimal", false, "Print progress lines instead of running the interactive player")
	rootCmd.AddCommand(playCmd)
}
