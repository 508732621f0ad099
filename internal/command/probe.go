package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/assets"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Inspect assets: image dimensions, audio durations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prober := newProber()
		for _, path := range args {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".jpg", ".jpeg", ".png":
				info, err := assets.ResolveImage(path)
				if err != nil {
					return err
				}
				fmt.Printf("%s\timage %dx%d\n", path, info.Width, info.Height)
			default:
				dur, err := prober.Duration(path)
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%.2fs\n", path, dur)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
