package command

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/compress"
)

var compressCmd = &cobra.Command{
	Use:   "compress <audio-file>",
	Short: "Compress an audio file under a size ceiling for transcription upload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetMB, _ := cmd.Flags().GetFloat64("target-mb")

		c := &compress.Compressor{Runner: newRunner(), Prober: newProber()}
		out, err := c.Compress(cmd.Context(), args[0], targetMB)
		if err != nil {
			return err
		}
		log.Infof("compressed to %s", out)
		return nil
	},
}

func init() {
	compressCmd.Flags().Float64("target-mb", 20, "target maximum size in megabytes")
	rootCmd.AddCommand(compressCmd)
}
