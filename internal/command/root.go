// Package command wires the storyreel CLI. Subcommands share the encoder and
// prober binaries configured on the root, overridable by flag or environment.
package command

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivlev/storyreel/internal/assets"
	"github.com/ivlev/storyreel/internal/encoder"
	"github.com/ivlev/storyreel/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "storyreel",
	Short: "Assemble narrated story videos and poster carousels with ffmpeg",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := log.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			level = log.InfoLevel
		}
		log.SetLevel(level)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("ffmpeg", "ffmpeg", "ffmpeg binary")
	rootCmd.PersistentFlags().String("ffprobe", "ffprobe", "ffprobe binary")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.SetEnvPrefix("storyreel")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Fatal("flag binding failed")
	}
}

func newRunner() *encoder.Runner {
	return &encoder.Runner{Binary: viper.GetString("ffmpeg")}
}

func newProber() *assets.Prober {
	return &assets.Prober{Binary: viper.GetString("ffprobe")}
}

func newEngine() *engine.Engine {
	return &engine.Engine{Runner: newRunner(), Prober: newProber()}
}
