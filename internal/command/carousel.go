package command

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/storyreel/internal/carousel"
	"github.com/ivlev/storyreel/internal/engine"
	"github.com/ivlev/storyreel/internal/source"
)

var carouselCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Render a horizontally scrolling poster reel",
	RunE:  runCarousel,
}

func init() {
	f := carouselCmd.Flags()
	f.String("posters", "", "directory of poster images, ordered by name (required)")
	f.String("output", "", "output video path (required)")
	f.String("title", "", "top bar text")
	f.String("footer", "", "bottom bar text (default: \"N POSTERS\")")
	f.String("qr", "", "URL rendered as a QR tag in the bottom-right corner")
	f.Int("width", 1920, "output width")
	f.Int("height", 1080, "output height")
	f.Int("fps", 30, "output frame rate")
	f.Float64("scroll-speed", 120, "scroll speed in pixels per second")
	f.Float64("carousel-duration", 0, "total duration in seconds (0 derives from scroll speed)")
	f.Int("spacing", 40, "pixels between posters")
	f.Int("poster-height", 1500, "common poster height on the strip")
	f.String("encoder", "", "video encoder (default: best available H.264)")
	f.Int("quality", 0, "encoder quality (0 = per-encoder default)")
	_ = carouselCmd.MarkFlagRequired("posters")
	_ = carouselCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(carouselCmd)
}

func runCarousel(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	postersDir, _ := f.GetString("posters")
	src, err := source.NewDirSource(postersDir)
	if err != nil {
		return err
	}
	posters, err := src.Images(cmd.Context(), "")
	if err != nil {
		return err
	}

	title, _ := f.GetString("title")
	footer, _ := f.GetString("footer")
	if footer == "" {
		footer = fmt.Sprintf("%d POSTERS", len(posters))
	}

	output, _ := f.GetString("output")
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(output))
	}

	spacing, _ := f.GetInt("spacing")
	posterHeight, _ := f.GetInt("poster-height")
	width, _ := f.GetInt("width")
	height, _ := f.GetInt("height")
	fps, _ := f.GetInt("fps")
	speed, _ := f.GetFloat64("scroll-speed")
	duration, _ := f.GetFloat64("carousel-duration")
	qr, _ := f.GetString("qr")

	req := engine.CarouselRequest{
		PosterPaths: posters,
		Title:       strings.ToUpper(title),
		Footer:      strings.ToUpper(footer),
		QRLink:      qr,
		Output:      output,
		Width:       width,
		Height:      height,
		FPS:         fps,
		ScrollSpeed: speed,
		Duration:    duration,
		Options: carousel.Options{
			Spacing:      spacing,
			PosterHeight: posterHeight,
			Background:   color.NRGBA{R: 20, G: 20, B: 30, A: 255},
		},
		Settings: settingsFromFlags(cmd),
	}

	if err := newEngine().RenderCarousel(cmd.Context(), req); err != nil {
		return err
	}
	log.Infof("rendered %s", output)
	return nil
}
