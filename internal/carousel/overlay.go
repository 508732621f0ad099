package carousel

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	topBarHeight    = 100
	bottomBarHeight = 80
	titleFontSize   = 58
	footerFontSize  = 36
	qrSize          = 150
)

// OverlaySpec describes the static bars composited over the scrolling crop.
// The overlay is rendered once at the output frame size and never moves with
// the scroll.
type OverlaySpec struct {
	Width  int
	Height int
	Title  string // top bar, gold
	Footer string // bottom bar, grey
	QRLink string // optional, rendered bottom-right above the footer bar
}

// RenderOverlay draws gradient bars top and bottom with centered shadowed
// text on a fully transparent canvas.
func RenderOverlay(spec OverlaySpec) (*image.RGBA, error) {
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, errors.Errorf("invalid overlay size %dx%d", spec.Width, spec.Height)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))

	// Top bar fades out downwards, bottom bar fades in.
	for i := 0; i < topBarHeight; i++ {
		alpha := uint8(200 * (1 - float64(i)/topBarHeight))
		fillRow(canvas, i, color.NRGBA{R: 5, G: 10, B: 20, A: alpha})
	}
	bottomStart := spec.Height - bottomBarHeight
	for i := 0; i < bottomBarHeight; i++ {
		alpha := uint8(200 * float64(i) / bottomBarHeight)
		fillRow(canvas, bottomStart+i, color.NRGBA{R: 5, G: 10, B: 20, A: alpha})
	}

	titleFace, err := newFace(gobold.TTF, titleFontSize)
	if err != nil {
		return nil, err
	}
	defer titleFace.Close()
	footerFace, err := newFace(goregular.TTF, footerFontSize)
	if err != nil {
		return nil, err
	}
	defer footerFace.Close()

	if spec.Title != "" {
		drawCenteredText(canvas, titleFace, spec.Title, 20,
			color.NRGBA{R: 255, G: 215, B: 0, A: 255}, 2)
	}
	if spec.Footer != "" {
		drawCenteredText(canvas, footerFace, spec.Footer, bottomStart+25,
			color.NRGBA{R: 204, G: 204, B: 204, A: 255}, 1)
	}

	if spec.QRLink != "" {
		qr, err := qrcode.New(spec.QRLink, qrcode.Medium)
		if err != nil {
			return nil, errors.Wrap(err, "overlay qr code")
		}
		qrImg := qr.Image(qrSize)
		pos := image.Pt(spec.Width-qrSize-40, spec.Height-bottomBarHeight-qrSize-20)
		draw.Draw(canvas, image.Rectangle{Min: pos, Max: pos.Add(image.Pt(qrSize, qrSize))},
			qrImg, qrImg.Bounds().Min, draw.Over)
	}

	return canvas, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "parse overlay font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return face, errors.Wrap(err, "overlay font face")
}

func fillRow(dst *image.RGBA, y int, c color.NRGBA) {
	if y < 0 || y >= dst.Bounds().Dy() {
		return
	}
	draw.Draw(dst, image.Rect(0, y, dst.Bounds().Dx(), y+1),
		image.NewUniform(c), image.Point{}, draw.Src)
}

// drawCenteredText draws text horizontally centered with its top edge at y,
// preceded by a black drop shadow offset by shadow pixels.
func drawCenteredText(dst *image.RGBA, face font.Face, text string, y int, c color.NRGBA, shadow int) {
	width := font.MeasureString(face, text).Ceil()
	x := (dst.Bounds().Dx() - width) / 2
	baseline := y + face.Metrics().Ascent.Ceil()

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{A: 255}),
		Face: face,
		Dot:  fixed.P(x+shadow, baseline+shadow),
	}
	d.DrawString(text)

	d.Src = image.NewUniform(c)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}
