package evidence

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Box is one face region to draw on an evidence frame.
type Box struct {
	Rect     image.Rectangle
	Label    string
	Intruder bool
}

var (
	colorIntruder   = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	colorAuthorized = color.RGBA{R: 40, G: 180, B: 60, A: 255}
	colorLabel      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	borderWidth   = 3
	labelBand     = 20
	maxEvidenceDim = 1280
)

// Annotate draws a colored border and label band for every box on the
// frame and re-encodes it as JPEG, downscaling oversized frames first.
func Annotate(frame []byte, boxes []Box) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}

	img := image.NewRGBA(src.Bounds())
	draw.Copy(img, src.Bounds().Min, src, src.Bounds(), draw.Src, nil)

	for _, box := range boxes {
		c := colorAuthorized
		if box.Intruder {
			c = colorIntruder
		}

		rect := box.Rect.Intersect(img.Bounds())
		drawBorder(img, rect, c)

		// Filled band along the bottom edge carrying the label.
		band := image.Rect(rect.Min.X, rect.Max.Y-labelBand, rect.Max.X, rect.Max.Y).Intersect(img.Bounds())
		draw.Draw(img, band, &image.Uniform{C: c}, image.Point{}, draw.Src)
		drawLabel(img, box.Label, band)
	}

	out := downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encoding annotated frame: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBorder draws a borderWidth frame just inside rect.
func drawBorder(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	fill := func(r image.Rectangle) {
		draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	fill(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+borderWidth))
	fill(image.Rect(rect.Min.X, rect.Max.Y-borderWidth, rect.Max.X, rect.Max.Y))
	fill(image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+borderWidth, rect.Max.Y))
	fill(image.Rect(rect.Max.X-borderWidth, rect.Min.Y, rect.Max.X, rect.Max.Y))
}

// drawLabel renders the label text inside the band.
func drawLabel(img *image.RGBA, label string, band image.Rectangle) {
	if label == "" || band.Empty() {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: colorLabel},
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(band.Min.X + borderWidth + 2),
			Y: fixed.I(band.Max.Y - 6),
		},
	}
	d.DrawString(label)
}

// downscale shrinks frames larger than maxEvidenceDim on either side,
// keeping aspect ratio.
func downscale(img *image.RGBA) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxEvidenceDim && height <= maxEvidenceDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxEvidenceDim
		newHeight = height * maxEvidenceDim / width
	} else {
		newHeight = maxEvidenceDim
		newWidth = width * maxEvidenceDim / height
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}
