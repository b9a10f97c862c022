package img2json

import (
	"fmt"
	"image"
	"image/gif"
	"io"

	"golang.org/x/image/draw"
)

var _ = fmt.Print

// GIFDelay converts a GIF frame delay, in hundredths of a second, into an
// exact millisecond ratio.
func GIFDelay(centiseconds int) Ratio {
	return Ratio{Numerator: uint32(max(0, centiseconds)) * 10, Denominator: 1}
}

// DecodeGIF decodes every frame of the GIF in r and composites each one onto
// the full logical screen, honoring the disposal method of the frame before
// it. Every returned frame is therefore a snapshot of the animation at that
// instant, with transparent pixels where nothing has been drawn.
func DecodeGIF(r io.Reader) ([]RawFrame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	return coalesce_gif(g), nil
}

func coalesce_gif(g *gif.GIF) []RawFrame {
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() && len(g.Image) > 0 {
		// Some encoders leave the logical screen size unset
		screen = g.Image[0].Bounds()
		for _, img := range g.Image[1:] {
			screen = screen.Union(img.Bounds())
		}
		screen.Min = image.Point{}
	}
	canvas := image.NewNRGBA(screen)
	var saved *image.NRGBA
	ans := make([]RawFrame, 0, len(g.Image))
	for i, img := range g.Image {
		b := img.Bounds().Intersect(screen)
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			if saved == nil {
				saved = image.NewNRGBA(screen)
			}
			copy(saved.Pix, canvas.Pix)
		}
		draw.Draw(canvas, b, img, b.Min, draw.Over)
		snapshot := image.NewNRGBA(screen)
		copy(snapshot.Pix, canvas.Pix)
		var delay int
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		ans = append(ans, RawFrame{Image: snapshot, Delay: GIFDelay(delay)})
		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, b, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, saved.Pix)
		}
	}
	return ans
}
