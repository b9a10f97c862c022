package img2json

import (
	"fmt"
	"image"
	"image/color"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// RawFrame is one fully composited animation frame as produced by a decoder,
// together with its display delay.
type RawFrame struct {
	Image image.Image
	Delay Ratio
}

// NewRawFrame wraps a contiguous, row-major pixel buffer with either 3 (RGB)
// or 4 (non-premultiplied RGBA) channels per pixel. The buffer is not copied.
func NewRawFrame(pix []uint8, width, height, channels int, delay Ratio) (RawFrame, error) {
	if width < 0 || height < 0 {
		return RawFrame{}, fmt.Errorf("%w: negative dimensions %dx%d", ErrBufferSize, width, height)
	}
	switch channels {
	case 3:
		img, err := NewNRGBWithContiguousRGBPixels(pix, 0, 0, width, height)
		if err != nil {
			return RawFrame{}, err
		}
		return RawFrame{Image: img, Delay: delay}, nil
	case 4:
		if expected := 4 * width * height; expected != len(pix) {
			return RawFrame{}, fmt.Errorf("%w: width=%d height=%d sz=%d != %d", ErrBufferSize, width, height, len(pix), expected)
		}
		return RawFrame{Image: &image.NRGBA{Pix: pix, Stride: 4 * width, Rect: image.Rect(0, 0, width, height)}, Delay: delay}, nil
	}
	return RawFrame{}, fmt.Errorf("%w: unsupported number of channels: %d", ErrBufferSize, channels)
}

func dimensions_of(img image.Image) Dimensions {
	b := img.Bounds()
	return Dimensions{Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// Build normalizes a sequence of decoded frames into an ImageData whose
// samples all have the arity of mode. The dimensions are taken from the first
// frame and every other frame must match them. Delays are kept exactly as
// given. On error no ImageData is returned.
func Build(frames []RawFrame, mode ChannelMode) (*ImageData, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid channel mode: %s", mode)
	}
	if len(frames) == 0 {
		return nil, ErrEmpty
	}
	if frames[0].Image == nil {
		return nil, fmt.Errorf("frame 0 has no image")
	}
	dims := dimensions_of(frames[0].Image)
	if dims.Width == 0 || dims.Height == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroArea, dims)
	}
	ans := &ImageData{dimensions: dims, length: uint32(len(frames)), mode: mode, frames: make([]Frame, 0, len(frames))}
	for i, rf := range frames {
		if rf.Image == nil {
			return nil, fmt.Errorf("frame %d has no image", i)
		}
		if d := dimensions_of(rf.Image); d != dims {
			return nil, fmt.Errorf("%w: frame %d is %s, expected %s", ErrInconsistentDimensions, i, d, dims)
		}
		if rf.Delay.Denominator == 0 {
			return nil, fmt.Errorf("%w: frame %d", ErrInvalidDelay, i)
		}
		pix, err := project(rf.Image, mode)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		ans.frames = append(ans.frames, Frame{delay: rf.Delay, mode: mode, pix: pix})
	}
	return ans, nil
}

// project copies the pixels of img in scan order into a new buffer with
// mode.Channels() bytes per pixel. Alpha is dropped in RGB mode and is 0xff
// for sources without alpha in RGBA mode. No other conversion is done.
func project(img image.Image, mode ChannelMode) (ans []uint8, err error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	c := mode.Channels()
	dstride := c * width
	ans = make([]uint8, dstride*height)
	var f func(start, limit int)
	switch src := img.(type) {
	case *image.NRGBA:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				i := src.PixOffset(b.Min.X, b.Min.Y+y)
				row := src.Pix[i : i+4*width : i+4*width]
				drow := ans[y*dstride : (y+1)*dstride : (y+1)*dstride]
				if c == 4 {
					copy(drow, row)
					continue
				}
				for range width {
					drow[0], drow[1], drow[2] = row[0], row[1], row[2]
					row, drow = row[4:], drow[3:]
				}
			}
		}
	case *NRGB:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				i := src.PixOffset(b.Min.X, b.Min.Y+y)
				row := src.Pix[i : i+3*width : i+3*width]
				drow := ans[y*dstride : (y+1)*dstride : (y+1)*dstride]
				if c == 3 {
					copy(drow, row)
					continue
				}
				for range width {
					drow[0], drow[1], drow[2], drow[3] = row[0], row[1], row[2], 0xff
					row, drow = row[3:], drow[4:]
				}
			}
		}
	default:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				drow := ans[y*dstride : (y+1)*dstride : (y+1)*dstride]
				for x := b.Min.X; x < b.Max.X; x++ {
					p := color.NRGBAModel.Convert(img.At(x, b.Min.Y+y)).(color.NRGBA)
					s := drow[0:c:c]
					s[0], s[1], s[2] = p.R, p.G, p.B
					if c == 4 {
						s[3] = p.A
					}
					drow = drow[c:]
				}
			}
		}
	}
	if err = parallel.Run_in_parallel_over_range(0, f, 0, height); err != nil {
		return nil, err
	}
	return ans, nil
}
