package img2json

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/img2json/img2json/types"
)

var _ = fmt.Print

type ChannelMode = types.ChannelMode

const (
	RGB  = types.RGB
	RGBA = types.RGBA
)

var (
	// ErrEmpty means the animation contained no frames.
	ErrEmpty = errors.New("img2json: animation has no frames")
	// ErrInconsistentDimensions means a frame differs in size from the first frame.
	ErrInconsistentDimensions = errors.New("img2json: inconsistent frame dimensions")
	// ErrZeroArea means the canvas has a zero width or height.
	ErrZeroArea = errors.New("img2json: image has no pixels")
	// ErrInvalidDelay means a frame delay has a zero denominator.
	ErrInvalidDelay = errors.New("img2json: frame delay has a zero denominator")
	// ErrBufferSize means a raw pixel buffer does not match its declared geometry.
	ErrBufferSize = errors.New("img2json: pixel buffer size does not match dimensions")
)

type Dimensions struct {
	Width, Height uint32
}

func (d Dimensions) Area() int { return int(d.Width) * int(d.Height) }

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// Ratio is an exact frame delay of Numerator/Denominator milliseconds.
type Ratio struct {
	Numerator, Denominator uint32
}

// Duration converts the ratio to a time.Duration, truncating to the nearest
// nanosecond. The ratio itself is what gets stored and serialized.
func (r Ratio) Duration() time.Duration {
	if r.Denominator == 0 {
		return 0
	}
	return time.Duration(uint64(r.Numerator) * uint64(time.Millisecond) / uint64(r.Denominator))
}

func (r Ratio) String() string { return fmt.Sprintf("%d/%d ms", r.Numerator, r.Denominator) }

// Frame is a single decoded animation frame. Its samples are stored row-major
// with Mode().Channels() bytes per pixel.
type Frame struct {
	delay Ratio
	mode  ChannelMode
	pix   []uint8
}

func (f Frame) Delay() Ratio      { return f.delay }
func (f Frame) Mode() ChannelMode { return f.mode }

// Len returns the number of pixels in the frame.
func (f Frame) Len() int {
	if c := f.mode.Channels(); c > 0 {
		return len(f.pix) / c
	}
	return 0
}

// Sample returns a copy of the i-th pixel in scan order, or false if i is out
// of range.
func (f Frame) Sample(i int) ([]uint8, bool) {
	if i < 0 || i >= f.Len() {
		return nil, false
	}
	c := f.mode.Channels()
	return append([]uint8(nil), f.pix[i*c:i*c+c]...), true
}

// Samples returns a copy of every pixel in scan order.
func (f Frame) Samples() [][]uint8 {
	c := f.mode.Channels()
	n := f.Len()
	flat := append([]uint8(nil), f.pix...)
	ans := make([][]uint8, n)
	for i := range ans {
		ans[i] = flat[i*c : i*c+c : i*c+c]
	}
	return ans
}

// Pix returns a copy of the flat sample buffer.
func (f Frame) Pix() []uint8 { return append([]uint8(nil), f.pix...) }

func (f Frame) equal(o Frame) bool {
	return f.delay == o.delay && f.mode == o.mode && bytes.Equal(f.pix, o.pix)
}

// ImageData is the immutable, decoded form of an animation. Construct it with
// Build, DecodeAll, Open or Unmarshal.
//
// Every accessor that takes a frame index returns false for an index outside
// [0, FrameCount()) rather than panicking.
type ImageData struct {
	dimensions Dimensions
	length     uint32
	mode       ChannelMode
	frames     []Frame
}

func (d *ImageData) Dimensions() Dimensions { return d.dimensions }
func (d *ImageData) FrameCount() uint32     { return d.length }
func (d *ImageData) Mode() ChannelMode      { return d.mode }

// Frames returns the frames in playback order.
func (d *ImageData) Frames() []Frame { return append([]Frame(nil), d.frames...) }

func (d *ImageData) Frame(i int) (Frame, bool) {
	if i < 0 || i >= len(d.frames) {
		return Frame{}, false
	}
	return d.frames[i], true
}

func (d *ImageData) Pixels(i int) ([][]uint8, bool) {
	f, ok := d.Frame(i)
	if !ok {
		return nil, false
	}
	return f.Samples(), true
}

func (d *ImageData) Delay(i int) (Ratio, bool) {
	f, ok := d.Frame(i)
	if !ok {
		return Ratio{}, false
	}
	return f.delay, true
}

// Image returns frame i as a freshly allocated image: *NRGB in RGB mode and
// *image.NRGBA in RGBA mode.
func (d *ImageData) Image(i int) (image.Image, bool) {
	f, ok := d.Frame(i)
	if !ok {
		return nil, false
	}
	w, h := int(d.dimensions.Width), int(d.dimensions.Height)
	if f.mode == RGB {
		img, err := NewNRGBWithContiguousRGBPixels(f.Pix(), 0, 0, w, h)
		if err != nil {
			return nil, false
		}
		return img, true
	}
	return &image.NRGBA{Pix: f.Pix(), Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}, true
}

// Equal reports whether d and o hold the same dimensions, mode and frames, in
// the same order.
func (d *ImageData) Equal(o *ImageData) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.dimensions != o.dimensions || d.length != o.length || d.mode != o.mode || len(d.frames) != len(o.frames) {
		return false
	}
	for i, f := range d.frames {
		if !f.equal(o.frames[i]) {
			return false
		}
	}
	return true
}

func (d *ImageData) String() string {
	return fmt.Sprintf("ImageData{%s %s frames=%d}", d.dimensions, d.mode, d.length)
}

// validate checks every structural invariant of a fully constructed ImageData.
func (d *ImageData) validate() error {
	if len(d.frames) == 0 {
		return ErrEmpty
	}
	if d.dimensions.Width == 0 || d.dimensions.Height == 0 {
		return fmt.Errorf("%w: %s", ErrZeroArea, d.dimensions)
	}
	if !d.mode.Valid() {
		return fmt.Errorf("invalid channel mode: %s", d.mode)
	}
	if int(d.length) != len(d.frames) {
		return fmt.Errorf("length %d does not match the number of frames %d", d.length, len(d.frames))
	}
	want := d.dimensions.Area()
	for i, f := range d.frames {
		if f.mode != d.mode {
			return fmt.Errorf("frame %d has channel mode %s, expected %s", i, f.mode, d.mode)
		}
		if f.Len() != want || len(f.pix)%d.mode.Channels() != 0 {
			return fmt.Errorf("%w: frame %d has %d pixels, expected %d", ErrInconsistentDimensions, i, f.Len(), want)
		}
		if f.delay.Denominator == 0 {
			return fmt.Errorf("%w: frame %d", ErrInvalidDelay, i)
		}
	}
	return nil
}
