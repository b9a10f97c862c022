package img2json

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/img2json/img2json/types"
)

var _ = fmt.Print

// ErrFormat means a serialized document is malformed or violates an
// ImageData invariant.
var ErrFormat = errors.New("img2json: malformed document")

func pair_to_json(a, b uint32) []byte {
	buf := make([]byte, 0, 24)
	buf = append(buf, '[')
	buf = strconv.AppendUint(buf, uint64(a), 10)
	buf = append(buf, ',')
	buf = strconv.AppendUint(buf, uint64(b), 10)
	return append(buf, ']')
}

func pair_from_json(b []byte, what string) (x, y uint32, err error) {
	var v []uint32
	if err = json.Unmarshal(b, &v); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", what, err)
	}
	if len(v) != 2 {
		return 0, 0, fmt.Errorf("%s must have exactly two elements, not %d", what, len(v))
	}
	return v[0], v[1], nil
}

func (d Dimensions) MarshalJSON() ([]byte, error) { return pair_to_json(d.Width, d.Height), nil }

func (d *Dimensions) UnmarshalJSON(b []byte) (err error) {
	d.Width, d.Height, err = pair_from_json(b, "dimensions")
	return
}

func (r Ratio) MarshalJSON() ([]byte, error) { return pair_to_json(r.Numerator, r.Denominator), nil }

func (r *Ratio) UnmarshalJSON(b []byte) (err error) {
	r.Numerator, r.Denominator, err = pair_from_json(b, "delay_ratio")
	return
}

// samples serializes a flat sample buffer as an array of per-pixel arrays.
type samples struct {
	pix      []uint8
	channels int
}

func (s samples) MarshalJSON() ([]byte, error) {
	if s.channels <= 0 {
		return nil, fmt.Errorf("invalid number of channels: %d", s.channels)
	}
	buf := make([]byte, 0, 2+len(s.pix)*4+(len(s.pix)/s.channels)*3)
	buf = append(buf, '[')
	for i := 0; i+s.channels <= len(s.pix); i += s.channels {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, v := range s.pix[i : i+s.channels] {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendUint(buf, uint64(v), 10)
		}
		buf = append(buf, ']')
	}
	return append(buf, ']'), nil
}

type json_frame struct {
	DelayRatio Ratio   `json:"delay_ratio"`
	Pixels     samples `json:"pixels"`
}

type json_image struct {
	Dimensions Dimensions   `json:"dimensions"`
	Length     uint32       `json:"length"`
	Frames     []json_frame `json:"frames"`
}

func (d *ImageData) MarshalJSON() ([]byte, error) {
	w := json_image{Dimensions: d.dimensions, Length: d.length, Frames: make([]json_frame, len(d.frames))}
	for i, f := range d.frames {
		w.Frames[i] = json_frame{DelayRatio: f.delay, Pixels: samples{pix: f.pix, channels: f.mode.Channels()}}
	}
	return json.Marshal(w)
}

type json_frame_in struct {
	DelayRatio *Ratio `json:"delay_ratio"`
	// uint16 so that a base64 string is not accepted in place of a pixel
	Pixels [][]uint16 `json:"pixels"`
}

type json_image_in struct {
	Dimensions *Dimensions     `json:"dimensions"`
	Length     *uint32         `json:"length"`
	Frames     []json_frame_in `json:"frames"`
}

// UnmarshalJSON replaces d with the decoded document. d is left unmodified
// if the document is malformed or would violate any ImageData invariant.
func (d *ImageData) UnmarshalJSON(b []byte) error {
	var w json_image_in
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	switch {
	case w.Dimensions == nil:
		return fmt.Errorf("%w: missing dimensions", ErrFormat)
	case w.Length == nil:
		return fmt.Errorf("%w: missing length", ErrFormat)
	case len(w.Frames) == 0:
		return fmt.Errorf("%w: %w", ErrFormat, ErrEmpty)
	}
	ans := ImageData{dimensions: *w.Dimensions, length: *w.Length, frames: make([]Frame, len(w.Frames))}
	channels := -1
	for i, f := range w.Frames {
		if f.DelayRatio == nil {
			return fmt.Errorf("%w: frame %d has no delay_ratio", ErrFormat, i)
		}
		if f.Pixels == nil {
			return fmt.Errorf("%w: frame %d has no pixels", ErrFormat, i)
		}
		if channels < 0 && len(f.Pixels) > 0 {
			channels = len(f.Pixels[0])
			mode, ok := types.ChannelModeFor(channels)
			if !ok {
				return fmt.Errorf("%w: pixels must have 3 or 4 channels, not %d", ErrFormat, channels)
			}
			ans.mode = mode
		}
		pix := make([]uint8, 0, len(f.Pixels)*max(channels, 0))
		for j, p := range f.Pixels {
			if len(p) != channels {
				return fmt.Errorf("%w: pixel %d of frame %d has %d channels, expected %d", ErrFormat, j, i, len(p), channels)
			}
			for _, v := range p {
				if v > 255 {
					return fmt.Errorf("%w: pixel %d of frame %d has out of range channel value %d", ErrFormat, j, i, v)
				}
				pix = append(pix, uint8(v))
			}
		}
		ans.frames[i] = Frame{delay: *f.DelayRatio, pix: pix}
	}
	if channels < 0 {
		if area := ans.dimensions.Area(); area > 0 {
			return fmt.Errorf("%w: frames have no pixels, expected %d", ErrFormat, area)
		}
		return fmt.Errorf("%w: %w", ErrFormat, ErrZeroArea)
	}
	for i := range ans.frames {
		ans.frames[i].mode = ans.mode
	}
	if err := ans.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	*d = ans
	return nil
}
