package types

import (
	"fmt"
	"strings"
)

var _ = fmt.Print

// Format is a file format recognised by its filename extension.
type Format int

const (
	UNKNOWN Format = iota
	GIF
	JSON
)

var FormatExts = map[string]Format{
	"gif":  GIF,
	"json": JSON,
}

var formatNames = map[Format]string{
	GIF:  "GIF",
	JSON: "JSON",
}

func (f Format) String() string {
	return formatNames[f]
}

// Ext returns the conventional filename extension for f, including the
// leading dot.
func (f Format) Ext() string {
	switch f {
	case GIF:
		return ".gif"
	case JSON:
		return ".json"
	}
	return ""
}

// ChannelMode selects the arity of every pixel sample in a decoded image.
type ChannelMode int

const (
	RGB ChannelMode = iota
	RGBA
)

func (m ChannelMode) String() string {
	switch m {
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("ChannelMode(%d)", int(m))
}

// Channels is the number of 8-bit channels per sample, 0 for an invalid mode.
func (m ChannelMode) Channels() int {
	switch m {
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

func (m ChannelMode) Valid() bool { return m.Channels() != 0 }

// ChannelModeFor returns the mode whose samples have the given arity.
func ChannelModeFor(channels int) (ChannelMode, bool) {
	switch channels {
	case 3:
		return RGB, true
	case 4:
		return RGBA, true
	}
	return 0, false
}

func ParseChannelMode(s string) (ChannelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return RGB, nil
	case "rgba":
		return RGBA, nil
	}
	return 0, fmt.Errorf("unknown channel mode %q, must be one of: rgb, rgba", s)
}

// Set and Type make *ChannelMode usable as a command line flag value.
func (m *ChannelMode) Set(s string) error {
	v, err := ParseChannelMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *ChannelMode) Type() string { return "mode" }

func (m ChannelMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid channel mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *ChannelMode) UnmarshalText(b []byte) error { return m.Set(string(b)) }
