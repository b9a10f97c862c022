package img2json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/img2json/img2json/types"
)

var _ = fmt.Print

type tempFile interface {
	io.WriteCloser
	Name() string
	Sync() error
	Chmod(os.FileMode) error
}

type fileSystem interface {
	Open(string) (io.ReadCloser, error)
	CreateTemp(dir, pattern string) (tempFile, error)
	Rename(oldpath, newpath string) error
	Remove(string) error
}

type localFS struct{}

func (localFS) Open(name string) (io.ReadCloser, error) { return os.Open(name) }
func (localFS) CreateTemp(dir, pattern string) (tempFile, error) {
	return os.CreateTemp(dir, pattern)
}
func (localFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }
func (localFS) Remove(name string) error             { return os.Remove(name) }

var fs fileSystem = localFS{}

type Format = types.Format

const (
	UNKNOWN = types.UNKNOWN
	GIF     = types.GIF
	JSON    = types.JSON
)

// ErrUnsupportedFormat means the filename extension is not the one required.
var ErrUnsupportedFormat = errors.New("img2json: unsupported file format")

// FormatFromExtension parses a format from a filename extension, "gif" and
// "json" are supported.
func FormatFromExtension(ext string) (Format, error) {
	if f, ok := types.FormatExts[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return f, nil
	}
	return UNKNOWN, ErrUnsupportedFormat
}

func FormatFromFilename(filename string) (Format, error) {
	return FormatFromExtension(filepath.Ext(filename))
}

func require_format(filename string, f Format) error {
	if actual, err := FormatFromFilename(filename); err != nil || actual != f {
		return fmt.Errorf("%w: %q must have the %s suffix", ErrUnsupportedFormat, filename, f.Ext())
	}
	return nil
}

type decodeConfig struct {
	mode ChannelMode
}

var defaultDecodeConfig = decodeConfig{mode: RGB}

// DecodeOption sets an optional parameter for the DecodeAll and Open functions.
type DecodeOption func(*decodeConfig)

// Channels returns a DecodeOption that sets the channel mode of the decoded
// samples. Defaults to RGB, which discards alpha.
func Channels(mode ChannelMode) DecodeOption {
	return func(c *decodeConfig) {
		c.mode = mode
	}
}

// DecodeAll decodes every frame of the GIF animation in r.
func DecodeAll(r io.Reader, opts ...DecodeOption) (*ImageData, error) {
	cfg := defaultDecodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	frames, err := DecodeGIF(r)
	if err != nil {
		return nil, err
	}
	return Build(frames, cfg.mode)
}

// Open loads an animation from a file, which must have the .gif suffix.
//
// Examples:
//
//	// Decode keeping the alpha channel.
//	data, err := img2json.Open("spinner.gif", img2json.Channels(img2json.RGBA))
func Open(filename string, opts ...DecodeOption) (*ImageData, error) {
	if err := require_format(filename, GIF); err != nil {
		return nil, err
	}
	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeAll(file, opts...)
}

type encodeConfig struct {
	prefix, indent string
}

// EncodeOption sets an optional parameter for the Marshal and Save functions.
type EncodeOption func(*encodeConfig)

// Indent returns an EncodeOption that pretty prints the JSON output the way
// json.MarshalIndent does. The default output is compact.
func Indent(prefix, indent string) EncodeOption {
	return func(c *encodeConfig) {
		c.prefix, c.indent = prefix, indent
	}
}

// Marshal serializes d as a JSON document.
func Marshal(d *ImageData, opts ...EncodeOption) ([]byte, error) {
	var cfg encodeConfig
	for _, option := range opts {
		option(&cfg)
	}
	if cfg.prefix == "" && cfg.indent == "" {
		return json.Marshal(d)
	}
	return json.MarshalIndent(d, cfg.prefix, cfg.indent)
}

// Unmarshal parses a JSON document produced by Marshal. Any error wraps
// ErrFormat and the result always satisfies the ImageData invariants.
func Unmarshal(b []byte) (*ImageData, error) {
	ans := &ImageData{}
	if err := json.Unmarshal(b, ans); err != nil {
		if errors.Is(err, ErrFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return ans, nil
}

// Save writes d as JSON to filename, which must have the .json suffix. The
// file is replaced atomically.
func (d *ImageData) Save(filename string, opts ...EncodeOption) error {
	if err := require_format(filename, JSON); err != nil {
		return err
	}
	data, err := Marshal(d, opts...)
	if err != nil {
		return err
	}
	return WriteFile(filename, data)
}

// WriteFile writes data to a temporary file next to filename and renames it
// into place, so filename is either left untouched or fully written.
func WriteFile(filename string, data []byte) (err error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	f, err := fs.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			fs.Remove(f.Name())
		}
	}()
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return fs.Rename(f.Name(), filename)
}
