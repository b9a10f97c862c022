package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/img2json/img2json"
	"github.com/img2json/img2json/config"
	"github.com/img2json/img2json/types"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

var _ = fmt.Print

type options struct {
	output, config string
	mode           types.ChannelMode
	indent         bool
	verbose        bool
	version        bool
}

func parse_args(args []string, stderr io.Writer) (*flag.FlagSet, *options, error) {
	var o options
	fs := flag.NewFlagSet("img2json", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: img2json [flags] input.gif")
		fs.PrintDefaults()
	}
	fs.StringVarP(&o.output, "output", "o", "", "output file, defaults to the input file with a .json suffix, - for stdout")
	fs.VarP(&o.mode, "mode", "m", "channels per pixel sample, rgb drops alpha: rgb or rgba")
	fs.BoolVar(&o.indent, "indent", false, "pretty print the JSON output")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log debug information")
	fs.StringVarP(&o.config, "config", "c", "", "path to a config file (yaml, json or toml)")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	return fs, &o, fs.Parse(args)
}

func new_logger(w io.Writer, cfg config.Config, verbose bool) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func output_path(input, output string) (string, error) {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + types.JSON.Ext(), nil
	}
	if output != "-" {
		if f, err := img2json.FormatFromFilename(output); err != nil || f != types.JSON {
			return "", fmt.Errorf("output file %q must have the %s suffix", output, types.JSON.Ext())
		}
	}
	return output, nil
}

func convert(args []string, stdout, stderr io.Writer) error {
	fs, o, err := parse_args(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fail(InputError, err)
	}
	if o.version {
		fmt.Fprintln(stdout, "img2json", img2json.Version)
		return nil
	}
	cfg, err := config.Load(o.config)
	if err != nil {
		return fail(InputError, err)
	}
	if fs.Changed("mode") {
		cfg.Mode = o.mode.String()
	}
	if fs.Changed("indent") {
		cfg.Indent = o.indent
	}
	mode, err := cfg.ChannelMode()
	if err != nil {
		return fail(InputError, err)
	}
	log, err := new_logger(stderr, cfg, o.verbose)
	if err != nil {
		return fail(InputError, err)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return failf(InputError, "expected exactly one input file, got %d", fs.NArg())
	}
	input := fs.Arg(0)
	if f, err := img2json.FormatFromFilename(input); err != nil || f != types.GIF {
		return failf(InputError, "wrong suffix, only %s files are supported: %s", types.GIF.Ext(), input)
	}
	output, err := output_path(input, o.output)
	if err != nil {
		return fail(InputError, err)
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fail(InputError, err)
	}
	log.Debug().Str("input", input).Int("bytes", len(raw)).Stringer("mode", mode).Msg("decoding")
	data, err := img2json.DecodeAll(bytes.NewReader(raw), img2json.Channels(mode))
	if err != nil {
		return fail(DecodeError, fmt.Errorf("%s: %w", input, err))
	}
	log.Debug().Stringer("dimensions", data.Dimensions()).Uint32("frames", data.FrameCount()).Msg("decoded")

	var eopts []img2json.EncodeOption
	if cfg.Indent {
		eopts = append(eopts, img2json.Indent("", "  "))
	}
	b, err := img2json.Marshal(data, eopts...)
	if err != nil {
		return fail(SerializationError, err)
	}

	if output == "-" {
		if _, err = stdout.Write(b); err != nil {
			return fail(OutputError, err)
		}
		return nil
	}
	if err = img2json.WriteFile(output, b); err != nil {
		return fail(OutputError, err)
	}
	log.Info().Str("output", output).Int("bytes", len(b)).Msg("successfully written")
	return nil
}

// run is the single place where failures are turned into messages and exit
// codes.
func run(args []string, stdout, stderr io.Writer) int {
	err := convert(args, stdout, stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	}
	fmt.Fprintln(stderr, "img2json:", err)
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.Kind.ExitCode()
	}
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
