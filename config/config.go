package config

import (
	"fmt"
	"path/filepath"

	"github.com/img2json/img2json/types"
	"github.com/kkyr/fig"
)

// EnvPrefix is prepended to the upper-cased field names when reading
// environment variables, e.g. IMG2JSON_MODE or IMG2JSON_LOG_LEVEL.
const EnvPrefix = "IMG2JSON"

type Config struct {
	Mode     string `fig:"mode" default:"rgb"`
	Indent   bool   `fig:"indent"`
	LogLevel string `fig:"log_level" default:"info"`
	NoColor  bool   `fig:"no_color"`
}

// Load reads the configuration from defaults, then the file at path if path
// is not empty, then environment variables, each overriding the previous one.
func Load(path string) (Config, error) {
	var c Config
	opts := []fig.Option{fig.UseEnv(EnvPrefix)}
	if path == "" {
		opts = append(opts, fig.IgnoreFile())
	} else {
		opts = append(opts, fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path)))
	}
	if err := fig.Load(&c, opts...); err != nil {
		return c, fmt.Errorf("loading config: %w", err)
	}
	if _, err := c.ChannelMode(); err != nil {
		return c, err
	}
	return c, nil
}

func (c Config) ChannelMode() (types.ChannelMode, error) {
	return types.ParseChannelMode(c.Mode)
}
