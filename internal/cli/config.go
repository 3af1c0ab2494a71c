package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/packforge/atlaspack/pkg/errors"
	"github.com/packforge/atlaspack/pkg/pipeline"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "atlaspack.toml"

// Config holds pack defaults read from an atlaspack.toml file. Every field
// mirrors a pack flag; explicit flags override file values.
//
// Example:
//
//	size = 2048
//	pad = 2
//	trim = true
//	unique = true
//	heuristic = "best-short-side"
//	formats = ["json", "binary"]
type Config struct {
	Size        int      `toml:"size"`
	Width       int      `toml:"width"`
	Height      int      `toml:"height"`
	Pad         *int     `toml:"pad"`
	Rotate      bool     `toml:"rotate"`
	Trim        bool     `toml:"trim"`
	Premultiply bool     `toml:"premultiply"`
	Unique      bool     `toml:"unique"`
	NoShrink    bool     `toml:"no_shrink"`
	Debug       bool     `toml:"debug"`
	Heuristic   string   `toml:"heuristic"`
	Extension   string   `toml:"extension"`
	Formats     []string `toml:"formats"`
	Jobs        int      `toml:"jobs"`
}

// loadConfig reads a config file. With an empty path the default file is
// tried and a missing file is not an error; an explicit path must exist.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput,
			"unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// apply copies config values into opts for every flag the user did not set
// explicitly. changed reports whether a flag was given on the command line.
func (cfg Config) apply(opts *pipeline.Options, changed func(name string) bool) {
	if !changed("size") && !changed("width") {
		if cfg.Width != 0 {
			opts.Width = cfg.Width
		} else if cfg.Size != 0 {
			opts.Width = cfg.Size
		}
	}
	if !changed("size") && !changed("height") {
		if cfg.Height != 0 {
			opts.Height = cfg.Height
		} else if cfg.Size != 0 {
			opts.Height = cfg.Size
		}
	}
	if !changed("pad") && cfg.Pad != nil {
		opts.Padding = cfg.Pad
	}
	if !changed("rotate") && cfg.Rotate {
		opts.Rotate = true
	}
	if !changed("trim") && cfg.Trim {
		opts.Trim = true
	}
	if !changed("premultiply") && cfg.Premultiply {
		opts.Premultiply = true
	}
	if !changed("unique") && cfg.Unique {
		opts.Unique = true
	}
	if !changed("no-shrink") && cfg.NoShrink {
		opts.NoShrink = true
	}
	if !changed("debug") && cfg.Debug {
		opts.Debug = true
	}
	if !changed("heuristic") && cfg.Heuristic != "" {
		opts.Heuristic = cfg.Heuristic
	}
	if !changed("extension") && cfg.Extension != "" {
		opts.Extension = cfg.Extension
	}
	if len(opts.Formats) == 0 && len(cfg.Formats) > 0 {
		opts.Formats = append([]string(nil), cfg.Formats...)
	}
	if !changed("jobs") && cfg.Jobs != 0 {
		opts.Jobs = cfg.Jobs
	}
}
