// Package config loads zinit settings from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/raymyers/zinit/pkg/ctypes"
	"github.com/raymyers/zinit/pkg/initgen"
	"github.com/raymyers/zinit/pkg/preproc"
)

type Config struct {
	Primitives  []string   `toml:"primitives"`
	IndexPrefix string     `toml:"index_prefix"`
	Indent      string     `toml:"indent"`
	RootName    string     `toml:"root_name"`
	Preprocess  Preprocess `toml:"preprocess"`
}

type Preprocess struct {
	External     bool              `toml:"external"`
	IncludePaths []string          `toml:"include_paths"`
	Defines      map[string]string `toml:"defines"`
	Undefines    []string          `toml:"undefines"`
}

const DefaultRootName = "testname"

// Default returns the settings used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the TOML file at path. Unset keys take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Primitives) == 0 {
		c.Primitives = append([]string(nil), ctypes.DefaultPrimitives...)
	}
	if c.IndexPrefix == "" {
		c.IndexPrefix = initgen.DefaultIndexPrefix
	}
	if c.Indent == "" {
		c.Indent = initgen.DefaultIndent
	}
	if c.RootName == "" {
		c.RootName = DefaultRootName
	}
}

// GenOptions converts the settings into generator options.
func (c *Config) GenOptions() initgen.Options {
	return initgen.Options{
		Primitives:  ctypes.NewSet(c.Primitives...),
		IndexPrefix: c.IndexPrefix,
		Indent:      c.Indent,
	}
}

// PreprocOptions converts the settings into header loading options.
func (c *Config) PreprocOptions() *preproc.Options {
	defines := make(map[string]string, len(c.Preprocess.Defines))
	for k, v := range c.Preprocess.Defines {
		defines[k] = v
	}
	return &preproc.Options{
		IncludePaths: append([]string(nil), c.Preprocess.IncludePaths...),
		Defines:      defines,
		Undefines:    append([]string(nil), c.Preprocess.Undefines...),
		UseExternal:  c.Preprocess.External,
	}
}
