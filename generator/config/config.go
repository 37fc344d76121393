// Package config loads the configuration of patchview. Configuration is read from a TOML file
// and can be overridden by command line flags:
//
//	context = 3
//	algorithm = "myers"
//	indent_heuristic = true
//	addr = "localhost:8080"
//	title = "Reviews"
//	base_url = "https://reviews.example.com"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"znkr.io/patchview/generator/edits"
	"znkr.io/patchview/generator/site"
	"znkr.io/patchview/patchscript"
)

// FileName is the name of the configuration file looked up in a site directory.
const FileName = "patchview.toml"

type Config struct {
	Context         int    `toml:"context"`
	Algorithm       string `toml:"algorithm"`
	IndentHeuristic bool   `toml:"indent_heuristic"`
	Addr            string `toml:"addr"`
	Title           string `toml:"title"`
	BaseURL         string `toml:"base_url"`
}

// Default returns the configuration used if there's no configuration file.
func Default() *Config {
	opts := site.DefaultOptions()
	return &Config{
		Context:   opts.Context,
		Algorithm: opts.Algorithm.String(),
		Addr:      "localhost:8080",
		Title:     opts.Title,
		BaseURL:   opts.BaseURL,
	}
}

// Load loads the configuration file at path. Keys missing in the file keep their default value, a
// missing file results in the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Path returns the path of the configuration file for the site in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// RegisterFlags adds flags for all configuration keys that can be set on the command line.
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.Int("context", def.Context, "number of context lines around changes, -1 shows whole files")
	flags.String("algorithm", def.Algorithm, "diff algorithm (myers or dmp)")
	flags.Bool("indent-heuristic", def.IndentHeuristic, "shift changes to align with indentation")
}

// Override replaces all values in c with the values of flags that have been set explicitly.
func (c *Config) Override(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("context") {
		if c.Context, err = flags.GetInt("context"); err != nil {
			return err
		}
	}
	if flags.Changed("algorithm") {
		if c.Algorithm, err = flags.GetString("algorithm"); err != nil {
			return err
		}
	}
	if flags.Changed("indent-heuristic") {
		if c.IndentHeuristic, err = flags.GetBool("indent-heuristic"); err != nil {
			return err
		}
	}
	if flags.Changed("addr") {
		if c.Addr, err = flags.GetString("addr"); err != nil {
			return err
		}
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Context < patchscript.WholeFile {
		return fmt.Errorf("%w: %d", patchscript.ErrInvalidContext, c.Context)
	}
	if _, err := edits.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	return nil
}

// EditOptions returns the options to compute edits with.
func (c *Config) EditOptions() ([]edits.Option, error) {
	algo, err := edits.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	opts := []edits.Option{edits.WithAlgorithm(algo)}
	if c.IndentHeuristic {
		opts = append(opts, edits.IndentHeuristic())
	}
	return opts, nil
}

// SiteOptions returns the options to load a site with.
func (c *Config) SiteOptions() (site.Options, error) {
	algo, err := edits.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return site.Options{}, err
	}
	return site.Options{
		Title:           c.Title,
		BaseURL:         c.BaseURL,
		Context:         c.Context,
		Algorithm:       algo,
		IndentHeuristic: c.IndentHeuristic,
	}, nil
}
