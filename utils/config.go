package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the command-line options in a YAML file, and adds the entry
// assumptions of the client analyses, which have no flag counterpart.
// Fields missing from the file keep the flag defaults.
type Config struct {
	Task       string  `yaml:"task"`
	Function   string  `yaml:"fun"`
	Lang       string  `yaml:"lang"`
	Format     string  `yaml:"format"`
	Out        string  `yaml:"out"`
	Verbose    bool    `yaml:"verbose"`
	NoColorize bool    `yaml:"no-colorize"`
	Visualize  bool    `yaml:"visualize"`
	Minlen     uint    `yaml:"minlen"`
	Nodesep    float64 `yaml:"nodesep"`

	Liveness LivenessConfig `yaml:"liveness"`
	Nullness NullnessConfig `yaml:"nullness"`

	sourceFile string
}

type LivenessConfig struct {
	// LiveOut lists the names considered live after the routine returns.
	LiveOut []string `yaml:"live-out"`
}

type NullnessConfig struct {
	// NonNullParams assumes every parameter to be non-null on entry.
	NonNullParams bool `yaml:"non-null-params"`
	// NonNull lists names assumed to be non-null on entry.
	NonNull []string `yaml:"non-null"`
}

// NewDefault returns a configuration holding the flag defaults.
func NewDefault() *Config {
	return &Config{
		Task:       opts.task,
		Function:   opts.function,
		Lang:       opts.lang,
		Format:     opts.outputFormat,
		Out:        opts.outDir,
		Verbose:    opts.verbose,
		NoColorize: opts.noColorize,
		Visualize:  opts.visualize,
		Minlen:     opts.minlen,
		Nodesep:    opts.nodesep,
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}

	cfg.sourceFile = filename
	return cfg, nil
}

// SourceFile is the file the configuration was loaded from.
func (c *Config) SourceFile() string {
	return c.sourceFile
}

// apply copies the configuration into the global options, except for the
// options named in explicit, which were set on the command line.
func (c *Config) apply(explicit map[string]bool) {
	set := func(name string, do func()) {
		if !explicit[name] {
			do()
		}
	}

	set("task", func() { opts.task = c.Task })
	set("fun", func() { opts.function = c.Function })
	set("lang", func() { opts.lang = c.Lang })
	set("format", func() { opts.outputFormat = c.Format })
	set("out", func() { opts.outDir = c.Out })
	set("verbose", func() { opts.verbose = c.Verbose })
	set("no-colorize", func() { opts.noColorize = c.NoColorize })
	set("visualize", func() { opts.visualize = c.Visualize })
	set("minlen", func() { opts.minlen = c.Minlen })
	set("nodesep", func() { opts.nodesep = c.Nodesep })

	opts.liveOut = c.Liveness.LiveOut
	opts.nonNullParams = c.Nullness.NonNullParams
	opts.nonNull = c.Nullness.NonNull
}
