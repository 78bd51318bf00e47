package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/curves"
)

// config is everything needed to sample one curve. It is read from a YAML
// file, then overridden by flags.
type config struct {
	Expression string        `yaml:"expression"`
	Variable   string        `yaml:"variable"`
	Domain     curves.Domain `yaml:"domain"`
	Workers    int           `yaml:"workers"`
	Format     string        `yaml:"format"`
}

func defaultConfig() config {
	return config{
		Variable: curves.DefaultVariable,
		Domain:   curves.DefaultDomain(),
		Format:   "text",
	}
}

// decodeConfig reads YAML over base. Keys absent from the document keep their
// values from base.
func decodeConfig(r io.Reader, base config) (config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return base, err
	}
	cfg := base
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// invocation is the parsed command line.
type invocation struct {
	// conf and in are the config and expression file names.
	conf, in string
	// args are the positional arguments, joined to form the expression.
	args []string
	// flags holds flag values, and set names the flags given explicitly.
	flags config
	set   map[string]bool
	// stdin is read when no other source provides an expression.
	stdin io.Reader
}

// load resolves the configuration from the config file, the expression
// sources, and the flags, in increasing order of priority.
func (inv *invocation) load() (config, error) {
	cfg := defaultConfig()
	if inv.conf != "" {
		f, err := os.Open(inv.conf)
		if err != nil {
			return cfg, err
		}
		cfg, err = decodeConfig(f, cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("reading %s: %w", inv.conf, err)
		}
	}
	override := map[string]func(){
		"var":     func() { cfg.Variable = inv.flags.Variable },
		"xmin":    func() { cfg.Domain.XMin = inv.flags.Domain.XMin },
		"xmax":    func() { cfg.Domain.XMax = inv.flags.Domain.XMax },
		"n":       func() { cfg.Domain.Count = inv.flags.Domain.Count },
		"workers": func() { cfg.Workers = inv.flags.Workers },
		"format":  func() { cfg.Format = inv.flags.Format },
	}
	for name, f := range override {
		if inv.set[name] {
			f()
		}
	}
	switch {
	case len(inv.args) != 0:
		cfg.Expression = strings.Join(inv.args, " ")
	case inv.in == "-":
		if err := readExpr(&cfg, inv.stdin); err != nil {
			return cfg, err
		}
	case inv.in != "":
		b, err := os.ReadFile(inv.in)
		if err != nil {
			return cfg, err
		}
		cfg.Expression = strings.TrimSpace(string(b))
	case cfg.Expression == "" && inv.stdin != nil:
		if err := readExpr(&cfg, inv.stdin); err != nil {
			return cfg, err
		}
	}
	if cfg.Expression == "" {
		return cfg, fmt.Errorf("no expression given")
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return cfg, fmt.Errorf("unknown output format %q", cfg.Format)
	}
	if err := cfg.Domain.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readExpr(cfg *config, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	cfg.Expression = strings.TrimSpace(string(b))
	return nil
}

// watched returns the files whose changes alter the configuration.
func (inv *invocation) watched() []string {
	var files []string
	if inv.conf != "" {
		files = append(files, inv.conf)
	}
	if inv.in != "" && inv.in != "-" {
		files = append(files, inv.in)
	}
	return files
}
