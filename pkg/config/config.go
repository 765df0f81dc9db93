// Package config loads optional TOML configuration for an Analyzer.
// Constructing analyzer.Options by hand remains the primary path; this
// package exists for callers (notably cmd/npmtree) that want the same
// settings in a file instead of Go code.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/npmtree/pkg/analyzer"
	"github.com/matzehuels/npmtree/pkg/errs"
)

// DefaultPath is the file consulted when a caller doesn't name one
// explicitly.
const DefaultPath = "npmtree.toml"

// File is the on-disk shape of an npmtree.toml file.
type File struct {
	Registry  string            `toml:"registry"`
	TimeoutMS int               `toml:"timeout_ms"`
	Headers   map[string]string `toml:"headers"`
}

// Load reads and parses the TOML file at path into analyzer.Options. A
// missing file is not an error; it simply yields zero-value Options
// (analyzer.New's own defaults then apply).
func Load(path string) (analyzer.Options, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return analyzer.Options{}, nil
	}
	if err != nil {
		return analyzer.Options{}, errs.Wrap(errs.CodeInternal, err, "reading config file %q", path)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return analyzer.Options{}, errs.Wrap(errs.CodeInvalidArguments, err, "parsing config file %q", path)
	}

	opts := analyzer.Options{
		RegistryURL: f.Registry,
		Headers:     f.Headers,
	}
	if f.TimeoutMS > 0 {
		opts.Timeout = time.Duration(f.TimeoutMS) * time.Millisecond
	}
	return opts, nil
}
