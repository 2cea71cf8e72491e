// Package load turns command-line flags into a shortgen.Generator.
package load

import (
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/broady/shortname/shortgen"
)

// Flags are shared by the gen and check commands.
type Flags struct {
	Packages []string `arg:"" optional:"" help:"Package patterns to scan (default: current directory)."`
	Config   string   `help:"YAML config file. Flags override its values." short:"c" type:"existingfile"`
	Dir      string   `help:"Working directory for package patterns." short:"C" type:"existingdir"`
	Out      string   `help:"Name of the generated file in each package." short:"o"`
	Types    []string `help:"Only generate these types." short:"t" name:"type"`
	Comments bool     `help:"Add doc comments to generated methods."`
	Set      []string `help:"Override a config key, as key=value." placeholder:"KEY=VALUE"`
}

// Generator builds the generator the flags describe.
func (f *Flags) Generator(logger *slog.Logger) (*shortgen.Generator, error) {
	cfg := &shortgen.Config{}
	if f.Config != "" {
		loaded, err := shortgen.LoadConfig(f.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	values, err := parseSettings(f.Set)
	if err != nil {
		return nil, err
	}
	if err := shortgen.ApplyValues(cfg, values); err != nil {
		return nil, err
	}
	// A dir set next to a config file is relative to it, as in the file.
	if f.Config != "" && values.Has("dir") && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(filepath.Dir(f.Config), cfg.Dir)
	}

	if len(f.Packages) > 0 {
		cfg.Packages = f.Packages
	}
	if len(cfg.Packages) == 0 {
		cfg.Packages = []string{"."}
	}
	if len(f.Types) > 0 {
		cfg.Types = f.Types
	}
	if f.Dir != "" {
		cfg.Dir = f.Dir
	}

	g := shortgen.FromConfig(cfg).WithLogger(logger)
	if f.Out != "" {
		g.OutFile(f.Out)
	}
	if f.Comments {
		g.WithComments()
	}
	return g, nil
}

func parseSettings(settings []string) (url.Values, error) {
	values := url.Values{}
	for _, s := range settings {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--set %q: want key=value", s)
		}
		values.Add(key, value)
	}
	return values, nil
}
