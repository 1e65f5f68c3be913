// Package catalog loads versioned risk calculation configurations.
package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Workup/internal/scoring"
)

//go:embed configs/*.yaml
var builtin embed.FS

// Catalog maps a configuration version to its configuration. It is
// read-only once built and safe for concurrent use.
type Catalog struct {
	configs map[string]*scoring.RiskCalculationConfig
}

// Default returns a catalog holding only the built-in configurations.
func Default() (*Catalog, error) {
	c := &Catalog{configs: make(map[string]*scoring.RiskCalculationConfig)}
	if err := c.addFS(builtin, "configs"); err != nil {
		return nil, fmt.Errorf("builtin configs: %w", err)
	}
	return c, nil
}

// Load returns the built-in configurations merged with every *.yaml / *.yml
// file in dir. A file may replace a built-in version but two files may not
// declare the same version. An empty dir loads only the built-ins.
func Load(dir string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}
	fromDir := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, dup := fromDir[cfg.Version]; dup {
			return nil, fmt.Errorf("%s: version %q already defined in %s", path, cfg.Version, prev)
		}
		fromDir[cfg.Version] = path
		c.configs[cfg.Version] = cfg
	}
	return c, nil
}

// Parse decodes and validates one configuration document. Unknown fields
// and unknown operators are rejected.
func Parse(data []byte) (*scoring.RiskCalculationConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg scoring.RiskCalculationConfig
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parse config: empty document")
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if strings.TrimSpace(cfg.Version) == "" {
		return nil, fmt.Errorf("config version is required")
	}
	if v := scoring.ValidateConfig(&cfg); !v.Valid {
		return nil, &scoring.ConfigError{Errors: v.Errors}
	}
	return &cfg, nil
}

// Get returns the configuration for version.
func (c *Catalog) Get(version string) (*scoring.RiskCalculationConfig, bool) {
	cfg, ok := c.configs[version]
	return cfg, ok
}

// Versions returns every known version, sorted.
func (c *Catalog) Versions() []string {
	out := make([]string, 0, len(c.configs))
	for v := range c.configs {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) addFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, dir+"/"+e.Name())
		if err != nil {
			return err
		}
		cfg, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Name(), err)
		}
		c.configs[cfg.Version] = cfg
	}
	return nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
