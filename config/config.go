// Package config loads the dashboard configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileName is the name the configuration file is looked for under.
const FileName = "assets/config.json"

// ErrNotFound is returned by Load when no candidate could be loaded.
var ErrNotFound = errors.New("no usable configuration file")

type Config struct {
	// HomePage is the path of the dashboard's entry point inside the
	// asset bundle.
	HomePage string   `json:"home_page" yaml:"home_page"`
	Widgets  []Widget `json:"widgets" yaml:"widgets"`
}

// Widget is a dashboard widget definition. Its fields depend on the
// widget's type.
type Widget map[string]any

// Type returns the widget's "type" field.
func (w Widget) Type() string {
	t, _ := w["type"].(string)
	return t
}

// Candidate is a place a configuration file might be. If FS is nil,
// Path is a path on disk.
type Candidate struct {
	FS   fs.FS
	Path string
}

func (c Candidate) String() string {
	if c.FS != nil {
		return "embedded:" + c.Path
	}
	return c.Path
}

func (c Candidate) read() ([]byte, error) {
	if c.FS != nil {
		return fs.ReadFile(c.FS, c.Path)
	}
	return os.ReadFile(c.Path)
}

// Candidates returns the places to look for a configuration file, in
// order: the embedded assets, the executable's directory, the working
// directory and its parent. Empty arguments are skipped.
func Candidates(assets fs.FS, exeDir, workDir string) []Candidate {
	var candidates []Candidate
	if assets != nil {
		candidates = append(candidates, Candidate{FS: assets, Path: FileName})
	}
	if exeDir != "" {
		candidates = append(candidates, Candidate{Path: filepath.Join(exeDir, FileName)})
	}
	if workDir != "" {
		candidates = append(
			candidates,
			Candidate{Path: filepath.Join(workDir, FileName)},
			Candidate{Path: filepath.Join(workDir, "..", FileName)},
		)
	}
	return candidates
}

// DefaultCandidates is Candidates for the running process.
func DefaultCandidates(assets fs.FS) []Candidate {
	var exeDir string
	if exe, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exe)
	}
	workDir, _ := os.Getwd()
	return Candidates(assets, exeDir, workDir)
}

// Load returns the first candidate that can be read and parsed.
func Load(candidates []Candidate, logger *slog.Logger) (*Config, Candidate, error) {
	var errs []error
	for _, c := range candidates {
		config, err := loadCandidate(c)
		if err != nil {
			logger.Debug("config candidate rejected", "path", c, "err", err)
			errs = append(errs, err)
			continue
		}

		logger.Info("config loaded", "path", c, "home_page", config.HomePage, "widgets", len(config.Widgets))
		return config, c, nil
	}

	return nil, Candidate{}, fmt.Errorf("%w: %w", ErrNotFound, errors.Join(errs...))
}

func loadCandidate(c Candidate) (*Config, error) {
	data, err := c.read()
	if err != nil {
		return nil, fmt.Errorf("read %v: %w", c, err)
	}

	config, err := Parse(data, c.Path)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", c, err)
	}
	return config, nil
}

// Parse parses a configuration file. YAML is used for .yaml and .yml
// files. Anything else is JSON, which may contain comments and trailing
// commas.
func Parse(data []byte, name string) (*Config, error) {
	var config Config
	if isYAML(name) {
		err := yaml.Unmarshal(data, &config)
		if err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return &config, nil
	}

	err := json.Unmarshal(jsonc.ToJSON(data), &config)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return &config, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// CheckHomePage returns an error if the home page is not set or does
// not exist in bundle.
func (c *Config) CheckHomePage(bundle fs.FS) error {
	if c.HomePage == "" {
		return errors.New("home_page is not set")
	}
	_, err := fs.Stat(bundle, c.HomePage)
	if err != nil {
		return fmt.Errorf("home page %q: %w", c.HomePage, err)
	}
	return nil
}
