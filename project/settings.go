package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrUnknownSettingsFormat indicates a settings file extension other
	// than .json, .yaml, .yml and .toml.
	ErrUnknownSettingsFormat = errors.New("unknown settings format")
	// ErrKeyNotFound indicates a missing settings key.
	ErrKeyNotFound = errors.New("key not found")
)

// Settings holds project-level constants loaded from a file.
//
// Create instances with [LoadSettings] or [ParseSettings].
type Settings struct {
	data map[string]any
	path string
}

// LoadSettings reads the settings file at path. JSON and YAML files are
// parsed with [yaml.Unmarshal], TOML files with [toml.Unmarshal].
func LoadSettings(path string) (*Settings, error) {
	b, err := os.ReadFile(path) //nolint:gosec // Settings path is chosen by the caller.
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	s, err := ParseSettings(b, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.path = path

	return s, nil
}

// ParseSettings parses b in the format named by ext, e.g. ".toml".
func ParseSettings(b []byte, ext string) (*Settings, error) {
	data := map[string]any{}

	var err error

	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml":
		err = yaml.Unmarshal(b, &data)
	case ".toml":
		err = toml.Unmarshal(b, &data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettingsFormat, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if data == nil {
		data = map[string]any{}
	}

	return &Settings{data: data}, nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string {
	return s.path
}

// Get returns the value under a dotted key such as "model.layers.0.size".
// Numeric segments index into lists. An empty key returns all settings.
func (s *Settings) Get(key string) (any, error) {
	var cur any = s.data
	if key == "" {
		return cur, nil
	}

	for seg := range strings.SplitSeq(key, ".") {
		switch x := cur.(type) {
		case map[string]any:
			v, ok := x[seg]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
			}

			cur = v

		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(x) {
				return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
			}

			cur = x[i]

		default:
			return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
		}
	}

	return cur, nil
}
