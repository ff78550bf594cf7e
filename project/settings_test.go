package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/mlx/project"
	"go.jacobcolvin.com/mlx/stringtest"
)

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		file    string
		content string
	}{
		"json": {
			file:    "settings.json",
			content: `{"model": {"name": "bert", "layers": [{"size": 768}, {"size": 1024}]}, "seed": 42}`,
		},
		"yaml": {
			file: "settings.yaml",
			content: stringtest.Input(`
				model:
				  name: bert
				  layers:
				    - size: 768
				    - size: 1024
				seed: 42
			`),
		},
		"toml": {
			file: "settings.toml",
			content: stringtest.Input(`
				seed = 42

				[model]
				name = "bert"

				[[model.layers]]
				size = 768

				[[model.layers]]
				size = 1024
			`),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			s, err := project.LoadSettings(path)
			require.NoError(t, err)
			assert.Equal(t, path, s.Path())

			got, err := s.Get("model.name")
			require.NoError(t, err)
			assert.Equal(t, "bert", got)

			got, err = s.Get("model.layers.1.size")
			require.NoError(t, err)
			assert.EqualValues(t, 1024, got)

			got, err = s.Get("seed")
			require.NoError(t, err)
			assert.EqualValues(t, 42, got)

			all, err := s.Get("")
			require.NoError(t, err)
			assert.IsType(t, map[string]any{}, all)

			for _, key := range []string{"model.missing", "model.layers.2.size", "model.layers.x", "seed.value"} {
				_, err = s.Get(key)
				require.ErrorIs(t, err, project.ErrKeyNotFound, key)
			}
		})
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := project.LoadSettings(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	ini := filepath.Join(dir, "settings.ini")
	require.NoError(t, os.WriteFile(ini, []byte("a=1"), 0o600))

	_, err = project.LoadSettings(ini)
	require.ErrorIs(t, err, project.ErrUnknownSettingsFormat)

	bad := filepath.Join(dir, "settings.toml")
	require.NoError(t, os.WriteFile(bad, []byte("= nope"), 0o600))

	_, err = project.LoadSettings(bad)
	require.Error(t, err)

	s, err := project.ParseSettings([]byte("{}"), ".yaml")
	require.NoError(t, err)

	_, err = s.Get("a")
	require.ErrorIs(t, err, project.ErrKeyNotFound)
}
