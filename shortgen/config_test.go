package shortgen

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyConfigDefaults(t *testing.T) {
	cfg := &Config{Packages: []string{"./..."}}
	got := applyConfigDefaults(cfg)

	assert.Equal(t, "shortname_gen.go", got.OutFile)
	assert.NotNil(t, got.Logger)
	assert.Empty(t, cfg.OutFile, "input must not be mutated")
	assert.Nil(t, cfg.Logger, "input must not be mutated")

	custom := applyConfigDefaults(&Config{OutFile: "names_gen.go"})
	assert.Equal(t, "names_gen.go", custom.OutFile)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "minimal",
			cfg:  Config{Packages: []string{"./internal/shapes"}},
		},
		{
			name: "full",
			cfg:  Config{Packages: []string{"./a", "./b"}, Types: []string{"Shape"}, OutFile: "names_gen.go", EmitComments: true},
		},
		{
			name:    "no packages",
			cfg:     Config{},
			wantErr: []string{"packages: required"},
		},
		{
			name:    "empty packages",
			cfg:     Config{Packages: []string{}},
			wantErr: []string{"packages: must have at least 1 entries"},
		},
		{
			name:    "empty package entry",
			cfg:     Config{Packages: []string{"./a", ""}},
			wantErr: []string{"packages[1]: required"},
		},
		{
			name:    "empty type entry",
			cfg:     Config{Packages: []string{"./a"}, Types: []string{""}},
			wantErr: []string{"types[0]: required"},
		},
		{
			name:    "not a go file",
			cfg:     Config{Packages: []string{"./a"}, OutFile: "names.txt"},
			wantErr: []string{"outFile: must end with .go"},
		},
		{
			name:    "nested out file",
			cfg:     Config{Packages: []string{"./a"}, OutFile: "gen/names.go"},
			wantErr: []string{"outFile: must be a bare file name"},
		},
		{
			name:    "every problem reported",
			cfg:     Config{OutFile: "x.txt"},
			wantErr: []string{"packages: required", "outFile: must end with .go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shortname.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`packages:
  - ./internal/shapes
types: [Shape, Celsius]
outFile: names_gen.go
emitComments: true
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"./internal/shapes"}, cfg.Packages)
	assert.Equal(t, []string{"Shape", "Celsius"}, cfg.Types)
	assert.Equal(t, "names_gen.go", cfg.OutFile)
	assert.True(t, cfg.EmitComments)
	assert.Equal(t, dir, cfg.Dir, "dir defaults to the config file's directory")
}

func TestLoadConfig_RelativeDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shortname.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: [./...]\ndir: module\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "module"), cfg.Dir)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown key", content: "packages: [./...]\noutput: x.go\n", wantErr: "output"},
		{name: "bad yaml", content: "packages: [./...\n", wantErr: "failed to parse"},
		{name: "invalid", content: "outFile: names.txt\n", wantErr: "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shortname.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestApplyValues(t *testing.T) {
	cfg := &Config{Packages: []string{"./a"}, Types: []string{"A"}}

	err := ApplyValues(cfg, url.Values{
		"packages":     {"./b", "./c"},
		"outFile":      {"names_gen.go"},
		"emitComments": {"true"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"./b", "./c"}, cfg.Packages)
	assert.Equal(t, []string{"A"}, cfg.Types, "unset keys are kept")
	assert.Equal(t, "names_gen.go", cfg.OutFile)
	assert.True(t, cfg.EmitComments)

	require.NoError(t, ApplyValues(cfg, nil))
}

func TestApplyValues_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{name: "unknown key", values: url.Values{"output": {"x.go"}}},
		{name: "bad bool", values: url.Values{"emitComments": {"maybe"}}},
		{name: "hidden field", values: url.Values{"Logger": {"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyValues(&Config{}, tt.values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid setting")
		})
	}
}
