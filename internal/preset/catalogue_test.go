package preset

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/proftune/internal/errors"
)

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"esports", "competitive", "balanced", "quality", "performance"}, c.IDs())
	assert.Equal(t, "1.0.0", c.Version())
	assert.NotEmpty(t, c.Rules())

	esports, err := c.Get("esports")
	require.NoError(t, err)
	assert.Equal(t, "Esports Pro", esports.Name)
	v, ok := esports.Value("GstRender.FrameRateLimit")
	assert.True(t, ok)
	assert.Equal(t, "240.000000", v, "raw formatting must be kept")

	quality, err := c.Get("quality")
	require.NoError(t, err)
	v, _ = quality.Value("GstRender.ResolutionScale")
	assert.Equal(t, "1.2", v)

	for _, p := range c.All() {
		assert.NoError(t, c.checkRules(p), "preset %s", p.ID)
	}
}

func TestCatalogue_GetUnknown(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	_, err = c.Get("ultra")
	assert.True(t, errors.Is(err, ErrPresetNotFound), "error = %v", err)
	assert.Contains(t, err.Error(), "esports")
}

func TestParseCatalogue_YAML(t *testing.T) {
	data := `schema_version: "1.2.0"
presets:
  - id: streaming
    name: Streaming
    settings:
      GstRender.FrameRateLimit: "120.000000"
      GstRender.VSyncMode: 0
      GstRender.Dx12Enabled: true
      GstRender.ResolutionScale: 0.9
rules:
  - key: GstRender.VSyncMode
    type: int
    min: 0
    max: 2
`
	c, err := ParseCatalogue([]byte(data), "yaml")
	require.NoError(t, err)

	p, err := c.Get("streaming")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GstRender.FrameRateLimit":  "120.000000",
		"GstRender.VSyncMode":       "0",
		"GstRender.Dx12Enabled":     "1",
		"GstRender.ResolutionScale": "0.9",
	}, p.Entries())
	assert.Len(t, c.Rules(), 1)
}

func TestParseCatalogue_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"unsupported format", "json", `{}`},
		{"bad toml", "toml", `schema_version = `},
		{"missing schema", "toml", "[[preset]]\nid = \"a\"\n[preset.settings]\n\"a.b\" = \"1\"\n"},
		{"schema too new", "toml", "schema_version = \"2.0.0\"\n"},
		{"schema not semver", "toml", "schema_version = \"one\"\n"},
		{"bad id", "toml", "schema_version = \"1.0.0\"\n[[preset]]\nid = \"Bad ID\"\n[preset.settings]\n\"a.b\" = \"1\"\n"},
		{"no settings", "toml", "schema_version = \"1.0.0\"\n[[preset]]\nid = \"a\"\n"},
		{"duplicate id", "toml", "schema_version = \"1.0.0\"\n[[preset]]\nid = \"a\"\n[preset.settings]\n\"a.b\" = \"1\"\n[[preset]]\nid = \"a\"\n[preset.settings]\n\"a.b\" = \"2\"\n"},
		{"value with newline", "toml", "schema_version = \"1.0.0\"\n[[preset]]\nid = \"a\"\n[preset.settings]\n\"a.b\" = \"1\\n2\"\n"},
		{"rule violation", "toml", "schema_version = \"1.0.0\"\n[[preset]]\nid = \"a\"\n[preset.settings]\n\"a.b\" = \"5\"\n[[rule]]\nkey = \"a.b\"\ntype = \"int\"\nmax = 2.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogue([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalogue), "error = %v", err)
		})
	}
}

func TestLoadCatalogue_Merge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	data := `schema_version = "1.1.0"

[[preset]]
id = "esports"
name = "My Esports"

[preset.settings]
"GstRender.FrameRateLimit" = "360.000000"

[[preset]]
id = "streaming"

[preset.settings]
"GstRender.VSyncMode" = "1"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadCatalogue(path)
	require.NoError(t, err)

	ids := c.IDs()
	assert.Equal(t, "esports", ids[0], "replaced preset keeps its position")
	assert.Equal(t, "streaming", ids[len(ids)-1])
	assert.Equal(t, "1.1.0", c.Version())

	p, err := c.Get("esports")
	require.NoError(t, err)
	assert.Equal(t, "My Esports", p.Name)
	assert.Equal(t, 1, p.Len())

	s, err := c.Get("streaming")
	require.NoError(t, err)
	assert.Equal(t, "streaming", s.Name, "name defaults to id")

	// The built-in catalogue is not modified by a merge.
	b, err := Builtin()
	require.NoError(t, err)
	assert.False(t, slices.Contains(b.IDs(), "streaming"))
}

func TestLoadCatalogue_Empty(t *testing.T) {
	c, err := LoadCatalogue("")
	require.NoError(t, err)
	assert.Len(t, c.IDs(), 5)
}

func TestLoadCatalogue_Missing(t *testing.T) {
	_, err := LoadCatalogue(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalogue_MergeRuleViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yml")
	data := `schema_version: "1.0.0"
rules:
  - key: GstRender.FrameRateLimit
    type: float
    max: 100
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadCatalogue(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCatalogue), "error = %v", err)
}
