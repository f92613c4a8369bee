package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cespare/playground/internal/status"
)

func writeConf(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestParseNoFile(t *testing.T) {
	c, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Defaults, *c)
	assert.Equal(t, status.DefaultPath, c.StatusPath)
}

func TestParse(t *testing.T) {
	for _, tt := range []struct {
		text string
		want Conf
	}{
		{
			text: `debug = true`,
			want: Conf{Debug: true, StatusPath: "/proc/self/status", Allocator: "heap"},
		},
		{
			text: "status_path = \"/tmp/status\"\nallocator = \"redzone\"",
			want: Conf{StatusPath: "/tmp/status", Allocator: "redzone"},
		},
		{
			text: "",
			want: Defaults,
		},
	} {
		c, err := Parse(writeConf(t, tt.text))
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, *c, tt.text)
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse(writeConf(t, `graphite_addr = "localhost:2003"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graphite_addr")
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(writeConf(t, `debug = "yes`))
	assert.Error(t, err)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestEmptyFields(t *testing.T) {
	c := &Conf{Allocator: "guard"}
	assert.Equal(t, []string{"debug", "status_path"}, emptyFields(c))
}

func TestParseDoesNotModifyDefaults(t *testing.T) {
	before := Defaults
	c, err := Parse("")
	require.NoError(t, err)
	c.StatusPath = "/elsewhere"
	assert.Equal(t, before, Defaults)
}
