package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartdip", prefsFile)

	p := LoadFrom(path)
	assert.Equal(t, "jet", p.StringWithFallback(KeyColormap, "jet"))
	assert.True(t, p.Bool(KeyDarkMode, true))

	p.SetString(KeyColormap, "viridis")
	p.SetBool(KeyDarkMode, false)
	p.SetFloat("split", 0.3)
	require.NoError(t, p.SaveIfChanged())

	q := LoadFrom(path)
	assert.Equal(t, "viridis", q.String(KeyColormap))
	assert.False(t, q.Bool(KeyDarkMode, true))
	assert.InDelta(t, 0.3, q.FloatWithFallback("split", 0), 1e-9)
	assert.InDelta(t, 2.0, q.FloatWithFallback("missing", 2), 1e-9)
}

func TestPrefsSaveIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	p := LoadFrom(path)

	require.NoError(t, p.SaveIfChanged())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing written without changes")

	p.SetString(KeyLastDir, "/tmp")
	require.NoError(t, p.SaveIfChanged())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPrefsWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"colormap": 3, "darkMode": "yes"}`), 0o644))

	p := LoadFrom(path)
	assert.Equal(t, "hot", p.StringWithFallback(KeyColormap, "hot"))
	assert.True(t, p.Bool(KeyDarkMode, true))
}
