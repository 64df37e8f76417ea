package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedFragments(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	html, err := r.Render("empty-state", map[string]string{"Title": "No murals", "Message": "<b>none</b>"})
	require.NoError(t, err)
	assert.Contains(t, html, "No murals")
	assert.Contains(t, html, "&lt;b&gt;none&lt;/b&gt;", "output is escaped")

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}

func TestReloadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.html"), []byte(`{{define "empty-state"}}custom {{.Title}}{{end}}`), 0644))

	r, err := New()
	require.NoError(t, err)
	require.NoError(t, r.Reload(dir))

	html, err := r.Render("empty-state", map[string]string{"Title": "t"})
	require.NoError(t, err)
	assert.Equal(t, "custom t", html)
}
