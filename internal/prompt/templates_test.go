package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates_Embedded(t *testing.T) {
	tmpls, err := LoadTemplates("")
	require.NoError(t, err)
	assert.NotNil(t, tmpls.Critique)
	assert.NotNil(t, tmpls.KeyPoints)
	assert.NotNil(t, tmpls.Cloze)
	assert.NotNil(t, tmpls.Enhance)
}

func TestLoadTemplates_DiskOverride(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"critique.tmpl", "keypoints.tmpl", "cloze.tmpl", "enhance.tmpl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("custom: {{.SourceText}}"), 0o644))
	}

	tmpls, err := LoadTemplates(dir)
	require.NoError(t, err)

	out, err := render(tmpls.Critique, critiqueData{SourceText: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "custom: hello", out)
}

func TestLoadTemplates_MissingDiskFile(t *testing.T) {
	_, err := LoadTemplates(t.TempDir())
	assert.Error(t, err)
}
