package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	t.Parallel()

	f, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, File{}, f)
}

func TestLoadParsesYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cilens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: https://gitlab.com\nproject: group/project\nlimit: 50\n"), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://gitlab.com", f.URL)
	require.Equal(t, "group/project", f.Project)
	require.Equal(t, 50, f.Limit)
}

func TestStringOrPrecedence(t *testing.T) {
	t.Setenv("CILENS_TEST_VAR", "from-env")

	require.Equal(t, "from-flag", StringOr("from-flag", "CILENS_TEST_VAR", "from-file"))
	require.Equal(t, "from-env", StringOr("", "CILENS_TEST_VAR", "from-file"))
	require.Equal(t, "from-file", StringOr("", "CILENS_UNSET_VAR", "from-file"))
}
