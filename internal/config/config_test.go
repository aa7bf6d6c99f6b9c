package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDecodesKnownFields(t *testing.T) {
	yaml := `
conflict_limit: 5000
witness: false
log_file: /tmp/cdclsat.log
`
	d, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)
	require.Equal(t, 5000, d.ConflictLimit)
	require.False(t, d.Witness)
	require.Equal(t, "/tmp/cdclsat.log", d.LogFile)
	require.True(t, d.Set["conflict_limit"])
	require.True(t, d.Set["witness"])
	require.True(t, d.Set["log_file"])
}

func TestLoadTracksOnlyFieldsActuallyPresent(t *testing.T) {
	d, err := Load(strings.NewReader("witness: true\n"))
	require.NoError(t, err)
	require.True(t, d.Set["witness"])
	require.False(t, d.Set["conflict_limit"])
	require.Equal(t, -1, d.ConflictLimit)
}

func TestLoadFileReportsAMissingFileWithoutError(t *testing.T) {
	_, found, err := LoadFile("/nonexistent/path/to/cdclsat.yaml")
	require.NoError(t, err)
	require.False(t, found)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(strings.NewReader("not: [valid"))
	require.Error(t, err)
}
