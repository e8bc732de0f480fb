package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gistfs/gistfs/model/vfs"
)

func TestParseRemovalArgs(t *testing.T) {
	gistID, names, err := parseRemovalArgs([]string{"gist://g1/a.txt", "gist://g1/b.txt"})
	require.NoError(t, err)
	assert.Equal(t, "g1", gistID)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)

	gistID, names, err = parseRemovalArgs([]string{"gist://g1"})
	require.NoError(t, err)
	assert.Equal(t, "g1", gistID)
	assert.Empty(t, names)
}

func TestParseRemovalArgsRejectsMixing(t *testing.T) {
	// a whole-gist removal must not silently swallow file arguments
	_, _, err := parseRemovalArgs([]string{"gist://g1", "gist://g1/a.txt"})
	assert.ErrorIs(t, err, vfs.ErrInvalidAddress)

	_, _, err = parseRemovalArgs([]string{"gist://g1/a.txt", "gist://g1"})
	assert.ErrorIs(t, err, vfs.ErrInvalidAddress)

	_, _, err = parseRemovalArgs([]string{"gist://g1/a.txt", "gist://g2/b.txt"})
	assert.ErrorIs(t, err, vfs.ErrInvalidAddress)

	_, _, err = parseRemovalArgs([]string{"gist://"})
	assert.ErrorIs(t, err, vfs.ErrInvalidAddress)
}
