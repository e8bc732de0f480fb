package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestConfig(t *testing.T, content string) string {
	t.Helper()
	viper.Reset()
	path := filepath.Join(t.TempDir(), "gistfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, Setup(path))
	return path
}

func TestSetupDefaults(t *testing.T) {
	setupTestConfig(t, "")
	assert.Equal(t, "name", SortType())
	assert.Equal(t, "asc", SortDirection())
	assert.Equal(t, "info", LogLevel())
	assert.Empty(t, Token())
}

func TestSetupMissingFileIsFine(t *testing.T) {
	viper.Reset()
	assert.NoError(t, Setup(""))
}

func TestSetupReadsValues(t *testing.T) {
	setupTestConfig(t, `
github:
  token: tok123
sort:
  type: updated
  direction: desc
log:
  level: debug
followed_users:
  - octocat
`)
	assert.Equal(t, "tok123", Token())
	assert.Equal(t, "updated", SortType())
	assert.Equal(t, "desc", SortDirection())
	assert.Equal(t, "debug", LogLevel())
	assert.Equal(t, []string{"octocat"}, FollowedUsers())
}

func TestFollowedUsersRoundTrip(t *testing.T) {
	setupTestConfig(t, "")

	require.NoError(t, AddFollowedUser("octocat"))
	require.NoError(t, AddFollowedUser("monalisa"))
	// logins compare case-insensitively
	require.NoError(t, AddFollowedUser("OctoCat"))
	assert.Equal(t, []string{"octocat", "monalisa"}, FollowedUsers())

	require.NoError(t, RemoveFollowedUser("OCTOCAT"))
	assert.Equal(t, []string{"monalisa"}, FollowedUsers())
}

func TestOpenedGistsRoundTrip(t *testing.T) {
	path := setupTestConfig(t, "")

	require.NoError(t, OpenGist("abc123"))
	require.NoError(t, OpenGist("abc123"))
	require.NoError(t, OpenGist("def456"))
	assert.Equal(t, []string{"abc123", "def456"}, OpenedGists())

	require.NoError(t, CloseGist("abc123"))
	assert.Equal(t, []string{"def456"}, OpenedGists())

	// the state survives a reload of the file
	viper.Reset()
	require.NoError(t, Setup(path))
	assert.Equal(t, []string{"def456"}, OpenedGists())
}

func TestSetSortPersists(t *testing.T) {
	path := setupTestConfig(t, "")

	require.NoError(t, SetSort("created", "desc"))

	viper.Reset()
	require.NoError(t, Setup(path))
	assert.Equal(t, "created", SortType())
	assert.Equal(t, "desc", SortDirection())
}
