package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Init(path))

	assert.Equal(t, "http://localhost:8787", GetString("api.base_url"))
	assert.Equal(t, 30, GetInt("api.timeout"))
	assert.Equal(t, "text", GetString("output.format"))
	assert.Equal(t, 20, GetInt("feed.page_size"))
	assert.Equal(t, 7, GetInt("feed.top_window_days"))
	assert.Equal(t, 30000, GetInt("realtime.heartbeat_interval_ms"))
}

func TestInitReadsUserConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"https://api.touchgrass.app\"\n\n[feed]\npage_size = 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	require.NoError(t, Init(path))

	assert.Equal(t, "https://api.touchgrass.app", GetString("api.base_url"))
	assert.Equal(t, 50, GetInt("feed.page_size"))
}

func TestDerivedPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "credentials"), GetCredentialsPath())
	assert.Equal(t, filepath.Join(dir, "bookmarks.json"), GetBookmarksPath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	assert.Equal(t, "/var/log/x.log", expandPath("/var/log/x.log"))
}
