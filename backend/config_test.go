package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dweymouth/sonicbridge/backend/labels"
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	c, err := LoadConfig(t.TempDir(), "sonicbridge-test")
	require.NoError(t, err)
	assert.Empty(t, c.Servers)
	assert.Equal(t, "sonicbridge-test", c.HTTP.ClientName)
	assert.Equal(t, labels.DefaultBatchSize, c.Labels.BatchSize)
	_, err = uuid.Parse(c.HTTP.DeviceID)
	assert.NoError(t, err)
}

func TestReadConfigFileBackfillsServerType(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	id := uuid.New()
	require.NoError(t, os.WriteFile(path, []byte(`
[[Servers]]
ID = "`+id.String()+`"
Hostname = "http://music.local"
Username = "alice"
Default = true

[Labels]
BatchSize = 500
`), 0644))

	c, err := ReadConfigFile(path, "sonicbridge-test")
	require.NoError(t, err)
	require.Len(t, c.Servers, 1)
	assert.Equal(t, mediaprovider.ServerTypeSubsonic, c.Servers[0].ServerType)
	assert.Same(t, c.Servers[0], c.ServerByID(id))
	assert.Same(t, c.Servers[0], c.DefaultServer())
	assert.Equal(t, 500, c.Labels.BatchSize)
	assert.Equal(t, 30, c.HTTP.TimeoutSeconds)
	assert.NotEmpty(t, c.HTTP.DeviceID)
}

func TestWriteConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	c := DefaultConfig("sonicbridge-test")
	c.Servers = append(c.Servers, &ServerConfig{
		ServerConnection: ServerConnection{ServerType: mediaprovider.ServerTypeJellyfin, Hostname: "http://jf", Username: "bob"},
		ID:               uuid.New(),
		Nickname:         "jf",
	})
	require.NoError(t, c.WriteConfigFile(path))

	read, err := ReadConfigFile(path, "sonicbridge-test")
	require.NoError(t, err)
	assert.Equal(t, c, read)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SONICBRIDGE_LOG_LEVEL":        "debug",
		"SONICBRIDGE_SKIP_SSL_VERIFY":  "true",
		"SONICBRIDGE_LABEL_BATCH_SIZE": "250",
		"SONICBRIDGE_HTTP_TIMEOUT":     "soon",
	}
	c := DefaultConfig("sonicbridge-test")
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.HTTP.SkipSSLVerify)
	assert.Equal(t, 250, c.Labels.BatchSize)
	assert.Equal(t, 30, c.HTTP.TimeoutSeconds)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	const key = "SONICBRIDGE_LABEL_TIMEOUT"
	require.NoError(t, os.WriteFile(filepath.Join(dir, envFile), []byte(key+"=42\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(key) })

	c, err := LoadConfig(dir, "sonicbridge-test")
	require.NoError(t, err)
	assert.Equal(t, 42, c.Labels.TimeoutSeconds)
	assert.Equal(t, 42, int(c.LabelOptions().Timeout.Seconds()))
}
