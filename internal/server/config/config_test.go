package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:8000", c.EndpointAddrHTTP)
	assert.Equal(t, StorageMongo, c.Storage)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "users", c.MongoDatabase)
	assert.Equal(t, "users_collection", c.MongoCollection)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, c.ReadHeaderTimeout)
	assert.Equal(t, 0, c.ConnLimit)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeTempFile(t, "cfg.json", `{"endpoint_addr_http": ":9000", "storage": "postgres"}`)

	c, err := Load([]string{"-c", path, "-a", ":9100"})
	require.NoError(t, err)

	assert.Equal(t, ":9100", c.EndpointAddrHTTP)
	assert.Equal(t, StoragePostgres, c.Storage)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load([]string{"-c", "/does/not/exist.json"})
	assert.Error(t, err)
}

func TestLoad_BadFlag(t *testing.T) {
	_, err := Load([]string{"-k", "many"})
	assert.Error(t, err)
}
