package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
log_level: "debug"
http:
  host: "127.0.0.1"
  port: "9000"
  shutdown_timeout: "3s"
  cors_origins: ["https://rh.example.org"]
storage:
  driver: "dynamodb"
  dynamo:
    region: "sa-east-1"
    endpoint: "http://localhost:8000"
    tables:
      profiles: "prod_profiles"
auth:
  jwt_secret: "s3cret"
  manager_ids: ["GGT", "RH01"]
reference:
  path: "/etc/movimenta/reference.yaml"
  ttl: "10m"
s3:
  bucket: "avatars"
matching:
  page_size: 20
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0.0.0:8080", HTTPConfig{Host: "0.0.0.0", Port: "8080"}.Addr())
}

func TestLoad_ExplicitPath(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"https://rh.example.org"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, DriverDynamo, cfg.Storage.Driver)
	assert.Equal(t, "sa-east-1", cfg.Storage.Dynamo.Region)
	assert.Equal(t, "prod_profiles", cfg.Storage.Dynamo.Tables.Profiles)
	assert.Equal(t, []string{"GGT", "RH01"}, cfg.Auth.ManagerIDs)
	assert.Equal(t, 10*time.Minute, cfg.Reference.TTL)
	assert.Equal(t, "avatars", cfg.S3.Bucket)
	assert.Equal(t, 5*time.Minute, cfg.S3.PresignExpiry)
	assert.Equal(t, 20, cfg.Matching.PageSize)
}

func TestLoad_EnvOverlaysFile(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)
	t.Setenv("MATCHING_PAGE_SIZE", "7")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Matching.PageSize)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "other.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
}

func TestLoad_LocalYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.yaml", "auth:\n  jwt_secret: \"x\"\n")
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 50, cfg.Matching.PageSize)
	assert.Equal(t, time.Hour, cfg.Reference.TTL)
}

func TestLoad_EnvOnly(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("MANAGER_IDS", "GGT,RH01")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "movimenta.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"GGT", "RH01"}, cfg.Auth.ManagerIDs)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat failed")
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing secret":  "env: x\n",
		"unknown driver":  "auth:\n  jwt_secret: k\nstorage:\n  driver: mongo\n",
		"postgres no dsn": "auth:\n  jwt_secret: k\nstorage:\n  driver: postgres\n",
		"bad page size":   "auth:\n  jwt_secret: k\nmatching:\n  page_size: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "c.yaml", body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}
