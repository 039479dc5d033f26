package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLSTICE_ENV", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3080, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "Solstice", cfg.SiteName)
	assert.Equal(t, "footer", cfg.Newsletter.DefaultSource)
	assert.Equal(t, 100, cfg.Newsletter.BatchSize)
	assert.Equal(t, 180, cfg.Intake.RetentionDays)
	assert.Contains(t, cfg.DSN, "tcp(127.0.0.1:3306)")
	assert.Contains(t, cfg.DSN, "parseTime=true")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
port: 9000
env: production
site_name: Acme Studio
web_url: https://acme.example/
database:
  host: db.internal
  user: acme
  password: secret
  name: acme_site
newsletter:
  default_source: landing
  batch_size: 25
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://acme.example", cfg.WebURL, "trailing slash is trimmed")
	assert.Equal(t, "landing", cfg.Newsletter.DefaultSource)
	assert.Equal(t, 25, cfg.Newsletter.BatchSize)
	assert.Contains(t, cfg.DSN, "acme:secret@tcp(db.internal:3306)/acme_site")
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("env: staging\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateS3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
uploads:
  s3:
    enable: true
    bucket: media
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
