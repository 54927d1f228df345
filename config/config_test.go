package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "553299796446", cfg.Catalog.WhatsappNumber)
	assert.True(t, cfg.Catalog.SeedOnEmpty)
}

func TestLoadConfigYamlOverridesDefaults(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "catalogo.yml")
	require.NoError(t, os.WriteFile(cfile, []byte(`
web:
  port: 8080
catalog:
  whatsapp_number: "5511999990000"
`), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "5511999990000", cfg.Catalog.WhatsappNumber)
	// untouched sections keep defaults
	assert.Equal(t, "catalogo", cfg.Web.AdminPassword)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("CATALOGO_WEB_PORT", "9090")
	t.Setenv("CATALOGO_SEED_ON_EMPTY", "false")

	cfg := LoadConfig("")
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.False(t, cfg.Catalog.SeedOnEmpty)
}

func TestUploadDirSitsUnderAssets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Web.AssetsDir = "/srv/public"
	assert.Equal(t, filepath.Join("/srv/public", "img", "produtos"), cfg.UploadDir())
}
